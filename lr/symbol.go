package lr

import "strings"

// Lambda denotes the empty string within productions.
const Lambda = "λ"

// SymbolKind tells terminals, non-terminals and the two synthetic
// symbols apart.
type SymbolKind int8

// Kinds of grammar symbols.
const (
	Terminal SymbolKind = iota
	NonTerminal
	EndOfInput     // '$'
	AugmentedStart // S'
)

func (k SymbolKind) String() string {
	switch k {
	case Terminal:
		return "terminal"
	case NonTerminal:
		return "non-terminal"
	case EndOfInput:
		return "end-of-input"
	case AugmentedStart:
		return "augmented-start"
	}
	return "?"
}

// Symbol is a grammar symbol. Symbols are values and compare equal if both
// name and kind are equal. The augmented start symbol is a tagged entity and
// can therefore never collide with a user defined non-terminal, whatever
// its name.
type Symbol struct {
	Name string
	Kind SymbolKind
}

// EOF is the end-of-input marker.
var EOF = Symbol{Name: "$", Kind: EndOfInput}

// augmentedStart is the synthetic start symbol of every normalized grammar.
var augmentedStart = Symbol{Name: "S'", Kind: AugmentedStart}

// T creates a terminal symbol.
func T(name string) Symbol {
	return Symbol{Name: name, Kind: Terminal}
}

// N creates a non-terminal symbol.
func N(name string) Symbol {
	return Symbol{Name: name, Kind: NonTerminal}
}

// IsTerminal is true for terminals and for the end-of-input marker.
func (A Symbol) IsTerminal() bool {
	return A.Kind == Terminal || A.Kind == EndOfInput
}

// IsNonTerminal is true for non-terminals, including the augmented start symbol.
func (A Symbol) IsNonTerminal() bool {
	return A.Kind == NonTerminal || A.Kind == AugmentedStart
}

func (A Symbol) String() string {
	return A.Name
}

// IsNonTerminalName classifies a symbol by its text: a symbol is a
// non-terminal iff it contains an uppercase ASCII letter.
func IsNonTerminalName(s string) bool {
	return strings.IndexFunc(s, isUpper) >= 0
}

func isUpper(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

// symbolsString concatenates symbol names the way productions are written.
func symbolsString(syms []Symbol) string {
	var b strings.Builder
	for _, A := range syms {
		b.WriteString(A.Name)
	}
	return b.String()
}

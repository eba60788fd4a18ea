package lr

import (
	"fmt"
)

// ValidationKind discriminates grammar consistency failures.
type ValidationKind int8

// Kinds of validation failures.
const (
	UndeclaredNonterminal ValidationKind = iota
	UnrecognizedTerminal
	InvalidLHS   // left hand side without an uppercase letter
	EmptyGrammar // no productions at all
)

func (k ValidationKind) String() string {
	switch k {
	case UndeclaredNonterminal:
		return "undeclared non-terminal"
	case UnrecognizedTerminal:
		return "unrecognized terminal"
	case InvalidLHS:
		return "invalid left hand side"
	case EmptyGrammar:
		return "empty grammar"
	}
	return "?"
}

// ValidationError pinpoints a grammar consistency failure: the production
// (by flat production index), the offending symbol and its character
// offset within the production string.
type ValidationError struct {
	Production int
	Symbol     string
	Offset     int
	Kind       ValidationKind
}

func (e *ValidationError) Error() string {
	if e.Kind == EmptyGrammar {
		return "grammar has no productions"
	}
	if e.Kind == InvalidLHS {
		return fmt.Sprintf("production %d: %q is not a non-terminal (needs an uppercase letter)",
			e.Production, e.Symbol)
	}
	return fmt.Sprintf("production %d: %s %q at position %d", e.Production, e.Kind, e.Symbol, e.Offset)
}

// Validate checks that every symbol referenced by a production is either a
// declared non-terminal or a member of the terminal set, and that every left
// hand side is a non-terminal. It returns the first failure in flat order as
// a *ValidationError, or nil.
func (m *Model) Validate() error {
	if len(m.rules) == 0 {
		return &ValidationError{Production: -1, Kind: EmptyGrammar}
	}
	for _, r := range m.rules {
		if !IsNonTerminalName(r.LHS.Name) {
			return m.fail(&ValidationError{
				Production: r.Serial,
				Symbol:     r.LHS.Name,
				Kind:       InvalidLHS,
			})
		}
		for i, A := range r.rhs {
			switch A.Kind {
			case NonTerminal:
				if !m.IsDeclared(A) {
					return m.fail(&ValidationError{
						Production: r.Serial,
						Symbol:     A.Name,
						Offset:     r.offsets[i],
						Kind:       UndeclaredNonterminal,
					})
				}
			case Terminal:
				if _, _, found := m.Terminal(A.Name); !found {
					return m.fail(&ValidationError{
						Production: r.Serial,
						Symbol:     A.Name,
						Offset:     r.offsets[i],
						Kind:       UnrecognizedTerminal,
					})
				}
			}
		}
	}
	return nil
}

func (m *Model) fail(e *ValidationError) error {
	tracer().Infof("grammar %q invalid: %v", m.Name, e)
	return e
}

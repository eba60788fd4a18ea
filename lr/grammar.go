package lr

import (
	"strconv"

	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// Grammar is a grammar in mapping form: an ordered mapping of non-terminal
// names to ordered lists of production strings. The order of declaration is
// significant: the first non-terminal is the start symbol, and the flattened
// order of all productions defines the production indices.
//
// Grammars are edited by clients; everything derived from a grammar is
// built from a snapshot (see Normalize) and never reflects later edits.
type Grammar struct {
	Name  string
	rules *linkedhashmap.Map // non-terminal name -> []string
}

// NewGrammar creates an empty grammar.
func NewGrammar(name string) *Grammar {
	return &Grammar{
		Name:  name,
		rules: linkedhashmap.New(),
	}
}

// Add appends productions for a non-terminal. If lhs has not been declared
// before, it is appended to the list of non-terminals.
// Returns the grammar (for chaining).
func (g *Grammar) Add(lhs string, prods ...string) *Grammar {
	var list []string
	if v, found := g.rules.Get(lhs); found {
		list = v.([]string)
	}
	list = append(list, prods...)
	g.rules.Put(lhs, list)
	return g
}

// Nonterminals returns the names of all declared non-terminals, in order
// of declaration.
func (g *Grammar) Nonterminals() []string {
	keys := g.rules.Keys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.(string)
	}
	return names
}

// Productions returns a copy of the productions for non-terminal lhs.
func (g *Grammar) Productions(lhs string) []string {
	v, found := g.rules.Get(lhs)
	if !found {
		return nil
	}
	return append([]string(nil), v.([]string)...)
}

// Size returns the number of declared non-terminals.
func (g *Grammar) Size() int {
	return g.rules.Size()
}

// Equal is true if both grammars declare the same non-terminals in the same
// order, each with the same productions in the same order. Names are not
// compared.
func (g *Grammar) Equal(other *Grammar) bool {
	if other == nil || g.Size() != other.Size() {
		return false
	}
	n1, n2 := g.Nonterminals(), other.Nonterminals()
	for i := range n1 {
		if n1[i] != n2[i] {
			return false
		}
		p1, p2 := g.Productions(n1[i]), other.Productions(n2[i])
		if len(p1) != len(p2) {
			return false
		}
		for j := range p1 {
			if p1[j] != p2[j] {
				return false
			}
		}
	}
	return true
}

// Copy returns a deep copy of g.
func (g *Grammar) Copy() *Grammar {
	c := NewGrammar(g.Name)
	for _, lhs := range g.Nonterminals() {
		c.Add(lhs, g.Productions(lhs)...)
	}
	return c
}

// --- Flat form -------------------------------------------------------------

// FlatProduction is a single (symbol, production) pair.
type FlatProduction struct {
	Symbol string `json:"symbol" toml:"symbol"`
	Prod   string `json:"prod" toml:"prod"`
}

// FlatGrammar is a grammar in flat form: an ordered list of
// (symbol, production) pairs. The position of a pair is its production index.
type FlatGrammar []FlatProduction

// Flatten converts g to flat form. The first non-terminal's productions
// come first.
func (g *Grammar) Flatten() FlatGrammar {
	flat := FlatGrammar{}
	it := g.rules.Iterator()
	for it.Next() {
		lhs := it.Key().(string)
		for _, p := range it.Value().([]string) {
			flat = append(flat, FlatProduction{Symbol: lhs, Prod: p})
		}
	}
	return flat
}

// FromFlat groups a flat grammar by symbol, preserving the order in which
// symbols are first seen and the order of productions per symbol.
func FromFlat(name string, flat FlatGrammar) *Grammar {
	g := NewGrammar(name)
	for _, p := range flat {
		g.Add(p.Symbol, p.Prod)
	}
	return g
}

// --- Sample grammars -------------------------------------------------------

// SampleGrammar is an assignment grammar with arithmetic expressions,
// identifiers and numbers. It is the default grammar of the workbench.
func SampleGrammar() *Grammar {
	g := NewGrammar("Assignment")
	g.Add("A", "I=E")
	g.Add("E", "T", "E+T", "E-T")
	g.Add("T", "F", "T*F", "T/F")
	g.Add("F", "N", "(E)")
	g.Add("I", "L", "LI")
	g.Add("N", "D", "DN")
	g.Add("L", "id", "a", "r")
	digits := make([]string, 10)
	for i := range digits {
		digits[i] = strconv.Itoa(i)
	}
	g.Add("D", digits...)
	return g
}

// G1 is the classic expression grammar for LR parsing.
func G1() *Grammar {
	return NewGrammar("G1").
		Add("E", "T", "E+T").
		Add("T", "F", "T*F").
		Add("F", "i", "(E)")
}

// G0 is a tiny right-recursive grammar.
func G0() *Grammar {
	return NewGrammar("G0").
		Add("V", "aW").
		Add("W", "bbW", "c")
}

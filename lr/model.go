package lr

import (
	"fmt"
	"strings"
)

// Option configures grammar normalization and table generation.
type Option func(*options)

type options struct {
	terminals []string // explicit terminal set, if any
	explicit  bool
	policy    ConflictPolicy
}

func makeOptions(opts []Option) options {
	o := options{policy: Strict}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithTerminals sets an explicit terminal set, instead of inferring it from
// the productions. Runs of terminal characters within productions will then
// be split by longest match against this set.
func WithTerminals(terms ...string) Option {
	return func(o *options) {
		o.explicit = true
		o.terminals = append([]string(nil), terms...)
	}
}

// --- Rules -----------------------------------------------------------------

// Rule is a normalized production. Serial is the production index within
// the flattened grammar; the augmented start rule has serial -1.
type Rule struct {
	Serial  int
	LHS     Symbol
	Text    string   // production as written
	rhs     []Symbol // right hand side, λ removed
	offsets []int    // rune offset of every RHS symbol within Text
}

// RHS returns a copy of the right hand side of the rule.
func (r *Rule) RHS() []Symbol {
	return append([]Symbol(nil), r.rhs...)
}

// Len returns the number of symbols on the right hand side.
func (r *Rule) Len() int {
	return len(r.rhs)
}

// IsStartRule is true for the synthetic rule S' → S.
func (r *Rule) IsStartRule() bool {
	return r.LHS.Kind == AugmentedStart
}

func (r *Rule) String() string {
	if len(r.rhs) == 0 {
		return fmt.Sprintf("%s → %s", r.LHS, Lambda)
	}
	return fmt.Sprintf("%s → %s", r.LHS, symbolsString(r.rhs))
}

// --- Normalized grammar ----------------------------------------------------

// Model is the normalized representation of a Grammar: productions split
// into symbols, terminals inferred, and augmented by a synthetic start rule.
// A Model is immutable.
type Model struct {
	Name         string
	source       FlatGrammar
	rules        []*Rule // in flat order
	start        *Rule   // S' → S
	nonterminals []Symbol
	terminals    []Symbol
	termIndex    map[string]int
	byLHS        map[string][]*Rule
	explicit     bool
}

// Normalize derives a Model from a grammar. The grammar is copied, later
// edits of g do not affect the model. Normalize never fails; consistency of
// the grammar is checked by Model.Validate.
func Normalize(g *Grammar, opts ...Option) *Model {
	o := makeOptions(opts)
	m := &Model{
		Name:      g.Name,
		source:    g.Flatten(),
		termIndex: make(map[string]int),
		byLHS:     make(map[string][]*Rule),
		explicit:  o.explicit,
	}
	for _, lhs := range g.Nonterminals() {
		m.nonterminals = append(m.nonterminals, N(lhs))
		m.byLHS[lhs] = []*Rule{}
	}
	if o.explicit {
		for _, t := range o.terminals {
			m.addTerminal(t)
		}
	} else {
		for _, p := range m.source { // non-terminals are known, split yields whole runs
			rhs, _ := m.split(p.Prod)
			for _, A := range rhs {
				if A.IsTerminal() {
					m.addTerminal(A.Name)
				}
			}
		}
	}
	for i, p := range m.source {
		rhs, offsets := m.split(p.Prod)
		r := &Rule{
			Serial:  i,
			LHS:     N(p.Symbol),
			Text:    p.Prod,
			rhs:     rhs,
			offsets: offsets,
		}
		m.rules = append(m.rules, r)
		m.byLHS[p.Symbol] = append(m.byLHS[p.Symbol], r)
	}
	if len(m.nonterminals) > 0 {
		S := m.nonterminals[0]
		m.start = &Rule{
			Serial:  -1,
			LHS:     augmentedStart,
			Text:    S.Name,
			rhs:     []Symbol{S},
			offsets: []int{0},
		}
	}
	tracer().Debugf("normalized grammar %q: %d rules, %d terminals, %d non-terminals",
		m.Name, len(m.rules), len(m.terminals), len(m.nonterminals))
	return m
}

func (m *Model) addTerminal(t string) {
	if t == "" || t == Lambda {
		return
	}
	if _, found := m.termIndex[t]; found {
		return
	}
	m.termIndex[t] = len(m.terminals)
	m.terminals = append(m.terminals, T(t))
}

// split breaks a production string into symbols. At an uppercase letter the
// longest declared non-terminal name is matched, falling back to the letter
// itself. Terminal runs are taken as a whole for inferred terminal sets, or
// split by longest match against an explicit terminal set.
func (m *Model) split(prod string) ([]Symbol, []int) {
	runes := []rune(prod)
	syms := []Symbol{}
	offsets := []int{}
	i := 0
	for i < len(runes) {
		r := runes[i]
		if string(r) == Lambda {
			i++
			continue
		}
		if isUpper(r) {
			name := m.matchNonTerminal(runes[i:])
			syms = append(syms, N(name))
			offsets = append(offsets, i)
			i += len([]rune(name))
			continue
		}
		j := i
		for j < len(runes) && !isUpper(runes[j]) && string(runes[j]) != Lambda {
			j++
		}
		run := runes[i:j]
		if !m.explicit {
			syms = append(syms, T(string(run)))
			offsets = append(offsets, i)
		} else {
			for k := 0; k < len(run); {
				t := m.longestTerminal(run[k:])
				if t == "" { // uncovered: a single character no terminal starts with
					t = string(run[k])
				}
				syms = append(syms, T(t))
				offsets = append(offsets, i+k)
				k += len([]rune(t))
			}
		}
		i = j
	}
	return syms, offsets
}

func (m *Model) matchNonTerminal(runes []rune) string {
	s := string(runes)
	longest := ""
	for _, A := range m.nonterminals {
		if len(A.Name) > len(longest) && strings.HasPrefix(s, A.Name) {
			longest = A.Name
		}
	}
	if longest == "" {
		return string(runes[0])
	}
	return longest
}

func (m *Model) longestTerminal(runes []rune) string {
	s := string(runes)
	longest := ""
	for _, t := range m.terminals {
		if len(t.Name) > len(longest) && strings.HasPrefix(s, t.Name) {
			longest = t.Name
		}
	}
	return longest
}

// --- Accessors -------------------------------------------------------------

// Rules returns all rules in flat order, excluding the augmented start rule.
func (m *Model) Rules() []*Rule {
	return append([]*Rule(nil), m.rules...)
}

// Rule returns the rule with production index n, or nil.
func (m *Model) Rule(n int) *Rule {
	if n < 0 || n >= len(m.rules) {
		return nil
	}
	return m.rules[n]
}

// StartRule returns the augmented start rule S' → S. It is nil for an empty
// grammar.
func (m *Model) StartRule() *Rule {
	return m.start
}

// StartSymbol returns the first declared non-terminal.
func (m *Model) StartSymbol() (Symbol, bool) {
	if len(m.nonterminals) == 0 {
		return Symbol{}, false
	}
	return m.nonterminals[0], true
}

// Terminals returns the terminal set, in order of inference.
func (m *Model) Terminals() []Symbol {
	return append([]Symbol(nil), m.terminals...)
}

// NonTerminals returns all declared non-terminals, in order of declaration.
func (m *Model) NonTerminals() []Symbol {
	return append([]Symbol(nil), m.nonterminals...)
}

// Terminal looks up a terminal by its text.
func (m *Model) Terminal(name string) (Symbol, int, bool) {
	inx, found := m.termIndex[name]
	if !found {
		return Symbol{}, -1, false
	}
	return m.terminals[inx], inx, true
}

// IsDeclared is true if A is a declared non-terminal or the augmented start symbol.
func (m *Model) IsDeclared(A Symbol) bool {
	if A.Kind == AugmentedStart {
		return m.start != nil
	}
	if A.Kind != NonTerminal {
		return false
	}
	_, found := m.byLHS[A.Name]
	return found
}

// RulesFor returns the rules for non-terminal A, in flat order.
func (m *Model) RulesFor(A Symbol) []*Rule {
	if A.Kind == AugmentedStart {
		if m.start == nil {
			return nil
		}
		return []*Rule{m.start}
	}
	return m.byLHS[A.Name]
}

// MatchRule finds the first rule matching lhs and rhs exactly and returns
// it together with its production index.
func (m *Model) MatchRule(lhs Symbol, rhs []Symbol) (*Rule, int) {
	if m.start != nil && lhs == m.start.LHS && sameSymbols(rhs, m.start.rhs) {
		return m.start, -1
	}
	for _, r := range m.byLHS[lhs.Name] {
		if lhs == r.LHS && sameSymbols(rhs, r.rhs) {
			return r, r.Serial
		}
	}
	return nil, -1
}

// Split breaks a sentential form, written like a production, into symbols.
func (m *Model) Split(w string) []Symbol {
	syms, _ := m.split(w)
	return syms
}

// Columns returns the columns of a parsing table: all terminals, then the
// end-of-input marker, then all non-terminals.
func (m *Model) Columns() []Symbol {
	cols := make([]Symbol, 0, len(m.terminals)+1+len(m.nonterminals))
	cols = append(cols, m.terminals...)
	cols = append(cols, EOF)
	cols = append(cols, m.nonterminals...)
	return cols
}

// EachSymbol iterates over all non-terminals (in order of declaration), then
// all terminals (in order of inference). This is the order in which goto-sets
// are explored.
func (m *Model) EachSymbol(mapper func(A Symbol) interface{}) []interface{} {
	var r []interface{}
	for _, A := range m.nonterminals {
		r = append(r, mapper(A))
	}
	for _, A := range m.terminals {
		r = append(r, mapper(A))
	}
	return r
}

// Flat returns the grammar this model has been derived from, in flat form.
func (m *Model) Flat() FlatGrammar {
	return append(FlatGrammar(nil), m.source...)
}

// Dump is a debugging helper.
func (m *Model) Dump() {
	tracer().Debugf("--- grammar %s ---------------------------------", m.Name)
	if m.start != nil {
		tracer().Debugf("%3d: [%s] ::= %v", m.start.Serial, m.start.LHS, m.start.rhs)
	}
	for _, r := range m.rules {
		tracer().Debugf("%3d: [%s] ::= %v", r.Serial, r.LHS, r.rhs)
	}
	tracer().Debugf("terminals = %v", m.terminals)
	tracer().Debugf("-------------------------------------------------")
}

func sameSymbols(a, b []Symbol) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

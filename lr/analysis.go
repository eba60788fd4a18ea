package lr

import (
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

// === Terminal sets =========================================================

// TerminalSet is a set of terminals (and possibly the end-of-input marker),
// ordered the way terminals appear as columns of a parsing table.
type TerminalSet struct {
	set *treeset.Set
}

func newTerminalSet(g *Model) *TerminalSet {
	cmp := func(a, b interface{}) int {
		x, y := a.(Symbol), b.(Symbol)
		if c := utils.IntComparator(columnOrder(g, x), columnOrder(g, y)); c != 0 {
			return c
		}
		return utils.StringComparator(x.Name, y.Name)
	}
	return &TerminalSet{set: treeset.NewWith(cmp)}
}

// columnOrder sorts terminals by order of inference; '$' follows all of them,
// terminals unknown to the grammar come last.
func columnOrder(g *Model, A Symbol) int {
	if A.Kind == EndOfInput {
		return len(g.terminals)
	}
	if inx, found := g.termIndex[A.Name]; found && A.Kind == Terminal {
		return inx
	}
	return len(g.terminals) + 1
}

// Add adds a terminal and returns true if it has not been present before.
func (ts *TerminalSet) Add(A Symbol) bool {
	if ts.set.Contains(A) {
		return false
	}
	ts.set.Add(A)
	return true
}

// AddAll adds all terminals of other and returns true if ts changed.
func (ts *TerminalSet) AddAll(other *TerminalSet) bool {
	changed := false
	for _, x := range other.set.Values() {
		changed = ts.Add(x.(Symbol)) || changed
	}
	return changed
}

// Contains checks for membership of A.
func (ts *TerminalSet) Contains(A Symbol) bool {
	return ts.set.Contains(A)
}

// Size returns the number of terminals in the set.
func (ts *TerminalSet) Size() int {
	return ts.set.Size()
}

// Empty is true for an empty set.
func (ts *TerminalSet) Empty() bool {
	return ts.set.Empty()
}

// Values returns the terminals in column order.
func (ts *TerminalSet) Values() []Symbol {
	vals := ts.set.Values()
	syms := make([]Symbol, len(vals))
	for i, x := range vals {
		syms[i] = x.(Symbol)
	}
	return syms
}

// Names returns the names of the terminals in column order.
func (ts *TerminalSet) Names() []string {
	syms := ts.Values()
	names := make([]string, len(syms))
	for i, A := range syms {
		names[i] = A.Name
	}
	return names
}

func (ts *TerminalSet) String() string {
	return "{" + strings.Join(ts.Names(), ", ") + "}"
}

// === Grammar analysis ======================================================

// LRAnalysis is an object for grammar analysis (compute FIRST and FOLLOW
// sets and the nullable non-terminals). All sets are computed once, as
// fixed points over all non-terminals, when the analysis is created.
type LRAnalysis struct {
	g        *Model
	nullable map[string]bool
	first    map[string]*TerminalSet
	follow   map[string]*TerminalSet
}

// Analysis creates an analyser for a grammar. The analyser immediately
// computes nullability, FIRST and FOLLOW sets.
func Analysis(g *Model) *LRAnalysis {
	ga := &LRAnalysis{
		g:        g,
		nullable: make(map[string]bool),
		first:    make(map[string]*TerminalSet),
		follow:   make(map[string]*TerminalSet),
	}
	for _, A := range g.nonterminals {
		ga.first[A.Name] = newTerminalSet(g)
		ga.follow[A.Name] = newTerminalSet(g)
	}
	ga.markNullables()
	ga.computeFirstSets()
	ga.computeFollowSets()
	return ga
}

// Grammar returns the grammar this analyser is working on.
func (ga *LRAnalysis) Grammar() *Model {
	return ga.g
}

// A non-terminal is nullable if at least one of its rules consists of
// nullable symbols only. An undeclared non-terminal is never nullable.
func (ga *LRAnalysis) markNullables() {
	changed := true
	for changed {
		changed = false
		for _, r := range ga.g.rules {
			if ga.nullable[r.LHS.Name] {
				continue
			}
			if ga.nullableSeq(r.rhs) {
				ga.nullable[r.LHS.Name] = true
				changed = true
			}
		}
	}
	for A, n := range ga.nullable {
		tracer().Debugf("nullable(%s) = %v", A, n)
	}
}

func (ga *LRAnalysis) computeFirstSets() {
	changed := true
	for changed {
		changed = false
		for _, r := range ga.g.rules {
			F := ga.first[r.LHS.Name]
			for _, A := range r.rhs {
				if A.IsTerminal() {
					changed = F.Add(A) || changed
					break
				}
				if FA, ok := ga.first[A.Name]; ok && FA != F {
					changed = F.AddAll(FA) || changed
				}
				if !ga.nullable[A.Name] {
					break
				}
			}
		}
	}
}

func (ga *LRAnalysis) computeFollowSets() {
	S, ok := ga.g.StartSymbol()
	if !ok {
		return
	}
	ga.follow[S.Name].Add(EOF)
	changed := true
	for changed {
		changed = false
		for _, r := range ga.g.rules {
			for i, A := range r.rhs {
				FA, declared := ga.follow[A.Name]
				if A.Kind != NonTerminal || !declared {
					continue
				}
				rest := r.rhs[i+1:]
				changed = FA.AddAll(ga.First(rest)) || changed
				if ga.nullableSeq(rest) && A != r.LHS {
					changed = FA.AddAll(ga.follow[r.LHS.Name]) || changed
				}
			}
		}
	}
}

func (ga *LRAnalysis) nullableSeq(seq []Symbol) bool {
	for _, A := range seq {
		if A.IsTerminal() || !ga.nullable[A.Name] {
			return false
		}
	}
	return true
}

// --- Public API ------------------------------------------------------------

// IsNullable checks if a sentential form, written like a production, may
// derive the empty string. "λ" is nullable, every other terminal is not.
func (ga *LRAnalysis) IsNullable(w string) bool {
	return ga.nullableSeq(ga.g.Split(w))
}

// Nullable checks if a sequence of symbols may derive the empty string.
func (ga *LRAnalysis) Nullable(seq []Symbol) bool {
	return ga.nullableSeq(seq)
}

// First returns FIRST(seq), the set of terminals which may begin a string
// derived from seq. FIRST never contains λ; check for nullability with
// Nullable.
func (ga *LRAnalysis) First(seq []Symbol) *TerminalSet {
	F := newTerminalSet(ga.g)
	for _, A := range seq {
		if A.IsTerminal() {
			F.Add(A)
			break
		}
		if FA, ok := ga.first[A.Name]; ok {
			F.AddAll(FA)
		}
		if !ga.nullable[A.Name] {
			break
		}
	}
	return F
}

// FirstOf returns FIRST for a sentential form, written like a production.
// A leading run of terminal characters is returned as a whole.
func (ga *LRAnalysis) FirstOf(w string) *TerminalSet {
	return ga.First(ga.g.Split(w))
}

// Follow returns FOLLOW(A), the set of terminals which may follow
// non-terminal A in a derivation. FOLLOW of the start symbol contains '$'.
// Clients must not modify the returned set.
func (ga *LRAnalysis) Follow(A Symbol) *TerminalSet {
	if F, ok := ga.follow[A.Name]; ok && A.Kind == NonTerminal {
		return F
	}
	return newTerminalSet(ga.g)
}

// NextOf returns FOLLOW for a non-terminal given by name.
func (ga *LRAnalysis) NextOf(name string) *TerminalSet {
	return ga.Follow(N(name))
}

// FirstSets returns FIRST(A) for every non-terminal A.
func (ga *LRAnalysis) FirstSets() map[string]*TerminalSet {
	m := make(map[string]*TerminalSet, len(ga.first))
	for A, F := range ga.first {
		m[A] = F
	}
	return m
}

// FollowSets returns FOLLOW(A) for every non-terminal A.
func (ga *LRAnalysis) FollowSets() map[string]*TerminalSet {
	m := make(map[string]*TerminalSet, len(ga.follow))
	for A, F := range ga.follow {
		m[A] = F
	}
	return m
}

// Dump traces the FIRST and FOLLOW sets of all non-terminals.
func (ga *LRAnalysis) Dump() {
	for _, A := range ga.g.nonterminals {
		tracer().Infof("first[%s] = %v", A, ga.first[A.Name])
		tracer().Infof("next[%s]  = %v", A, ga.follow[A.Name])
	}
}

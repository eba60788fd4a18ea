package lr

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/linkedhashset"
)

// === Closure and Goto-Set Operations =======================================

// Refer to "Crafting A Compiler" by Charles N. Fisher & Richard J. LeBlanc, Jr.
// Section 6.2.1 LR(0) Parsing

// Compute the closure of a set of items, breadth first. For every item with a
// non-terminal A after the dot, add items A → •α for all rules of A.
// The result keeps the order of discovery.
func (c *CFSM) closure(kernel []int) *linkedhashset.Set {
	C := linkedhashset.New()
	queue := make([]int, 0, len(kernel))
	for _, n := range kernel {
		if !C.Contains(n) {
			C.Add(n)
			queue = append(queue, n)
		}
	}
	for len(queue) > 0 {
		item := c.pool.item(queue[0])
		queue = queue[1:]
		A, ok := item.PeekSymbol()
		if !ok || A.Kind != NonTerminal { // no non-terminal after dot
			continue
		}
		for _, r := range c.g.RulesFor(A) {
			n := c.pool.intern(StartItem(r))
			if !C.Contains(n) {
				C.Add(n)
				queue = append(queue, n)
			}
		}
	}
	return C
}

// for every item in a state
// if item is  N -> ... *A ...
//     advance N -> ... A * ...
// The advanced items form the kernel of the goto-set.
func (c *CFSM) gotoKernel(s *CFSMState, A Symbol) []int {
	var kernel []int
	seen := make(map[int]bool)
	for _, n := range s.items {
		i := c.pool.item(n)
		if B, ok := i.PeekSymbol(); ok && B == A {
			k := c.pool.intern(i.Advance())
			if !seen[k] {
				tracer().Debugf("goto(%s) -%s-> %s", i, A, c.pool.item(k))
				kernel = append(kernel, k)
				seen[k] = true
			}
		}
	}
	return kernel
}

// gotoSet computes the closure of the goto-kernel of s for symbol A.
func (c *CFSM) gotoSet(s *CFSMState, A Symbol) ([]int, *linkedhashset.Set) {
	kernel := c.gotoKernel(s, A)
	if len(kernel) == 0 {
		return nil, nil
	}
	return kernel, c.closure(kernel)
}

// === CFSM Construction =====================================================

// CFSMState is a state within the CFSM for a grammar, i.e. a canonical set of
// LR(0) items. States store indices into the CFSM's item pool.
type CFSMState struct {
	ID     int    // serial ID of this state, i.e. its row in the parsing table
	Read   string // the string of symbols read to reach this state
	kernel []int  // kernel items, identifying the state
	items  []int  // closure of the kernel, in order of discovery
	Accept bool   // is this an accepting state?
	cfsm   *CFSM
}

// CFSM edge between 2 states, directed and with a symbol
type cfsmEdge struct {
	from  *CFSMState
	to    *CFSMState
	label Symbol
}

// Items returns the items of a state, kernel items first.
func (s *CFSMState) Items() []Item {
	items := make([]Item, len(s.items))
	for k, n := range s.items {
		items[k] = s.cfsm.pool.item(n)
	}
	return items
}

// ItemIDs returns the pool indices of the items of a state. Equal items in
// different states have equal indices.
func (s *CFSMState) ItemIDs() []int {
	return append([]int(nil), s.items...)
}

// Dump is a debugging helper
func (s *CFSMState) Dump() {
	tracer().Debugf("--- state %03d [%s] -----------", s.ID, s.Read)
	for _, i := range s.Items() {
		tracer().Debugf("    %s", s.cfsm.itemString(s, i))
	}
	tracer().Debugf("-------------------------")
}

func (s *CFSMState) String() string {
	return fmt.Sprintf("(state %d | [%d])", s.ID, len(s.items))
}

func (s *CFSMState) containsCompletedStartRule() bool {
	for _, i := range s.Items() {
		if i.rule.IsStartRule() && i.IsReduction() {
			return true
		}
	}
	return false
}

// CFSM is the characteristic finite state machine for a LR grammar, i.e. the
// LR(0) state diagram. Will be constructed by a TableGenerator.
// Clients normally do not use it directly. Nevertheless, there are some methods
// defined on it, e.g, for debugging purposes, or even to
// compute your own tables from it.
type CFSM struct {
	g        *Model                // this CFSM is for grammar g
	pool     *itemPool             // all items of all states
	states   []*CFSMState          // all the states, ordered by ID
	edges    *arraylist.List       // all the edges between states
	trans    []map[Symbol]int      // transitions per state
	byKernel map[string]*CFSMState // states by kernel signature
	S0       *CFSMState            // start state
}

// create an empty (initial) CFSM automata.
func emptyCFSM(g *Model) *CFSM {
	return &CFSM{
		g:        g,
		pool:     newItemPool(),
		edges:    arraylist.New(),
		byKernel: make(map[string]*CFSMState),
	}
}

// kernelSignature identifies a state by its (sorted) kernel items.
func kernelSignature(kernel []int) string {
	k := append([]int(nil), kernel...)
	sort.Ints(k)
	parts := make([]string, len(k))
	for i, n := range k {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

// Add a state to the CFSM. The item set is the closure of the kernel.
func (c *CFSM) addState(kernel []int, items *linkedhashset.Set) *CFSMState {
	s := &CFSMState{
		ID:     len(c.states),
		kernel: kernel,
		cfsm:   c,
	}
	for _, x := range items.Values() {
		s.items = append(s.items, x.(int))
	}
	s.Read = c.pool.item(kernel[0]).Read()
	s.Accept = s.containsCompletedStartRule()
	c.states = append(c.states, s)
	c.trans = append(c.trans, make(map[Symbol]int))
	c.byKernel[kernelSignature(kernel)] = s
	return s
}

func (c *CFSM) addEdge(s0, s1 *CFSMState, A Symbol) *cfsmEdge {
	e := &cfsmEdge{from: s0, to: s1, label: A}
	c.edges.Add(e)
	c.trans[s0.ID][A] = s1.ID
	return e
}

// buildCFSM constructs the canonical collection of LR(0) item sets.
// State 0 is the closure of S' → •S. Every state is checked for goto-sets,
// first on all non-terminals, then on all terminals. A goto-set with a kernel
// not seen before creates a new state.
func buildCFSM(g *Model) *CFSM {
	tracer().Debugf("=== build CFSM ==================================================")
	c := emptyCFSM(g)
	if g.start == nil {
		return c
	}
	start := c.pool.intern(StartItem(g.start))
	c.S0 = c.addState([]int{start}, c.closure([]int{start}))
	c.S0.Dump()
	for k := 0; k < len(c.states); k++ { // c.states grows while we iterate
		s := c.states[k]
		g.EachSymbol(func(A Symbol) interface{} {
			kernel, items := c.gotoSet(s, A)
			if kernel == nil {
				return nil
			}
			snew, found := c.byKernel[kernelSignature(kernel)]
			if !found {
				snew = c.addState(kernel, items)
				tracer().Debugf("goto(%d, %s) creates state %d", s.ID, A, snew.ID)
				snew.Dump()
			}
			c.addEdge(s, snew, A)
			return nil
		})
	}
	tracer().Infof("CFSM for grammar %q has %d states, %d distinct items", g.Name, len(c.states), c.pool.size())
	return c
}

// BuildCFSM constructs the characteristic finite state machine for a
// grammar. It is usually called indirectly by a TableGenerator.
func BuildCFSM(g *Model) *CFSM {
	return buildCFSM(g)
}

// Grammar returns the grammar this CFSM has been built for.
func (c *CFSM) Grammar() *Model {
	return c.g
}

// States returns all states, ordered by ID.
func (c *CFSM) States() []*CFSMState {
	return append([]*CFSMState(nil), c.states...)
}

// State returns the state with a given ID, or nil.
func (c *CFSM) State(id int) *CFSMState {
	if id < 0 || id >= len(c.states) {
		return nil
	}
	return c.states[id]
}

// Size returns the number of states.
func (c *CFSM) Size() int {
	return len(c.states)
}

// Goto returns the transition of state s on symbol A.
func (c *CFSM) Goto(s *CFSMState, A Symbol) (int, bool) {
	id, ok := c.trans[s.ID][A]
	return id, ok
}

// Target returns the target state of an item within state s, i.e. the
// state reached by moving the dot over the item's next symbol. Reduction
// items do not have a target.
func (c *CFSM) Target(s *CFSMState, i Item) (int, bool) {
	A, ok := i.PeekSymbol()
	if !ok {
		return -1, false
	}
	return c.Goto(s, A)
}

func (c *CFSM) itemString(s *CFSMState, i Item) string {
	if i.IsReduction() {
		if i.rule.IsStartRule() {
			return fmt.Sprintf("acc: %s", i)
		}
		return fmt.Sprintf("R%d: %s", i.rule.Serial, i)
	}
	if t, ok := c.Target(s, i); ok {
		return fmt.Sprintf("I%d: %s", t, i)
	}
	return fmt.Sprintf("ni: %s", i)
}

// Dump traces all states of the CFSM.
func (c *CFSM) Dump() {
	for _, s := range c.states {
		tracer().Infof("I%d: %s", s.ID, s.Read)
		for _, i := range s.Items() {
			tracer().Infof("  %s", c.itemString(s, i))
		}
	}
}

// CFSM2GraphViz exports a CFSM to the Graphviz Dot format.
func (c *CFSM) CFSM2GraphViz(w io.Writer) error {
	var b strings.Builder
	b.WriteString(`digraph {
graph [splines=true, fontname=Helvetica, fontsize=10];
node [shape=Mrecord, style=filled, fontname=Helvetica, fontsize=10];
edge [fontname=Helvetica, fontsize=10];

`)
	for _, s := range c.states {
		b.WriteString(fmt.Sprintf("s%03d [fillcolor=%s label=\"{%03d | %s}\"]\n",
			s.ID, nodecolor(s), s.ID, forGraphviz(s.Items())))
	}
	it := c.edges.Iterator()
	for it.Next() {
		edge := it.Value().(*cfsmEdge)
		b.WriteString(fmt.Sprintf("s%03d -> s%03d [label=\"%s\"]\n", edge.from.ID, edge.to.ID,
			graphvizEscape(edge.label.Name)))
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func nodecolor(state *CFSMState) string {
	if state.Accept {
		return "lightgray"
	}
	return "white"
}

func forGraphviz(items []Item) string {
	labels := make([]string, len(items))
	for k, i := range items {
		labels[k] = graphvizEscape(i.String())
	}
	return strings.Join(labels, "\\l") + "\\l"
}

var graphvizReplacer = strings.NewReplacer(
	`\`, `\\`, `"`, `\"`, `{`, `\{`, `}`, `\}`, `|`, `\|`, `<`, `\<`, `>`, `\>`,
)

func graphvizEscape(s string) string {
	return graphvizReplacer.Replace(s)
}

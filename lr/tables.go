package lr

import (
	"errors"
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/cnf/structhash"
	"github.com/npillmayer/lrzero/lr/sparse"
	"github.com/npillmayer/schuko/gconf"
)

// === Table cells ===========================================================

// CellKind discriminates the entries of a parsing table.
type CellKind int8

// Kinds of table cells.
const (
	NoAction CellKind = iota
	Shift             // S<n>: shift and go to state n
	Goto              // <n>: goto state n after a reduction
	Reduce            // R<n>: reduce by production n
	Accept            // acc
)

func (k CellKind) String() string {
	switch k {
	case NoAction:
		return "none"
	case Shift:
		return "shift"
	case Goto:
		return "goto"
	case Reduce:
		return "reduce"
	case Accept:
		return "accept"
	}
	return "?"
}

// Cell is an entry of a parsing table. N is the target state for shift and
// goto cells, and the production index for reduce cells.
type Cell struct {
	Kind CellKind
	N    int
}

// IsEmpty is true for cells without an action.
func (c Cell) IsEmpty() bool {
	return c.Kind == NoAction
}

// String renders a cell the way it is shown in a table: S4, 7, R2, acc.
// Empty cells render as the empty string.
func (c Cell) String() string {
	switch c.Kind {
	case Shift:
		return "S" + strconv.Itoa(c.N)
	case Goto:
		return strconv.Itoa(c.N)
	case Reduce:
		return "R" + strconv.Itoa(c.N)
	case Accept:
		return "acc"
	}
	return ""
}

// ParseCell is the inverse of Cell.String.
func ParseCell(s string) (Cell, error) {
	switch {
	case s == "":
		return Cell{}, nil
	case s == "acc":
		return Cell{Kind: Accept}, nil
	case strings.HasPrefix(s, "S"), strings.HasPrefix(s, "R"):
		n, err := strconv.Atoi(s[1:])
		if err != nil || n < 0 {
			return Cell{}, fmt.Errorf("malformed table cell %q", s)
		}
		if s[0] == 'S' {
			return Cell{Kind: Shift, N: n}, nil
		}
		return Cell{Kind: Reduce, N: n}, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return Cell{}, fmt.Errorf("malformed table cell %q", s)
	}
	return Cell{Kind: Goto, N: n}, nil
}

// Cells are stored in the sparse matrix as n<<3 | kind.
func (c Cell) encode() int32 {
	return int32(c.N)<<3 | int32(c.Kind)
}

func decodeCell(v int32) Cell {
	if v == sparse.DefaultNullValue {
		return Cell{}
	}
	return Cell{Kind: CellKind(v & 7), N: int(v >> 3)}
}

// === Conflicts =============================================================

// ConflictPolicy decides what happens if two actions compete for a table cell.
type ConflictPolicy int8

// Conflict policies.
const (
	Strict      ConflictPolicy = iota // table construction fails
	PreferShift                       // shift wins over reduce, lower production index wins over higher
)

func (p ConflictPolicy) String() string {
	if p == PreferShift {
		return "prefer-shift"
	}
	return "strict"
}

// WithConflictPolicy sets the conflict policy for table generation.
func WithConflictPolicy(p ConflictPolicy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// Conflict describes competing actions for a table cell. Kept is the action
// which is in the table, Rejected lists all the other candidates.
type Conflict struct {
	State    int
	Column   Symbol
	Kept     Cell
	Rejected []Cell
}

// Kind is either "shift/reduce" or "reduce/reduce".
func (c Conflict) Kind() string {
	if c.Kept.Kind != Reduce {
		return "shift/reduce"
	}
	for _, r := range c.Rejected {
		if r.Kind != Reduce {
			return "shift/reduce"
		}
	}
	return "reduce/reduce"
}

func (c Conflict) String() string {
	alts := make([]string, len(c.Rejected))
	for i, r := range c.Rejected {
		alts[i] = r.String()
	}
	return fmt.Sprintf("%s conflict in state %d on %s: %s vs %s", c.Kind(), c.State, c.Column,
		c.Kept, strings.Join(alts, ","))
}

// ConflictError is returned by table generation with a strict conflict
// policy, if the grammar is not LR(0) (with FOLLOW-restricted reductions).
type ConflictError struct {
	Grammar   string
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	if len(e.Conflicts) == 1 {
		return fmt.Sprintf("grammar %q has a table conflict: %s", e.Grammar, e.Conflicts[0])
	}
	return fmt.Sprintf("grammar %q has %d table conflicts, first: %s", e.Grammar,
		len(e.Conflicts), e.Conflicts[0])
}

// ErrBuilderInvariant signals an internal defect of the table builder, e.g. an
// item without a target state. It is never caused by user input.
var ErrBuilderInvariant = errors.New("LR(0) builder invariant violated")

// panicOnDefect reads the global configuration switch for post-mortem
// debugging of builder defects.
var panicOnDefect = func() bool {
	return gconf.GetBool("panic-on-builder-defect")
}

func builderDefect(format string, args ...interface{}) error {
	err := fmt.Errorf("%w: %s", ErrBuilderInvariant, fmt.Sprintf(format, args...))
	tracer().Errorf(err.Error())
	if panicOnDefect() {
		panic(err)
	}
	return err
}

// === Parsing table =========================================================

// Table is an LR(0) parsing table: one row per CFSM state, columns for all
// terminals, then '$', then all non-terminals. A table is read-only after
// construction and may be shared between concurrent parsers.
type Table struct {
	g         *Model
	columns   []Symbol
	colIndex  map[Symbol]int
	matrix    *sparse.IntMatrix
	conflicts []Conflict
}

func newTable(g *Model, rows int) *Table {
	t := &Table{
		g:        g,
		columns:  g.Columns(),
		colIndex: make(map[Symbol]int),
	}
	for j, A := range t.columns {
		t.colIndex[A] = j
	}
	t.matrix = sparse.NewIntMatrix(rows, len(t.columns), sparse.DefaultNullValue)
	return t
}

// Grammar returns the grammar the table has been built for.
func (t *Table) Grammar() *Model {
	return t.g
}

// Rows returns the number of rows, i.e. the number of CFSM states.
func (t *Table) Rows() int {
	return t.matrix.M()
}

// Columns returns the column symbols: terminals, '$', non-terminals.
func (t *Table) Columns() []Symbol {
	return append([]Symbol(nil), t.columns...)
}

// Cell returns the action for a state and a column symbol.
func (t *Table) Cell(state int, A Symbol) Cell {
	j, ok := t.colIndex[A]
	if !ok {
		return Cell{}
	}
	return decodeCell(t.matrix.Value(state, j))
}

// Row returns all cells of a state, in column order.
func (t *Table) Row(state int) []Cell {
	row := make([]Cell, len(t.columns))
	for j := range t.columns {
		row[j] = decodeCell(t.matrix.Value(state, j))
	}
	return row
}

// Conflicts returns all conflicts found during construction. With the
// PreferShift policy, these are the resolutions applied.
func (t *Table) Conflicts() []Conflict {
	return append([]Conflict(nil), t.conflicts...)
}

// Production maps a reduce index back to the production it stands for.
func (t *Table) Production(n int) (FlatProduction, bool) {
	r := t.g.Rule(n)
	if r == nil {
		return FlatProduction{}, false
	}
	return FlatProduction{Symbol: r.LHS.Name, Prod: r.Text}, true
}

// Size returns the number of non-empty cells.
func (t *Table) Size() int {
	return t.matrix.ValueCount()
}

type tableSnapshot struct {
	Columns []string
	Rows    []string
}

// Fingerprint returns a hash over the rendered table. Tables for equal
// grammars have equal fingerprints.
func (t *Table) Fingerprint() string {
	snap := tableSnapshot{}
	for _, A := range t.columns {
		snap.Columns = append(snap.Columns, A.Name)
	}
	grid := make([][]string, t.Rows())
	for i := range grid {
		grid[i] = make([]string, len(t.columns))
	}
	t.matrix.Each(func(i, j int, a, _ int32) {
		grid[i][j] = decodeCell(a).String()
	})
	for _, texts := range grid {
		snap.Rows = append(snap.Rows, strings.Join(texts, "\x1f"))
	}
	h, err := structhash.Hash(snap, 1)
	if err != nil {
		tracer().Errorf("cannot hash table: %v", err)
		return ""
	}
	return h
}

// set enters a cell, resolving conflicts according to the policy.
func (t *Table) set(state int, A Symbol, c Cell, policy ConflictPolicy) {
	j := t.colIndex[A]
	old := decodeCell(t.matrix.Value(state, j))
	if old.IsEmpty() {
		tracer().Debugf("    table(%d, %s) = %s", state, A, c)
		t.matrix.Add(state, j, c.encode())
		return
	}
	if old == c {
		return // same action entered by another item
	}
	kept, rejected := old, c
	if policy == PreferShift && wins(c, old) {
		kept, rejected = c, old
	}
	tracer().Debugf("    table(%d, %s): %s competes with %s, keeping %s", state, A, c, old, kept)
	if kept == old {
		t.matrix.Add(state, j, rejected.encode()) // becomes the secondary value
	} else {
		t.matrix.SetPair(state, j, kept.encode(), rejected.encode())
	}
	t.recordConflict(state, A, kept, rejected)
}

// wins decides if cell a beats cell b under the PreferShift policy. Accept
// ranks like a shift.
func wins(a, b Cell) bool {
	if a.Kind != Reduce && b.Kind == Reduce {
		return true
	}
	if a.Kind == Reduce && b.Kind == Reduce {
		return a.N < b.N
	}
	return false
}

func (t *Table) recordConflict(state int, A Symbol, kept, rejected Cell) {
	for k := range t.conflicts {
		c := &t.conflicts[k]
		if c.State == state && c.Column == A {
			if c.Kept != kept {
				c.Rejected = append(c.Rejected, c.Kept)
				c.Kept = kept
			}
			if !containsCell(c.Rejected, rejected) && rejected != kept {
				c.Rejected = append(c.Rejected, rejected)
			}
			return
		}
	}
	t.conflicts = append(t.conflicts, Conflict{
		State:    state,
		Column:   A,
		Kept:     kept,
		Rejected: []Cell{rejected},
	})
}

func containsCell(cells []Cell, c Cell) bool {
	for _, x := range cells {
		if x == c {
			return true
		}
	}
	return false
}

// === Table generator =======================================================

// TableGenerator is a generator object to construct the LR(0) parsing table
// for a grammar. Clients usually create a Grammar G, then a LRAnalysis-object
// for G, and then a table generator. TableGenerator.CreateTables() constructs
// the CFSM and the parsing table.
type TableGenerator struct {
	g            *Model
	ga           *LRAnalysis
	dfa          *CFSM
	table        *Table
	policy       ConflictPolicy
	HasConflicts bool
}

// NewTableGenerator creates a new TableGenerator for a (previously analysed) grammar.
// The only option respected is WithConflictPolicy.
func NewTableGenerator(ga *LRAnalysis, opts ...Option) *TableGenerator {
	o := makeOptions(opts)
	return &TableGenerator{
		g:      ga.Grammar(),
		ga:     ga,
		policy: o.policy,
	}
}

// CFSM returns the characteristic finite state machine (CFSM) for a grammar.
// Usually clients call lrgen.CreateTables() beforehand, but it is possible
// to call lrgen.CFSM() directly. The CFSM will be created, if it has not
// been constructed previously.
func (lrgen *TableGenerator) CFSM() *CFSM {
	if lrgen.dfa == nil {
		lrgen.dfa = buildCFSM(lrgen.g)
	}
	return lrgen.dfa
}

// Table returns the parsing table. Clients have to call CreateTables() first.
// With a strict conflict policy, a table with conflicts is still available
// for inspection, holding the first action entered for every cell.
func (lrgen *TableGenerator) Table() *Table {
	if lrgen.table == nil {
		tracer().Errorf("table not yet generated; call CreateTables() first")
	}
	return lrgen.table
}

// AcceptingStates returns the IDs of all states which contain the completed
// augmented start rule.
func (lrgen *TableGenerator) AcceptingStates() []int {
	var acc []int
	for _, s := range lrgen.CFSM().states {
		if s.Accept {
			acc = append(acc, s.ID)
		}
	}
	return acc
}

// CreateTables creates the CFSM and the parsing table for a grammar.
// It returns a *ConflictError if conflicts have been found and the
// policy is Strict, or an error wrapping ErrBuilderInvariant for internal
// defects.
func (lrgen *TableGenerator) CreateTables() error {
	dfa := lrgen.CFSM()
	table := newTable(lrgen.g, dfa.Size())
	for _, state := range dfa.states {
		tracer().Debugf("--- state %d --------------------------------", state.ID)
		for _, i := range state.Items() {
			if err := lrgen.enterItem(table, state, i); err != nil {
				return err
			}
		}
	}
	lrgen.table = table
	lrgen.HasConflicts = len(table.conflicts) > 0
	tracer().Infof("parsing table for %q: %d x %d, %d entries, %d conflicts", lrgen.g.Name,
		table.Rows(), len(table.columns), table.Size(), len(table.conflicts))
	if lrgen.HasConflicts {
		for _, c := range table.conflicts {
			if lrgen.policy == Strict {
				tracer().Errorf(c.String())
			} else {
				tracer().Infof("resolved %s", c)
			}
		}
		if lrgen.policy == Strict {
			return &ConflictError{Grammar: lrgen.g.Name, Conflicts: table.Conflicts()}
		}
	}
	return nil
}

// For building the table we iterate over all the states of the CFSM.
// An inner loop iterates over all the items within a CFSM-state.
// If an item has a symbol immediately after the dot, we produce a shift
// entry (terminals) or a goto entry (non-terminals). If an item's dot is
// behind the complete RHS of a rule, we produce a reduce entry for the rule
// for each terminal from FOLLOW(LHS), or accept for the augmented start rule.
func (lrgen *TableGenerator) enterItem(table *Table, state *CFSMState, i Item) error {
	A, ok := i.PeekSymbol()
	if !ok { // we are at the end of a rule
		if i.rule.IsStartRule() {
			table.set(state.ID, EOF, Cell{Kind: Accept}, lrgen.policy)
			return nil
		}
		rule, inx := lrgen.g.MatchRule(i.rule.LHS, i.rule.rhs)
		if rule == nil || inx < 0 {
			return builderDefect("no production for reduction item %s in state %d", i, state.ID)
		}
		lookaheads := lrgen.ga.Follow(rule.LHS)
		tracer().Debugf("    Follow(%v) = %v", rule.LHS, lookaheads)
		for _, la := range lookaheads.Values() {
			table.set(state.ID, la, Cell{Kind: Reduce, N: inx}, lrgen.policy)
		}
		return nil
	}
	target, ok := lrgen.dfa.Target(state, i)
	if !ok {
		return builderDefect("item %s in state %d has no target", i, state.ID)
	}
	if A.IsTerminal() {
		table.set(state.ID, A, Cell{Kind: Shift, N: target}, lrgen.policy)
	} else {
		table.set(state.ID, A, Cell{Kind: Goto, N: target}, lrgen.policy)
	}
	return nil
}

// --- Export ----------------------------------------------------------------

// TableAsHTML exports a parsing table in HTML-format. Conflicting cells show
// the kept and the rejected action.
func TableAsHTML(t *Table, w io.Writer) error {
	var b strings.Builder
	b.WriteString("<html><body>\n")
	b.WriteString(fmt.Sprintf("<p>LR(0) table for %s, %d entries</p>\n", html.EscapeString(t.g.Name), t.Size()))
	b.WriteString("<table border=1 cellspacing=0 cellpadding=5>\n")
	b.WriteString("<tr bgcolor=#cccccc><td></td>")
	for _, A := range t.columns {
		b.WriteString(fmt.Sprintf("<td>%s</td>", html.EscapeString(A.Name)))
	}
	b.WriteString("</tr>\n")
	for i := 0; i < t.Rows(); i++ {
		b.WriteString(fmt.Sprintf("<tr><td>I%d</td>", i))
		for j := range t.columns {
			v1, v2 := t.matrix.Values(i, j)
			td := "&nbsp;"
			if v1 != t.matrix.NullValue() {
				td = decodeCell(v1).String()
				if v2 != t.matrix.NullValue() {
					td += "/" + decodeCell(v2).String()
				}
			}
			b.WriteString("<td>" + td + "</td>")
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</table></body></html>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

package lr0

import (
	"strconv"
	"strings"

	"github.com/npillmayer/lrzero"
	"github.com/npillmayer/lrzero/lr"
	"github.com/npillmayer/lrzero/lr/scanner"
)

// ErrAction is the action label of a failing step.
const ErrAction = "err"

// Step is a configuration of the parser, together with the action taken
// in this configuration. Stack and Input are captured before the action is
// applied.
type Step struct {
	Stack  string  // e.g. "$ 0 E 1 + 6"
	Input  string  // unread input, followed by '$'
	Action string  // S<n>, R<n>, acc or err
	Cell   lr.Cell // table cell for Action; empty for err
}

// IsError is true for a failing step.
func (s Step) IsError() bool {
	return s.Action == ErrAction
}

func (s Step) String() string {
	return s.Stack + "\t" + s.Input + "\t" + s.Action
}

// Trace is the result of a parse: all steps the parser has taken. The last
// step is either an accept or an error step.
type Trace struct {
	Steps    []Step
	Accepted bool
}

// Last returns the final step of a trace.
func (tr *Trace) Last() Step {
	if len(tr.Steps) == 0 {
		return Step{}
	}
	return tr.Steps[len(tr.Steps)-1]
}

// Len returns the number of steps.
func (tr *Trace) Len() int {
	return len(tr.Steps)
}

// String renders a trace, one step per line, fields separated by tabs.
func (tr *Trace) String() string {
	var b strings.Builder
	for _, s := range tr.Steps {
		b.WriteString(s.String())
		b.WriteString("\n")
	}
	return b.String()
}

// Parser is an LR(0)-parser type. Create and initialize one with
// lr0.NewParser(...). A parser is not safe for concurrent use, but parsers
// for the same table may run concurrently.
type Parser struct {
	table    *lr.Table
	maxSteps int
	stack    []stackitem // parser stack
}

// We store pairs of state-IDs and symbols on the parse stack.
type stackitem struct {
	stateID int
	sym     lr.Symbol
	span    lrzero.Span // input span over which this symbol reaches
}

// NewParser creates an LR(0) parser for a parsing table. The parser gives up
// after maxSteps steps, with an error step.
func NewParser(table *lr.Table, maxSteps int) *Parser {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	return &Parser{
		table:    table,
		maxSteps: maxSteps,
		stack:    make([]stackitem, 0, 64),
	}
}

// Parse starts a new parse for an input, tokenized by scan. The input string
// is needed for rendering the remaining input of every step.
//
// http://www.cse.unt.edu/~sweany/CSCE3650/HANDOUTS/LRParseAlg.pdf
func (p *Parser) Parse(input string, scan scanner.Tokenizer) *Trace {
	tracer().Debugf("~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~")
	trace := &Trace{}
	p.stack = append(p.stack[:0], stackitem{0, lr.EOF, lrzero.Span{}}) // push S0
	token := scan.NextToken()
	terminals := p.table.Grammar().Terminals()
	for {
		tos := p.stack[len(p.stack)-1]
		step := Step{Stack: p.stackString(), Input: remaining(input, token)}
		if len(trace.Steps) >= p.maxSteps {
			tracer().Infof("parser gave up after %d steps", p.maxSteps)
			trace.Steps = append(trace.Steps, p.fail(step))
			return trace
		}
		sym := tokenSymbol(token, terminals)
		action := p.table.Cell(tos.stateID, sym)
		tracer().Debugf("action(%d,%s) = %s", tos.stateID, sym, action)
		step.Cell, step.Action = action, action.String()
		switch action.Kind {
		case lr.Shift:
			p.stack = append(p.stack, stackitem{action.N, sym, token.Span()})
			token = scan.NextToken()
		case lr.Reduce:
			if !p.reduce(action.N, token) {
				trace.Steps = append(trace.Steps, p.fail(step))
				return trace
			}
		case lr.Accept:
			trace.Steps = append(trace.Steps, step)
			trace.Accepted = true
			tracer().Debugf("accepted, input span %v", p.stack[len(p.stack)-1].span)
			return trace
		default: // no action found
			trace.Steps = append(trace.Steps, p.fail(step))
			return trace
		}
		trace.Steps = append(trace.Steps, step)
	}
}

func (p *Parser) fail(step Step) Step {
	step.Action, step.Cell = ErrAction, lr.Cell{}
	return step
}

// reduce performs a reduce action for a rule
//
//    LHS --> X1 ... Xn   (with X being terminals or non-terminals)
//
// Symbols X1 to Xn should be represented on the stack as states
//
//    [TOS]  Sn(Xn, span_n) ... S1(X1, span1)  ...
//
// Exactly n stack items are popped. The symbols are checked against the
// RHS of the rule; a mismatch fails the parse.
func (p *Parser) reduce(n int, lookahead lrzero.Token) bool {
	rule := p.table.Grammar().Rule(n)
	if rule == nil || len(p.stack)-1 < rule.Len() {
		tracer().Errorf("cannot reduce by production %d", n)
		return false
	}
	tracer().Debugf("reduce %v", rule)
	handle := p.stack[len(p.stack)-rule.Len():]
	var handlespan lrzero.Span
	for i, A := range rule.RHS() {
		if handle[i].sym != A {
			tracer().Errorf("expected %v on stack, got %v", A, handle[i].sym)
			return false
		}
		handlespan = handlespan.Extend(handle[i].span)
	}
	if handlespan.IsNull() { // resulted from an epsilon production
		pos := lookahead.Span().From()
		handlespan = lrzero.Span{pos, pos}
	}
	p.stack = p.stack[:len(p.stack)-rule.Len()]
	state := p.stack[len(p.stack)-1].stateID
	next := p.table.Cell(state, rule.LHS)
	if next.Kind != lr.Goto {
		tracer().Errorf("no goto for %v in state %d", rule.LHS, state)
		return false
	}
	p.stack = append(p.stack, stackitem{next.N, rule.LHS, handlespan})
	return true
}

// --- Helpers ----------------------------------------------------------

func (p *Parser) stackString() string {
	var b strings.Builder
	for i, item := range p.stack {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(item.sym.Name)
		b.WriteString(" ")
		b.WriteString(strconv.Itoa(item.stateID))
	}
	return b.String()
}

func remaining(input string, token lrzero.Token) string {
	from := int(token.Span().From())
	if from > len(input) {
		from = len(input)
	}
	return input[from:] + lr.EOF.Name
}

func tokenSymbol(token lrzero.Token, terminals []lr.Symbol) lr.Symbol {
	t := token.TokType()
	switch {
	case t == scanner.EOF:
		return lr.EOF
	case t >= 0 && int(t) < len(terminals):
		return terminals[t]
	}
	return lr.T(token.Lexeme()) // not a column of the table
}

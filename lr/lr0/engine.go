package lr0

import (
	"fmt"
	"time"

	"github.com/npillmayer/lrzero/lr"
	"github.com/npillmayer/lrzero/lr/scanner"
)

// DefaultMaxSteps limits the length of parse traces.
const DefaultMaxSteps = 10000

// Option configures engines and workbenches.
type Option func(*config)

type config struct {
	lropts   []lr.Option
	maxSteps int
	delay    time.Duration
	store    Store
}

func makeConfig(opts []Option) config {
	c := config{maxSteps: DefaultMaxSteps, delay: time.Second}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Terminals sets an explicit terminal set, see lr.WithTerminals.
func Terminals(terms ...string) Option {
	return func(c *config) {
		c.lropts = append(c.lropts, lr.WithTerminals(terms...))
	}
}

// Conflicts sets the conflict policy for table construction, see
// lr.WithConflictPolicy.
func Conflicts(p lr.ConflictPolicy) Option {
	return func(c *config) {
		c.lropts = append(c.lropts, lr.WithConflictPolicy(p))
	}
}

// MaxSteps limits the number of steps of a parse. Grammars with cyclic
// reductions would otherwise never end a parse.
func MaxSteps(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxSteps = n
		}
	}
}

// Engine bundles everything built from a grammar: normalized grammar,
// analysis, CFSM, parsing table and tokenizer. An engine is immutable and
// may serve concurrent parse requests.
type Engine struct {
	grammar  *lr.Grammar
	model    *lr.Model
	ga       *lr.LRAnalysis
	lrgen    *lr.TableGenerator
	munch    *scanner.Munch
	maxSteps int
}

// NewEngine builds an engine for a grammar. The grammar is copied. NewEngine
// returns a *lr.ValidationError for inconsistent grammars and a
// *lr.ConflictError for grammars with table conflicts (unless resolved by
// a conflict policy).
func NewEngine(g *lr.Grammar, opts ...Option) (*Engine, error) {
	c := makeConfig(opts)
	return newEngine(g, c)
}

// NewEngineFromFlat builds an engine for a grammar in flat form.
func NewEngineFromFlat(name string, flat lr.FlatGrammar, opts ...Option) (*Engine, error) {
	return NewEngine(lr.FromFlat(name, flat), opts...)
}

func newEngine(g *lr.Grammar, c config) (*Engine, error) {
	e := &Engine{
		grammar:  g.Copy(),
		maxSteps: c.maxSteps,
	}
	e.model = lr.Normalize(e.grammar, c.lropts...)
	if err := e.model.Validate(); err != nil {
		return nil, err
	}
	e.model.Dump()
	e.ga = lr.Analysis(e.model)
	e.lrgen = lr.NewTableGenerator(e.ga, c.lropts...)
	if err := e.lrgen.CreateTables(); err != nil {
		return nil, err
	}
	terms := e.model.Terminals()
	names := make([]string, len(terms))
	for i, A := range terms {
		names[i] = A.Name
	}
	var err error
	if e.munch, err = scanner.NewMunch(names); err != nil {
		return nil, fmt.Errorf("cannot create tokenizer for grammar %q: %w", g.Name, err)
	}
	tracer().Infof("engine for grammar %q ready, %d states", g.Name, e.lrgen.CFSM().Size())
	return e, nil
}

// Parse parses an input string and returns the trace of all steps.
func (e *Engine) Parse(input string) *Trace {
	p := NewParser(e.lrgen.Table(), e.maxSteps)
	return p.Parse(input, e.munch.Scanner(input))
}

// Grammar returns a copy of the grammar the engine has been built for.
func (e *Engine) Grammar() *lr.Grammar {
	return e.grammar.Copy()
}

// Model returns the normalized grammar.
func (e *Engine) Model() *lr.Model {
	return e.model
}

// Analysis returns the FIRST/FOLLOW analysis of the grammar.
func (e *Engine) Analysis() *lr.LRAnalysis {
	return e.ga
}

// CFSM returns the canonical collection of LR(0) item sets.
func (e *Engine) CFSM() *lr.CFSM {
	return e.lrgen.CFSM()
}

// Table returns the parsing table.
func (e *Engine) Table() *lr.Table {
	return e.lrgen.Table()
}

// Tokens splits an input into tokens the way the parser does.
func (e *Engine) Tokens(input string) []string {
	tokens := e.munch.Tokens(input)
	lexemes := make([]string, len(tokens))
	for i, t := range tokens {
		lexemes[i] = t.Lexeme()
	}
	return lexemes
}

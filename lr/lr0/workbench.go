package lr0

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/npillmayer/lrzero/lr"
)

// Store persists grammars after every successful rebuild of a workbench.
type Store interface {
	Save(name string, flat lr.FlatGrammar) error
}

// DebounceDelay sets the quiet period a workbench waits for after a
// scheduled edit before it rebuilds. The default is one second.
func DebounceDelay(d time.Duration) Option {
	return func(c *config) {
		if d >= 0 {
			c.delay = d
		}
	}
}

// PersistTo makes a workbench save every grammar it has successfully built.
func PersistTo(s Store) Option {
	return func(c *config) {
		c.store = s
	}
}

// ErrNoEngine is returned by a workbench which has not yet built any engine.
var ErrNoEngine = errors.New("no grammar has been built yet")

// ErrSuperseded is returned for a build which finished after the build of a
// newer edit. Its result is discarded.
var ErrSuperseded = errors.New("grammar edit superseded by a newer one")

// Workbench holds the current engine of an interactive session. Grammar
// edits are scheduled and coalesced; after a quiet period the latest edit is
// built. A successfully built engine replaces the current one, a failing
// build leaves the current engine in place.
//
// Every edit gets a generation number when it is scheduled or rebuilt. Builds
// may run concurrently, but a build never replaces the result of a build for
// a newer edit.
//
// All methods are safe for concurrent use.
type Workbench struct {
	mu        sync.Mutex
	idle      *sync.Cond // signalled whenever a build ends
	conf      config
	current   *Engine
	pending   *lr.Grammar
	pendGen   uint64
	timer     *time.Timer
	lastErr   error
	gen       uint64 // last generation handed out
	finished  uint64 // newest generation whose build has finished
	building  int    // builds in flight
	persistMu sync.Mutex
	persisted uint64
	// OnInstall is called after a new engine has been installed.
	OnInstall func(*Engine)
	// OnError is called for failing rebuilds, with the build error.
	OnError func(error)
}

// NewWorkbench creates a workbench without a current engine.
func NewWorkbench(opts ...Option) *Workbench {
	wb := &Workbench{conf: makeConfig(opts)}
	wb.idle = sync.NewCond(&wb.mu)
	return wb
}

// Current returns the current engine, or nil.
func (wb *Workbench) Current() *Engine {
	wb.mu.Lock()
	defer wb.mu.Unlock()
	return wb.current
}

// Err returns the error of the latest rebuild, or nil if it succeeded.
func (wb *Workbench) Err() error {
	wb.mu.Lock()
	defer wb.mu.Unlock()
	return wb.lastErr
}

// Rebuild builds an engine for g immediately. On success, the new engine
// becomes the current one and the grammar is persisted. On failure, the
// previous engine stays current and the error is returned. If a build for a
// newer edit finishes first, Rebuild returns ErrSuperseded.
func (wb *Workbench) Rebuild(g *lr.Grammar) (*Engine, error) {
	wb.mu.Lock()
	wb.gen++
	gen := wb.gen
	wb.building++
	wb.mu.Unlock()
	return wb.build(g, gen)
}

// build has to be called with wb.building incremented for it.
func (wb *Workbench) build(g *lr.Grammar, gen uint64) (*Engine, error) {
	defer func() {
		wb.mu.Lock()
		wb.building--
		wb.idle.Broadcast()
		wb.mu.Unlock()
	}()
	e, err := newEngine(g, wb.conf)
	wb.mu.Lock()
	if gen < wb.finished {
		wb.mu.Unlock()
		tracer().Infof("build #%d of grammar %q superseded, discarding it", gen, g.Name)
		return nil, ErrSuperseded
	}
	wb.finished = gen
	wb.lastErr = err
	if err == nil {
		wb.current = e
	}
	onInstall, onError := wb.OnInstall, wb.OnError
	wb.mu.Unlock()
	if err != nil {
		tracer().Infof("rebuild of grammar %q failed, keeping previous engine: %v", g.Name, err)
		if onError != nil {
			onError(err)
		}
		return nil, err
	}
	wb.persist(g, gen)
	if onInstall != nil {
		onInstall(e)
	}
	return e, nil
}

func (wb *Workbench) persist(g *lr.Grammar, gen uint64) {
	if wb.conf.store == nil {
		return
	}
	wb.persistMu.Lock()
	defer wb.persistMu.Unlock()
	if gen < wb.persisted {
		return
	}
	wb.persisted = gen
	if err := wb.conf.store.Save(g.Name, g.Flatten()); err != nil {
		tracer().Errorf("cannot persist grammar %q: %v", g.Name, err)
	}
}

// Schedule registers an edited grammar for rebuilding. The rebuild starts
// after the debounce delay, unless another edit is scheduled in the
// meantime, which replaces this one. The grammar is copied.
func (wb *Workbench) Schedule(g *lr.Grammar) {
	wb.mu.Lock()
	defer wb.mu.Unlock()
	wb.gen++
	wb.pending, wb.pendGen = g.Copy(), wb.gen
	if wb.timer != nil {
		wb.timer.Stop()
	}
	wb.timer = time.AfterFunc(wb.conf.delay, wb.fire)
}

// takePending removes the pending edit, if any, and registers its build.
func (wb *Workbench) takePending() (*lr.Grammar, uint64) {
	g, gen := wb.pending, wb.pendGen
	wb.pending = nil
	if wb.timer != nil {
		wb.timer.Stop()
		wb.timer = nil
	}
	if g != nil {
		wb.building++
	}
	return g, gen
}

func (wb *Workbench) fire() {
	wb.mu.Lock()
	g, gen := wb.takePending()
	wb.mu.Unlock()
	if g != nil {
		wb.build(g, gen)
	}
}

// Flush rebuilds a pending edit immediately, if there is one, and waits for
// builds still in flight. It returns the error of the pending edit's build.
func (wb *Workbench) Flush() error {
	wb.mu.Lock()
	g, gen := wb.takePending()
	wb.mu.Unlock()
	var err error
	if g != nil {
		_, err = wb.build(g, gen)
	}
	wb.mu.Lock()
	for wb.building > 0 {
		wb.idle.Wait()
	}
	wb.mu.Unlock()
	return err
}

// Pending is true if an edit is waiting to be built.
func (wb *Workbench) Pending() bool {
	wb.mu.Lock()
	defer wb.mu.Unlock()
	return wb.pending != nil
}

// Parse parses an input with the current engine.
func (wb *Workbench) Parse(input string) (*Trace, error) {
	e := wb.Current()
	if e == nil {
		return nil, fmt.Errorf("cannot parse %q: %w", input, ErrNoEngine)
	}
	return e.Parse(input), nil
}

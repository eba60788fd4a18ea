package lr0

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/npillmayer/lrzero/lr"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

type memStore struct {
	sync.Mutex
	saved []string
}

func (s *memStore) Save(name string, flat lr.FlatGrammar) error {
	s.Lock()
	defer s.Unlock()
	s.saved = append(s.saved, name)
	return nil
}

func TestWorkbenchKeepsPreviousEngine(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrzero.lr")
	defer teardown()
	//
	store := &memStore{}
	wb := NewWorkbench(PersistTo(store))
	if _, err := wb.Parse("i"); !errors.Is(err, ErrNoEngine) {
		t.Errorf("expected ErrNoEngine, have %v", err)
	}
	var errs []error
	wb.OnError = func(err error) { errs = append(errs, err) }
	e1, err := wb.Rebuild(lr.G1())
	if err != nil {
		t.Fatal(err)
	}
	broken := lr.G1().Add("F", "X")
	if _, err = wb.Rebuild(broken); err == nil {
		t.Fatalf("expected rebuild of broken grammar to fail")
	}
	var verr *lr.ValidationError
	if !errors.As(wb.Err(), &verr) || verr.Production != 6 || verr.Symbol != "X" {
		t.Errorf("expected validation error for X in production 6, have %v", wb.Err())
	}
	if wb.Current() != e1 {
		t.Errorf("expected previous engine to remain current")
	}
	if len(errs) != 1 {
		t.Errorf("expected error handler to be called once, was called %d times", len(errs))
	}
	if len(store.saved) != 1 || store.saved[0] != "G1" {
		t.Errorf("expected only G1 to be persisted, have %v", store.saved)
	}
	if tr, err := wb.Parse("i*i"); err != nil || !tr.Accepted {
		t.Errorf("expected i*i to be accepted by current engine")
	}
}

func TestWorkbenchDebounce(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrzero.lr")
	defer teardown()
	//
	wb := NewWorkbench(DebounceDelay(time.Hour))
	installed := 0
	wb.OnInstall = func(*Engine) { installed++ }
	g := lr.NewGrammar("edit")
	g.Add("S", "a")
	wb.Schedule(g)
	g.Add("S", "b") // later edits of g must not leak into the scheduled copy
	wb.Schedule(lr.NewGrammar("edit").Add("S", "a", "c"))
	if !wb.Pending() || wb.Current() != nil {
		t.Fatalf("expected edits to be pending")
	}
	if err := wb.Flush(); err != nil {
		t.Fatal(err)
	}
	if installed != 1 {
		t.Errorf("expected a single rebuild for coalesced edits, have %d", installed)
	}
	if tr, _ := wb.Parse("c"); !tr.Accepted {
		t.Errorf("expected the latest edit to be built")
	}
	if wb.Pending() {
		t.Errorf("expected no pending edits after flush")
	}
}

func TestWorkbenchTimer(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrzero.lr")
	defer teardown()
	//
	wb := NewWorkbench(DebounceDelay(10 * time.Millisecond))
	done := make(chan *Engine, 1)
	wb.OnInstall = func(e *Engine) { done <- e }
	wb.Schedule(lr.G0())
	select {
	case e := <-done:
		if e.Grammar().Name != "G0" {
			t.Errorf("expected G0 to be built")
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("scheduled rebuild did not happen")
	}
}

func TestWorkbenchNewerEditWins(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrzero.lr")
	defer teardown()
	//
	store := &memStore{}
	wb := NewWorkbench(DebounceDelay(time.Hour), PersistTo(store))
	wb.Schedule(lr.G0()) // older edit, built last
	newer, err := wb.Rebuild(lr.G1())
	if err != nil {
		t.Fatal(err)
	}
	if err = wb.Flush(); !errors.Is(err, ErrSuperseded) {
		t.Errorf("expected build of older edit to be superseded, have %v", err)
	}
	if wb.Current() != newer || wb.Current().Grammar().Name != "G1" {
		t.Errorf("expected engine for G1 to remain current")
	}
	if len(store.saved) != 1 || store.saved[0] != "G1" {
		t.Errorf("expected only G1 to be persisted, have %v", store.saved)
	}
}

func TestWorkbenchFlushWaitsForBuild(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrzero.lr")
	defer teardown()
	//
	wb := NewWorkbench(DebounceDelay(time.Millisecond))
	grammars := []*lr.Grammar{lr.G0(), lr.G1(), lr.SampleGrammar()}
	for k := 0; k < 30; k++ {
		g := grammars[k%len(grammars)]
		wb.Schedule(g)
		if k%2 == 0 {
			time.Sleep(time.Millisecond)
		}
		wb.Flush()
		if e := wb.Current(); e == nil || e.Grammar().Name != g.Name {
			t.Fatalf("edit #%d: expected engine for %s after flush", k, g.Name)
		}
	}
}

package lr

import (
	"bytes"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestCFSMStatesG1(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrzero.lr")
	defer teardown()
	//
	c := BuildCFSM(Normalize(G1()))
	c.Dump()
	if c.Size() != 12 {
		t.Fatalf("expected 12 states for G1, have %d", c.Size())
	}
	if c.S0 != c.State(0) || len(c.S0.Items()) != 7 {
		t.Errorf("expected state 0 to hold 7 items, has %d", len(c.S0.Items()))
	}
	if c.S0.Items()[0].String() != "S' → •E" {
		t.Errorf("expected first item of state 0 to be S' → •E, is %s", c.S0.Items()[0])
	}
	reads := []string{"S'", "E", "T", "F", "i", "(", "E+", "T*", "(E", "E+T", "T*F", "(E)"}
	for i, s := range c.States() {
		if s.Read != reads[i] {
			t.Errorf("expected state %d to be reached by %q, is %q", i, reads[i], s.Read)
		}
	}
	if acc := c.State(1); !acc.Accept {
		t.Errorf("expected state 1 to be accepting")
	}
	if id, ok := c.Goto(c.State(5), N("T")); !ok || id != 2 {
		t.Errorf("expected goto(5, T) = 2, is %d", id)
	}
}

func TestCFSMItemsAreShared(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrzero.lr")
	defer teardown()
	//
	c := BuildCFSM(Normalize(G1()))
	ids0 := c.State(0).ItemIDs()
	ids5 := c.State(5).ItemIDs()
	shared := 0
	for _, a := range ids0 {
		for _, b := range ids5 {
			if a == b {
				shared++
			}
		}
	}
	if shared != 6 { // all items except the kernels
		t.Errorf("expected states 0 and 5 to share 6 items, share %d", shared)
	}
}

func TestCFSMKernelIdentity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrzero.lr")
	defer teardown()
	//
	g := NewGrammar("same-read").Add("S", "aA", "bB").Add("A", "x").Add("B", "x")
	c := BuildCFSM(Normalize(g))
	if c.Size() != 8 {
		t.Fatalf("expected 8 states, have %d", c.Size())
	}
	var xs []*CFSMState
	for _, s := range c.States() {
		if s.Read == "x" {
			xs = append(xs, s)
		}
	}
	if len(xs) != 2 {
		t.Fatalf("expected 2 states reached by x, have %d", len(xs))
	}
	if xs[0].Items()[0].Rule().LHS == xs[1].Items()[0].Rule().LHS {
		t.Errorf("expected states reached by x to reduce different rules")
	}
}

func TestCFSMAllTargetsPresent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrzero.lr")
	defer teardown()
	//
	g := NewGrammar("left-recursive").Add("E", "E+T", "T").Add("T", "i")
	for _, m := range []*Model{Normalize(g), Normalize(G1()), Normalize(SampleGrammar())} {
		c := BuildCFSM(m)
		for _, s := range c.States() {
			for _, i := range s.Items() {
				if i.IsReduction() {
					continue
				}
				if _, ok := c.Target(s, i); !ok {
					t.Errorf("grammar %s: item %s in state %d has no target", m.Name, i, s.ID)
				}
			}
		}
	}
}

func TestCFSMGraphviz(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrzero.lr")
	defer teardown()
	//
	c := BuildCFSM(Normalize(G0()))
	var buf bytes.Buffer
	if err := c.CFSM2GraphViz(&buf); err != nil {
		t.Fatal(err)
	}
	dot := buf.String()
	if !strings.HasPrefix(dot, "digraph {") {
		t.Errorf("expected a digraph, have %q", dot)
	}
	if !strings.Contains(dot, "s000 -> s001 [label=\"V\"]") {
		t.Errorf("expected an edge from state 0 to 1 labeled V")
	}
}

func TestItemOperations(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrzero.lr")
	defer teardown()
	//
	m := Normalize(G1())
	i := StartItem(m.Rule(1))
	if i.String() != "E → •E+T" {
		t.Errorf("expected E → •E+T, is %s", i)
	}
	j := i.Advance().Advance()
	if j.String() != "E → E+•T" || j.Read() != "E+" {
		t.Errorf("expected E → E+•T read by E+, is %s / %s", j, j.Read())
	}
	if A, ok := j.PeekSymbol(); !ok || A != N("T") {
		t.Errorf("expected T after the dot, have %v", A)
	}
	k := j.Advance()
	if !k.IsReduction() || !k.Advance().Equal(k) {
		t.Errorf("expected %s to be a reduction item", k)
	}
	if i.Equal(j) {
		t.Errorf("items with different dots must not be equal")
	}
}

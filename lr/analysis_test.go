package lr

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestAnalysisFollowG1(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrzero.lr")
	defer teardown()
	//
	ga := Analysis(Normalize(G1()))
	ga.Dump()
	expected := map[string]string{
		"E": "{+, ), $}",
		"T": "{+, *, ), $}",
		"F": "{+, *, ), $}",
	}
	for A, follow := range expected {
		if f := ga.NextOf(A).String(); f != follow {
			t.Errorf("expected FOLLOW(%s) = %s, is %s", A, follow, f)
		}
	}
	for _, A := range []string{"E", "T", "F"} {
		if f := ga.FirstOf(A).String(); f != "{i, (}" {
			t.Errorf("expected FIRST(%s) = {i, (}, is %s", A, f)
		}
	}
	if f := ga.FirstOf("+T").String(); f != "{+}" {
		t.Errorf("expected FIRST(+T) = {+}, is %s", f)
	}
}

func TestAnalysisStartFollowsEOF(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrzero.lr")
	defer teardown()
	//
	for _, g := range []*Grammar{G0(), G1(), SampleGrammar()} {
		m := Normalize(g)
		S, _ := m.StartSymbol()
		if !Analysis(m).Follow(S).Contains(EOF) {
			t.Errorf("grammar %s: expected FOLLOW(%s) to contain $", g.Name, S)
		}
	}
}

func TestAnalysisNotNullable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrzero.lr")
	defer teardown()
	//
	g := NewGrammar("left-recursive").Add("E", "E+T", "T").Add("T", "i")
	ga := Analysis(Normalize(g))
	if ga.IsNullable("E") {
		t.Errorf("expected E not to be nullable")
	}
	if !ga.IsNullable(Lambda) {
		t.Errorf("expected λ to be nullable")
	}
	if ga.IsNullable("i") {
		t.Errorf("expected terminal i not to be nullable")
	}
}

func TestAnalysisMutuallyNullable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrzero.lr")
	defer teardown()
	//
	g := NewGrammar("mutual").
		Add("A", "B", "a").
		Add("B", "A", "λ").
		Add("C", "ABc")
	ga := Analysis(Normalize(g))
	if !ga.IsNullable("A") || !ga.IsNullable("B") || !ga.IsNullable("AB") {
		t.Errorf("expected A and B to be nullable")
	}
	if ga.IsNullable("C") {
		t.Errorf("expected C not to be nullable")
	}
	if f := ga.FirstOf("C").Names(); strings.Join(f, " ") != "a c" {
		t.Errorf("expected FIRST(C) = {a, c}, is %v", f)
	}
	if f := ga.NextOf("B"); !f.Contains(T("c")) || !f.Contains(EOF) {
		t.Errorf("expected FOLLOW(B) to contain c and $, is %v", f)
	}
	for A, F := range ga.FirstSets() {
		if F.Contains(T(Lambda)) {
			t.Errorf("FIRST(%s) must not contain λ", A)
		}
	}
}

func TestAnalysisFollowSetsComplete(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrzero.lr")
	defer teardown()
	//
	m := Normalize(SampleGrammar())
	ga := Analysis(m)
	if len(ga.FollowSets()) != len(m.NonTerminals()) {
		t.Errorf("expected a FOLLOW set for every non-terminal")
	}
	if !ga.NextOf("D").Contains(EOF) {
		t.Errorf("expected FOLLOW(D) to contain $, is %v", ga.NextOf("D"))
	}
	if !ga.NextOf("L").Contains(T("=")) {
		t.Errorf("expected FOLLOW(L) to contain '=', is %v", ga.NextOf("L"))
	}
}

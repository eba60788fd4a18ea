package lr

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestGrammarFlatRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrzero.lr")
	defer teardown()
	//
	for _, g := range []*Grammar{G0(), G1(), SampleGrammar()} {
		flat := g.Flatten()
		h := FromFlat(g.Name, flat)
		if !g.Equal(h) {
			t.Errorf("grammar %s does not survive flat round trip", g.Name)
		}
	}
	flat := G1().Flatten()
	if len(flat) != 6 {
		t.Fatalf("expected G1 to have 6 productions, has %d", len(flat))
	}
	if flat[1].Symbol != "E" || flat[1].Prod != "E+T" {
		t.Errorf("expected production 1 to be E → E+T, is %v", flat[1])
	}
}

func TestGrammarFromInterleavedFlat(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrzero.lr")
	defer teardown()
	//
	flat := FlatGrammar{{"S", "aB"}, {"B", "b"}, {"S", "c"}}
	g := FromFlat("interleaved", flat)
	if nts := g.Nonterminals(); len(nts) != 2 || nts[0] != "S" || nts[1] != "B" {
		t.Errorf("expected non-terminals [S B], have %v", nts)
	}
	if prods := g.Productions("S"); len(prods) != 2 || prods[1] != "c" {
		t.Errorf("expected productions of S to be [aB c], are %v", prods)
	}
}

func TestNormalizeTerminalOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrzero.lr")
	defer teardown()
	//
	m := Normalize(G1())
	expected := []string{"+", "*", "i", "(", ")"}
	terms := m.Terminals()
	if len(terms) != len(expected) {
		t.Fatalf("expected terminals %v, have %v", expected, terms)
	}
	for i, A := range terms {
		if A.Name != expected[i] || A.Kind != Terminal {
			t.Errorf("expected terminal #%d to be %q, is %v", i, expected[i], A)
		}
	}
	if r := m.StartRule(); r == nil || r.String() != "S' → E" || r.Serial != -1 {
		t.Errorf("expected augmented start rule S' → E, have %v", r)
	}
	cols := m.Columns()
	if len(cols) != 9 || cols[5] != EOF || cols[6] != N("E") {
		t.Errorf("expected columns terminals, $, non-terminals; have %v", cols)
	}
}

func TestNormalizeSplitsMultiCharacterSymbols(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrzero.lr")
	defer teardown()
	//
	g := NewGrammar("multi").
		Add("Expr", "Expr+Term", "Term").
		Add("Term", "id")
	m := Normalize(g)
	rhs := m.Rule(0).RHS()
	if len(rhs) != 3 || rhs[0] != N("Expr") || rhs[1] != T("+") || rhs[2] != N("Term") {
		t.Errorf("expected Expr + Term, have %v", rhs)
	}
	if err := m.Validate(); err != nil {
		t.Errorf("expected grammar to be valid, have %v", err)
	}
}

func TestNormalizeNonterminalTails(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrzero.lr")
	defer teardown()
	//
	for _, g := range []*Grammar{
		NewGrammar("word").Add("S", "Expr;").Add("Expr", "x"),
		NewGrammar("digit").Add("S", "E1;").Add("E1", "x"),
	} {
		m := Normalize(g)
		if err := m.Validate(); err != nil {
			t.Errorf("%s: expected grammar to be valid, have %v", g.Name, err)
		}
		if terms := m.Terminals(); len(terms) != 2 || terms[0] != T(";") || terms[1] != T("x") {
			t.Errorf("%s: expected terminals ; and x, have %v", g.Name, terms)
		}
		A := m.NonTerminals()[1]
		if rhs := m.Rule(0).RHS(); len(rhs) != 2 || rhs[0] != A || rhs[1] != T(";") {
			t.Errorf("%s: expected %s ;, have %v", g.Name, A, rhs)
		}
	}
}

func TestNormalizeLambda(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrzero.lr")
	defer teardown()
	//
	g := NewGrammar("lambda").Add("S", "aS", "λ")
	m := Normalize(g)
	if m.Rule(1).Len() != 0 {
		t.Errorf("expected λ production to be empty, has %d symbols", m.Rule(1).Len())
	}
	if m.Rule(1).String() != "S → λ" {
		t.Errorf("expected S → λ, have %s", m.Rule(1))
	}
	if len(m.Terminals()) != 1 {
		t.Errorf("expected λ not to be a terminal, terminals are %v", m.Terminals())
	}
}

func TestValidateUndeclaredNonterminal(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrzero.lr")
	defer teardown()
	//
	ok := NewGrammar("ok").Add("S", "x")
	if err := Normalize(ok).Validate(); err != nil {
		t.Errorf("expected {S: x} to be valid, have %v", err)
	}
	bad := NewGrammar("bad").Add("S", "A")
	err := Normalize(bad).Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected a validation error, have %v", err)
	}
	if verr.Production != 0 || verr.Symbol != "A" || verr.Offset != 0 || verr.Kind != UndeclaredNonterminal {
		t.Errorf("unexpected validation error %#v", verr)
	}
}

func TestValidateOffset(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrzero.lr")
	defer teardown()
	//
	g := NewGrammar("offset").Add("S", "a", "xyQ")
	err := Normalize(g).Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected a validation error, have %v", err)
	}
	if verr.Production != 1 || verr.Symbol != "Q" || verr.Offset != 2 {
		t.Errorf("expected Q at offset 2 of production 1, have %v", verr)
	}
}

func TestValidateExplicitTerminals(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrzero.lr")
	defer teardown()
	//
	g := NewGrammar("explicit").Add("E", "E+i", "i")
	m := Normalize(g, WithTerminals("i", "+"))
	if err := m.Validate(); err != nil {
		t.Errorf("expected grammar to be valid, have %v", err)
	}
	if rhs := m.Rule(0).RHS(); len(rhs) != 3 || rhs[1] != T("+") || rhs[2] != T("i") {
		t.Errorf("expected E + i, have %v", rhs)
	}
	m = Normalize(g, WithTerminals("+"))
	err := m.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected a validation error, have %v", err)
	}
	if verr.Kind != UnrecognizedTerminal || verr.Symbol != "i" || verr.Offset != 2 {
		t.Errorf("expected unrecognized terminal i at offset 2, have %v", verr)
	}
}

func TestValidateEmptyAndInvalidLHS(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrzero.lr")
	defer teardown()
	//
	var verr *ValidationError
	err := Normalize(NewGrammar("empty")).Validate()
	if !errors.As(err, &verr) || verr.Kind != EmptyGrammar {
		t.Errorf("expected empty grammar error, have %v", err)
	}
	err = Normalize(NewGrammar("lower").Add("s", "x")).Validate()
	if !errors.As(err, &verr) || verr.Kind != InvalidLHS {
		t.Errorf("expected invalid LHS error, have %v", err)
	}
}

func TestSampleGrammarIsValid(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrzero.lr")
	defer teardown()
	//
	m := Normalize(SampleGrammar())
	if err := m.Validate(); err != nil {
		t.Errorf("expected sample grammar to be valid, have %v", err)
	}
	if _, _, found := m.Terminal("id"); !found {
		t.Errorf("expected 'id' to be a terminal")
	}
}

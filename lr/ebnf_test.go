package lr

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestEBNFExport(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrzero.lr")
	defer teardown()
	//
	src := EBNF(Normalize(G1()))
	expected := `E = T | E "+" T .
T = F | T "*" F .
F = "i" | "(" E ")" .
`
	if src != expected {
		t.Errorf("expected EBNF\n%s\nhave\n%s", expected, src)
	}
	g := NewGrammar("lambda").Add("S", "aS", "λ").Add("Z", "λ")
	src = EBNF(Normalize(g))
	if !strings.Contains(src, `S = [ "a" S ] .`) || !strings.Contains(src, "Z = .") {
		t.Errorf("unexpected EBNF for λ-productions:\n%s", src)
	}
}

func TestLint(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrzero.lr")
	defer teardown()
	//
	if err := Lint(Normalize(G1())); err != nil {
		t.Errorf("expected G1 to lint clean, have %v", err)
	}
	g := NewGrammar("dirty").Add("S", "a").Add("U", "b").Add("L", "xL")
	err := Lint(Normalize(g))
	var lerr *LintError
	if !errors.As(err, &lerr) {
		t.Fatalf("expected a lint error, have %v", err)
	}
	if len(lerr.Findings) != 3 {
		t.Errorf("expected 3 findings, have %v", lerr.Findings)
	}
	if !strings.Contains(lerr.Findings[0], "U is unreachable") {
		t.Errorf("expected U to be unreachable, findings are %v", lerr.Findings)
	}
	if !strings.Contains(lerr.Findings[2], "L derives no terminal string") {
		t.Errorf("expected L to be unproductive, findings are %v", lerr.Findings)
	}
}

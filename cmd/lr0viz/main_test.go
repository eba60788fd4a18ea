package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/lrzero/lr"
	"github.com/npillmayer/lrzero/lr/lr0"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestParseProductions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrzero.cli")
	defer teardown()
	//
	lhs, prods, err := parseProductions("E -> E + T | T |")
	if err != nil {
		t.Fatal(err)
	}
	if lhs != "E" || strings.Join(prods, ",") != "E + T,T,λ" {
		t.Errorf("unexpected productions %s → %v", lhs, prods)
	}
	_, prods, _ = parseProductions("S -> if C then S | x ")
	if len(prods) != 2 || prods[0] != "if C then S" || prods[1] != "x" {
		t.Errorf("expected inner spaces to be kept, have %q", prods)
	}
	if _, _, err = parseProductions("E = T"); err == nil {
		t.Errorf("expected missing arrow to be an error")
	}
	if _, _, err = parseProductions(" -> T"); err == nil {
		t.Errorf("expected missing non-terminal to be an error")
	}
}

func TestTableData(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrzero.cli")
	defer teardown()
	//
	lrgen, err := buildTable(lr.G1(), settings{})
	if err != nil {
		t.Fatal(err)
	}
	data := tableData(lrgen.Table())
	if len(data) != 13 {
		t.Fatalf("expected header and 12 states, have %d rows", len(data))
	}
	if h := strings.Join(data[0], " "); h != " + * i ( ) $ E T F" {
		t.Errorf("unexpected header %q", h)
	}
	if r := strings.Join(data[1], "|"); r != "0|||S4|S5|||1|2|3" {
		t.Errorf("unexpected row for state 0: %q", r)
	}
	amb := lr.NewGrammar("ambiguous").Add("E", "E+E", "i")
	lrgen, err = buildTable(amb, settings{})
	if lrgen == nil || err == nil {
		t.Fatalf("expected table with conflicts, have %v", err)
	}
	marked := 0
	for _, row := range tableData(lrgen.Table()) {
		for _, c := range row {
			if strings.HasSuffix(c, "!") {
				marked++
			}
		}
	}
	if marked != len(lrgen.Table().Conflicts()) {
		t.Errorf("expected %d marked cells, have %d", len(lrgen.Table().Conflicts()), marked)
	}
}

func TestShowTableWithoutTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrzero.cli")
	defer teardown()
	//
	m := lr.Normalize(lr.G1())
	lrgen := lr.NewTableGenerator(lr.Analysis(m)) // no table created
	failure := errors.New("table construction failed")
	if err := showTable(lrgen, failure); err != failure {
		t.Errorf("expected construction error to be returned, have %v", err)
	}
	var buf bytes.Buffer
	if err := lr.TableAsHTML(mustGenerator(t, lr.G1()).Table(), &buf); err != nil {
		t.Fatal(err)
	}
}

func mustGenerator(t *testing.T, g *lr.Grammar) *lr.TableGenerator {
	lrgen, err := buildTable(g, settings{})
	if err != nil {
		t.Fatal(err)
	}
	return lrgen
}

func TestExport(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrzero.cli")
	defer teardown()
	//
	var buf bytes.Buffer
	if err := export(&buf, lr.G1(), settings{}, "EBNF"); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), `E = T | E "+" T .`) {
		t.Errorf("unexpected EBNF export:\n%s", buf.String())
	}
	buf.Reset()
	if err := export(&buf, lr.G1(), settings{}, "dot"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "digraph") {
		t.Errorf("expected a GraphViz digraph:\n%s", buf.String())
	}
	buf.Reset()
	if err := export(&buf, lr.G1(), settings{}, "toml"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "G1") {
		t.Errorf("expected grammar name in TOML export:\n%s", buf.String())
	}
	if err := export(&buf, lr.G1(), settings{}, "pdf"); err == nil {
		t.Errorf("expected unknown format to be rejected")
	}
}

func TestIntpEditAndParse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrzero.cli")
	defer teardown()
	//
	intp := newIntp(lr.NewGrammar("edit"), settings{})
	for _, line := range []string{":add E -> T | E+T", ":add T -> F | T*F", ":add F -> i | (E)"} {
		if err := intp.Eval(line); err != nil {
			t.Fatalf("%s: %v", line, err)
		}
	}
	if err := intp.Eval("i+i*i"); err != nil {
		t.Fatal(err)
	}
	e := intp.wb.Current()
	if e == nil || !e.Grammar().Equal(lr.G1()) {
		t.Fatalf("expected the edited grammar to be built")
	}
	if tr := e.Parse("(i)"); !tr.Accepted {
		t.Errorf("expected (i) to be accepted")
	}
	if err := intp.Eval(":frobnicate"); err == nil {
		t.Errorf("expected unknown command to fail")
	}
	empty := newIntp(lr.NewGrammar("empty"), settings{})
	if err := empty.Eval(":table"); err != lr0.ErrNoEngine {
		t.Errorf("expected ErrNoEngine, have %v", err)
	}
}

package lr

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/exp/ebnf"
)

// EBNF renders a normalized grammar in the EBNF notation of package
// golang.org/x/exp/ebnf. Terminals are quoted, productions with a λ
// alternative are written as options:
//
//     E = T | E "+" T .
//     W = [ "bb" W | "c" ] .
//
// Non-terminal names which are not valid EBNF production names are replaced
// by synthetic ones.
func EBNF(m *Model) string {
	var b strings.Builder
	for k, A := range m.nonterminals {
		var alts []string
		hasLambda := false
		for _, r := range m.byLHS[A.Name] {
			if len(r.rhs) == 0 {
				hasLambda = true
				continue
			}
			seq := make([]string, len(r.rhs))
			for i, B := range r.rhs {
				if B.Kind == NonTerminal {
					seq[i] = m.ebnfName(B)
				} else {
					seq[i] = strconv.Quote(B.Name)
				}
			}
			alts = append(alts, strings.Join(seq, " "))
		}
		expr := strings.Join(alts, " | ")
		if hasLambda && expr != "" {
			expr = "[ " + expr + " ]"
		}
		if k > 0 {
			b.WriteString("\n")
		}
		if expr == "" {
			b.WriteString(fmt.Sprintf("%s = .", m.ebnfName(A)))
		} else {
			b.WriteString(fmt.Sprintf("%s = %s .", m.ebnfName(A), expr))
		}
	}
	b.WriteString("\n")
	return b.String()
}

var ebnfIdent = regexp.MustCompile(`^[A-Z][A-Za-z0-9_]*$`)

func (m *Model) ebnfName(A Symbol) string {
	if ebnfIdent.MatchString(A.Name) {
		return A.Name
	}
	for k, B := range m.nonterminals {
		if B == A {
			return "Nonterminal" + strconv.Itoa(k)
		}
	}
	return "Undeclared" + strconv.Itoa(len(A.Name))
}

// LintError collects findings of Lint.
type LintError struct {
	Grammar  string
	Findings []string
}

func (e *LintError) Error() string {
	return fmt.Sprintf("grammar %q: %s", e.Grammar, strings.Join(e.Findings, "; "))
}

// Lint checks a grammar for problems which do not prevent table
// construction, but usually are mistakes: non-terminals not reachable from
// the start symbol, and non-terminals which cannot derive any terminal
// string. A grammar failing validation is reported by its validation error.
func Lint(m *Model) error {
	if err := m.Validate(); err != nil {
		return err
	}
	var findings []string
	src := EBNF(m)
	grammar, err := ebnf.Parse(m.Name, strings.NewReader(src))
	if err != nil {
		return fmt.Errorf("cannot read EBNF for grammar %q: %w", m.Name, err)
	}
	S, _ := m.StartSymbol()
	reached := make(map[string]bool)
	walkEBNF(grammar, grammar[m.ebnfName(S)], reached)
	for _, A := range m.nonterminals {
		if !reached[m.ebnfName(A)] {
			findings = append(findings, fmt.Sprintf("%s is unreachable from %s", A, S))
		}
	}
	if err = ebnf.Verify(grammar, m.ebnfName(S)); err != nil && len(findings) == 0 {
		findings = append(findings, err.Error())
	}
	for _, A := range m.unproductive() {
		findings = append(findings, fmt.Sprintf("%s derives no terminal string", A))
	}
	if len(findings) > 0 {
		tracer().Infof("lint for grammar %q: %d findings", m.Name, len(findings))
		return &LintError{Grammar: m.Name, Findings: findings}
	}
	return nil
}

// walkEBNF marks all productions reachable from x.
func walkEBNF(g ebnf.Grammar, x ebnf.Expression, reached map[string]bool) {
	switch x := x.(type) {
	case *ebnf.Production:
		if x == nil || reached[x.Name.String] {
			return
		}
		reached[x.Name.String] = true
		walkEBNF(g, x.Expr, reached)
	case ebnf.Alternative:
		for _, y := range x {
			walkEBNF(g, y, reached)
		}
	case ebnf.Sequence:
		for _, y := range x {
			walkEBNF(g, y, reached)
		}
	case *ebnf.Name:
		walkEBNF(g, g[x.String], reached)
	case *ebnf.Option:
		walkEBNF(g, x.Body, reached)
	case *ebnf.Group:
		walkEBNF(g, x.Body, reached)
	case *ebnf.Repetition:
		walkEBNF(g, x.Body, reached)
	}
}

// unproductive returns the non-terminals which do not derive any string of
// terminals, computed as the complement of a fixed point.
func (m *Model) unproductive() []Symbol {
	productive := make(map[string]bool)
	changed := true
	for changed {
		changed = false
		for _, r := range m.rules {
			if productive[r.LHS.Name] {
				continue
			}
			all := true
			for _, A := range r.rhs {
				if A.Kind == NonTerminal && !productive[A.Name] {
					all = false
					break
				}
			}
			if all {
				productive[r.LHS.Name] = true
				changed = true
			}
		}
	}
	var result []Symbol
	for _, A := range m.nonterminals {
		if !productive[A.Name] {
			result = append(result, A)
		}
	}
	return result
}

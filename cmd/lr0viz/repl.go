package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/lrzero/grammarfile"
	"github.com/npillmayer/lrzero/lr"
	"github.com/npillmayer/lrzero/lr/lr0"
	"github.com/pterm/pterm"
)

const replHelp = `Enter an input to parse it with the current grammar, or one of
  :add A -> p1 | p2    add productions for non-terminal A
  :new name            start a new, empty grammar
  :load name           load a grammar from the store directory
  :grammar             print the grammar being edited (EBNF)
  :table               print the parsing table of the current engine
  :tokens input        print the tokens of an input
  :lint                check the grammar being edited
  :help                print this text
Quit with <ctrl>D`

// Intp is our interpreter object. It edits a grammar and has a workbench
// rebuild an engine for it in the background.
type Intp struct {
	grammar *lr.Grammar // grammar being edited
	wb      *lr0.Workbench
	repl    *readline.Instance
	s       settings
}

func execReplCommand(g *lr.Grammar, s settings) error {
	repl, err := readline.New("lr0> ")
	if err != nil {
		printError("REPL Error", err)
		return err
	}
	defer repl.Close()
	intp := newIntp(g, s)
	intp.repl = repl
	if _, err = intp.wb.Rebuild(intp.grammar); err != nil {
		printWarning("Grammar", "edit the grammar to get a working parser")
	}
	pterm.Info.Println("Welcome to lr0viz, :help lists commands")
	intp.REPL()
	return nil
}

func newIntp(g *lr.Grammar, s settings) *Intp {
	intp := &Intp{
		grammar: g.Copy(),
		wb:      lr0.NewWorkbench(s.engineOptions()...),
		s:       s,
	}
	intp.wb.OnInstall = func(e *lr0.Engine) {
		tracer().Infof("grammar %q rebuilt, %d states", e.Grammar().Name, e.CFSM().Size())
	}
	intp.wb.OnError = func(err error) {
		printError("Grammar Error", err)
	}
	return intp
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		if err = intp.Eval(line); err != nil {
			tracer().Debugf("%v", err)
		}
	}
	println("Good bye!")
}

// Eval executes a command or parses an input, given on a line by itself.
func (intp *Intp) Eval(line string) error {
	if !strings.HasPrefix(line, ":") {
		intp.wb.Flush()
		trace, err := intp.wb.Parse(line)
		if err != nil {
			printError("Parse Error", err)
			return err
		}
		printTrace(trace)
		return nil
	}
	cmd, arg := line, ""
	if i := strings.IndexAny(line, " \t"); i > 0 {
		cmd, arg = line[:i], strings.TrimSpace(line[i:])
	}
	switch cmd {
	case ":add":
		lhs, prods, err := parseProductions(arg)
		if err != nil {
			printError("Syntax Error", err)
			return err
		}
		intp.grammar.Add(lhs, prods...)
		intp.wb.Schedule(intp.grammar)
	case ":new":
		if arg == "" {
			arg = "G"
		}
		intp.grammar = lr.NewGrammar(arg)
	case ":load":
		if intp.s.store == "" {
			err := errors.New("no store directory given, use --store")
			printError("Load Error", err)
			return err
		}
		g, err := grammarfile.Dir(intp.s.store).Load(arg)
		if err != nil {
			printError("Load Error", err)
			return err
		}
		intp.grammar = g
		intp.wb.Schedule(intp.grammar)
	case ":grammar":
		m := lr.Normalize(intp.grammar, intp.s.modelOptions()...)
		pterm.Println(lr.EBNF(m))
	case ":table":
		intp.wb.Flush()
		e := intp.wb.Current()
		if e == nil {
			printError("Table Error", lr0.ErrNoEngine)
			return lr0.ErrNoEngine
		}
		printTable(e.Table())
	case ":tokens":
		intp.wb.Flush()
		e := intp.wb.Current()
		if e == nil {
			printError("Token Error", lr0.ErrNoEngine)
			return lr0.ErrNoEngine
		}
		pterm.Println(strings.Join(e.Tokens(arg), " "))
	case ":lint":
		return execLintCommand(intp.grammar, intp.s)
	case ":help":
		pterm.Println(replHelp)
	default:
		err := fmt.Errorf("unknown command %s", cmd)
		printError("Syntax Error", err)
		return err
	}
	return nil
}

// parseProductions splits "A -> p1 | p2" into A and its productions. Spaces
// around an alternative are dropped, spaces within are part of terminals.
// Empty alternatives denote λ.
func parseProductions(s string) (string, []string, error) {
	parts := strings.SplitN(s, "->", 2)
	if len(parts) != 2 {
		return "", nil, fmt.Errorf("expected 'A -> production', have %q", s)
	}
	lhs := strings.TrimSpace(parts[0])
	if lhs == "" {
		return "", nil, errors.New("missing non-terminal before '->'")
	}
	var prods []string
	for _, p := range strings.Split(parts[1], "|") {
		p = strings.TrimSpace(p)
		if p == "" {
			p = "λ"
		}
		prods = append(prods, p)
	}
	return lhs, prods, nil
}

package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strings"

	"github.com/ComedicChimera/olive"
	"github.com/npillmayer/lrzero/grammarfile"
	"github.com/npillmayer/lrzero/lr"
	"github.com/npillmayer/lrzero/lr/lr0"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
)

// settings are the global command line arguments.
type settings struct {
	grammar   string
	terminals []string
	policy    lr.ConflictPolicy
	store     string
	out       string
}

func (s settings) modelOptions() []lr.Option {
	opts := []lr.Option{lr.WithConflictPolicy(s.policy)}
	if len(s.terminals) > 0 {
		opts = append(opts, lr.WithTerminals(s.terminals...))
	}
	return opts
}

func (s settings) engineOptions() []lr0.Option {
	opts := []lr0.Option{lr0.Conflicts(s.policy)}
	if len(s.terminals) > 0 {
		opts = append(opts, lr0.Terminals(s.terminals...))
	}
	if s.store != "" {
		opts = append(opts, lr0.PersistTo(grammarfile.Dir(s.store)))
	}
	return opts
}

func main() {
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	//
	cli := olive.NewCLI("lr0viz", "lr0viz explores LR(0) grammars, parsing tables and parses", true)
	logLvlArg := cli.AddSelectorArg("loglevel", "ll", "the trace level", false, []string{"Debug", "Info", "Error"})
	logLvlArg.SetDefaultValue("Error")
	cli.AddStringArg("grammar", "g", "a grammar file (.toml or .json)", false)
	cli.AddStringArg("terminals", "t", "space separated list of terminals", false)
	cli.AddStringArg("store", "s", "directory to save successfully built grammars to", false)
	cli.AddFlag("prefer-shift", "ps", "resolve table conflicts in favour of shift actions")

	cli.AddSubcommand("table", "print the parsing table of the grammar", false)
	parseCmd := cli.AddSubcommand("parse", "parse an input and print the trace", true)
	parseCmd.AddPrimaryArg("input", "the input to parse", true)
	exportCmd := cli.AddSubcommand("export", "export the grammar or its tables", true)
	exportCmd.AddPrimaryArg("format", "one of html, dot, ebnf, toml, json", true)
	exportCmd.AddStringArg("out", "o", "output file (default is stdout)", false)
	cli.AddSubcommand("lint", "check the grammar for unreachable and unproductive non-terminals", false)
	cli.AddSubcommand("repl", "edit a grammar and parse inputs interactively", false)

	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		printError("CLI Usage Error", err)
		os.Exit(1)
	}
	setTraceLevel(result.Arguments["loglevel"].(string))
	s := settings{}
	if v, ok := result.Arguments["grammar"]; ok {
		s.grammar = v.(string)
	}
	if v, ok := result.Arguments["terminals"]; ok {
		s.terminals = strings.Fields(v.(string))
	}
	if v, ok := result.Arguments["store"]; ok {
		s.store = v.(string)
	}
	if result.HasFlag("prefer-shift") {
		s.policy = lr.PreferShift
	}
	g, err := loadGrammar(s.grammar)
	if err != nil {
		printError("Grammar Error", err)
		os.Exit(2)
	}
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "table":
		err = execTableCommand(g, s)
	case "parse":
		input, _ := subResult.PrimaryArg()
		err = execParseCommand(g, s, input)
	case "export":
		format, _ := subResult.PrimaryArg()
		if v, ok := subResult.Arguments["out"]; ok {
			s.out = v.(string)
		}
		err = execExportCommand(g, s, format)
	case "lint":
		err = execLintCommand(g, s)
	case "repl":
		err = execReplCommand(g, s)
	default:
		err = execTableCommand(g, s)
	}
	if err != nil {
		os.Exit(3)
	}
}

func setTraceLevel(l string) {
	level := tracing.TraceLevelFromString(l)
	for _, key := range []string{"lrzero.cli", "lrzero.lr", "lrzero.scanner"} {
		tracing.Select(key).SetTraceLevel(level)
	}
	tracer().Infof("Trace level is %s", l)
}

func loadGrammar(path string) (*lr.Grammar, error) {
	if path == "" {
		return lr.SampleGrammar(), nil
	}
	return grammarfile.Load(path)
}

// buildTable runs table construction without an engine, so that tables with
// conflicts may be displayed.
func buildTable(g *lr.Grammar, s settings) (*lr.TableGenerator, error) {
	m := lr.Normalize(g, s.modelOptions()...)
	if err := m.Validate(); err != nil {
		return nil, err
	}
	lrgen := lr.NewTableGenerator(lr.Analysis(m), s.modelOptions()...)
	return lrgen, lrgen.CreateTables()
}

func execTableCommand(g *lr.Grammar, s settings) error {
	lrgen, err := buildTable(g, s)
	if lrgen == nil {
		printError("Grammar Error", err)
		return err
	}
	return showTable(lrgen, err)
}

// showTable prints the outcome of table construction. Tables with conflicts
// are printed, a failed construction leaves no table to print.
func showTable(lrgen *lr.TableGenerator, err error) error {
	if table := lrgen.Table(); table != nil {
		printTable(table)
	}
	var cerr *lr.ConflictError
	if errors.As(err, &cerr) {
		printConflicts(cerr.Conflicts)
		return err
	} else if err != nil {
		printError("Table Error", err)
		return err
	}
	printInfo("Fingerprint", lrgen.Table().Fingerprint())
	return nil
}

func execParseCommand(g *lr.Grammar, s settings, input string) error {
	engine, err := lr0.NewEngine(g, s.engineOptions()...)
	if err != nil {
		printError("Grammar Error", err)
		return err
	}
	trace := engine.Parse(input)
	printTrace(trace)
	if !trace.Accepted {
		return fmt.Errorf("input %q not accepted", input)
	}
	return nil
}

func execLintCommand(g *lr.Grammar, s settings) error {
	m := lr.Normalize(g, s.modelOptions()...)
	err := lr.Lint(m)
	var lerr *lr.LintError
	if errors.As(err, &lerr) {
		for _, f := range lerr.Findings {
			printWarning("Lint", f)
		}
		return err
	} else if err != nil {
		printError("Grammar Error", err)
		return err
	}
	printInfo("Lint", fmt.Sprintf("grammar %q looks fine", g.Name))
	return nil
}

func execExportCommand(g *lr.Grammar, s settings, format string) error {
	var buf bytes.Buffer
	err := export(&buf, g, s, format)
	if err != nil {
		printError("Export Error", err)
		return err
	}
	if s.out == "" {
		_, err = io.Copy(os.Stdout, &buf)
		return err
	}
	if err = ioutil.WriteFile(s.out, buf.Bytes(), 0644); err != nil {
		printError("Export Error", err)
		return err
	}
	tracer().Infof("exported %s to %s", format, s.out)
	return nil
}

func export(w io.Writer, g *lr.Grammar, s settings, format string) error {
	format = strings.ToLower(format)
	switch format {
	case "toml":
		return grammarfile.Encode(w, grammarfile.TOML, g.Name, g.Flatten())
	case "json":
		return grammarfile.Encode(w, grammarfile.JSON, g.Name, g.Flatten())
	case "ebnf":
		m := lr.Normalize(g, s.modelOptions()...)
		if err := m.Validate(); err != nil {
			return err
		}
		_, err := io.WriteString(w, lr.EBNF(m))
		return err
	case "html", "dot":
		lrgen, err := buildTable(g, s)
		if lrgen == nil {
			return err
		}
		var cerr *lr.ConflictError
		if err != nil && !errors.As(err, &cerr) {
			return err
		}
		if format == "dot" {
			return lrgen.CFSM().CFSM2GraphViz(w)
		}
		if lrgen.Table() == nil {
			return errors.New("no parsing table has been built")
		}
		return lr.TableAsHTML(lrgen.Table(), w)
	}
	return fmt.Errorf("unknown export format %q", format)
}

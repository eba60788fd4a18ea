package main

import (
	"errors"
	"strconv"

	"github.com/npillmayer/lrzero/lr"
	"github.com/npillmayer/lrzero/lr/lr0"
	"github.com/pterm/pterm"
)

var (
	infoStyle  = pterm.NewStyle(pterm.BgCyan, pterm.FgBlack)
	warnStyle  = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	errorStyle = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
)

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: infoStyle,
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: errorStyle,
	}
}

func printError(tag string, err error) {
	errorStyle.Print(tag)
	pterm.FgRed.Println(" " + err.Error())
	var verr *lr.ValidationError
	if errors.As(err, &verr) {
		tracer().Debugf("validation failed at production %d, symbol %q", verr.Production, verr.Symbol)
	}
}

func printWarning(tag, msg string) {
	warnStyle.Print(tag)
	pterm.FgYellow.Println(" " + msg)
}

func printInfo(tag, msg string) {
	infoStyle.Print(tag)
	pterm.FgLightGreen.Println(" " + msg)
}

// tableData renders a parsing table with a header row of column symbols and
// one row per state.
func tableData(t *lr.Table) pterm.TableData {
	header := []string{""}
	for _, A := range t.Columns() {
		header = append(header, A.Name)
	}
	data := pterm.TableData{header}
	for i := 0; i < t.Rows(); i++ {
		row := []string{strconv.Itoa(i)}
		for _, c := range t.Row(i) {
			row = append(row, c.String())
		}
		data = append(data, row)
	}
	for _, c := range t.Conflicts() {
		col := 0
		for j, A := range t.Columns() {
			if A == c.Column {
				col = j + 1
			}
		}
		if col > 0 {
			data[c.State+1][col] += "!"
		}
	}
	return data
}

func printTable(t *lr.Table) {
	pterm.DefaultSection.Println("Parsing table for " + t.Grammar().Name)
	pterm.DefaultTable.WithHasHeader().WithData(tableData(t)).Render()
}

func printConflicts(conflicts []lr.Conflict) {
	for _, c := range conflicts {
		printWarning("Conflict", c.String())
	}
}

// traceData renders a trace with one row per step.
func traceData(tr *lr0.Trace) pterm.TableData {
	data := pterm.TableData{{"#", "Stack", "Input", "Action"}}
	for i, s := range tr.Steps {
		data = append(data, []string{strconv.Itoa(i + 1), s.Stack, s.Input, s.Action})
	}
	return data
}

func printTrace(tr *lr0.Trace) {
	pterm.DefaultTable.WithHasHeader().WithData(traceData(tr)).Render()
	if tr.Accepted {
		printInfo("Accepted", strconv.Itoa(tr.Len())+" steps")
	} else {
		last := tr.Last()
		printWarning("Rejected", "no action for input '"+last.Input+"' in configuration "+last.Stack)
	}
}

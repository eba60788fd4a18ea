/*
Command lr0viz is a command line workbench for LR(0) grammars. It renders
parsing tables, parses input and prints the trace of every parse step,
exports grammars and tables, and offers an interactive mode for editing a
grammar and trying inputs against it.

	lr0viz [--grammar g.toml] [--prefer-shift] table
	lr0viz parse "id=12*(a+3)"
	lr0viz --grammar g.toml export html --out table.html
	lr0viz lint
	lr0viz repl

Without a grammar file, the built-in assignment grammar is used.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrzero.cli'
func tracer() tracing.Trace {
	return tracing.Select("lrzero.cli")
}

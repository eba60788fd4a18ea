/*
Package lr0 provides an LR(0) shift-reduce parser which records every
configuration it passes through. Clients have to use the tools of package lr
to prepare the parsing table, or use an Engine, which runs all construction
steps once and then serves any number of parse requests.

The main focus of this implementation is studying the mechanics of bottom-up
parsing: the result of a parse is not a parse tree, but a trace of steps,
each consisting of the parse stack, the remaining input and the action taken.

Usage

	g := lr.NewGrammar("G1")
	g.Add("E", "T", "E+T")
	g.Add("T", "F", "T*F")
	g.Add("F", "i", "(E)")
	engine, err := lr0.NewEngine(g)
	if err != nil { ... }   // *lr.ValidationError or *lr.ConflictError
	trace := engine.Parse("i+i*i")

The trace for this input starts like this:

	$ 0            i+i*i$    S4
	$ 0 i 4        +i*i$     R4
	$ 0 F 3        +i*i$     R2
	...
	$ 0 E 1        $         acc

If the input is not in the language of the grammar, the last step of the
trace has action "err". Parse errors are never reported as Go errors.

Engines are immutable. For interactive editing of grammars, a Workbench holds
the current engine, replaces it only after a successful rebuild and
debounces rapid successive edits.
___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lr0

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrzero.lr'.
func tracer() tracing.Trace {
	return tracing.Select("lrzero.lr")
}

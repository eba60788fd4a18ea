/*
Package lrzero is an LR(0) table construction and parsing workbench.

It takes a small context-free grammar, written in the compact notation used
in compiler textbooks (single uppercase letters for non-terminals, everything
else is terminal text, λ for the empty string), and derives everything needed
to watch a shift-reduce parser at work. Package structure is as follows:

■ lr: Package lr implements the grammar model, FIRST/FOLLOW analysis, the
characteristic finite state machine (canonical LR(0) collection) and the
parsing table.

■ lr/lr0: Package lr0 implements the table-driven stack machine, which produces
a trace of parser configurations, and an engine wrapping all construction steps.

■ lr/scanner: Package scanner splits input into the terminals of a grammar.

■ grammarfile: Package grammarfile stores and loads grammars.

■ cmd/lr0viz: A command line tool to print tables and parse traces.

The base package contains data types which are used throughout all the other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lrzero

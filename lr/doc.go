/*
Package lr implements prerequisites for LR(0) parsing.
It is mainly intended for studying shift-reduce parsing on small grammars,
e.g. textbook expression grammars, but may be of use for other purposes, too.

Building a Grammar

Grammars are written in a compact notation: every non-terminal is a key
containing an uppercase letter (usually a single letter), productions are
strings where non-terminals and terminals are interleaved. Every maximal run
of characters without an uppercase letter is a terminal; λ denotes the empty
string.

Example:

    g := lr.NewGrammar("G1")
    g.Add("E", "T", "E+T")     // E  ->  T | E+T
    g.Add("T", "F", "T*F")     // T  ->  F | T*F
    g.Add("F", "i", "(E)")     // F  ->  i | (E)

Grammars may as well be supplied in a flat form, as a list of
(symbol, production) pairs, see FlatGrammar. The position of a production in
the flat list is its production index, referenced by reduce actions.

The grammar is then normalized, which infers the terminals and augments the
grammar with a synthetic start rule S' → E:

    m := lr.Normalize(g)
    if err := m.Validate(); err != nil { ... }
    m.Dump()

    -1: [S'] ::= [E]
     0: [E] ::= [T]
     1: [E] ::= [E + T]
     2: [T] ::= [F]
     3: [T] ::= [T * F]
     4: [F] ::= [i]
     5: [F] ::= [( E )]

Static Grammar Analysis

After the grammar is complete, it has to be analysed. For this end, the
grammar is subjected to an LRAnalysis object, which computes FIRST and
FOLLOW sets for the grammar and determines all nullable non-terminals.
All sets are computed as fixed points over all non-terminals simultaneously.

    ga := lr.Analysis(m)
    for _, N := range m.NonTerminals() {
        fmt.Printf("FOLLOW(%s) = %v\n", N, ga.Follow(N))
    }

    // Output:
    FOLLOW(E) = {+, ), $}
    FOLLOW(T) = {+, *, ), $}
    FOLLOW(F) = {+, *, ), $}

Parser Construction

Using grammar analysis as input, a bottom-up parser can be constructed.
First a characteristic finite state machine (CFSM) is built from the
grammar, i.e. the canonical collection of LR(0) item sets. The CFSM will then
be transformed into a parsing table, holding shift, goto, reduce and accept
entries. Reduce entries are placed for every terminal in FOLLOW of the
rule's left hand side. The CFSM will not be thrown away,
but is made available to the client.  This is intended
for debugging and visualization purposes.
It can be exported to Graphviz's Dot-format.

Example:

    lrgen := lr.NewTableGenerator(ga)     // ga is a LRAnalysis, see above
    if err := lrgen.CreateTables(); err != nil { ... }
    table := lrgen.Table()

Table conflicts are reported as a *ConflictError, unless the generator has been
configured to resolve them in favour of shift actions.
___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lr

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrzero.lr'.
func tracer() tracing.Trace {
	return tracing.Select("lrzero.lr")
}

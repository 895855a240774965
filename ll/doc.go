/*
Package ll implements grammars, grammar analysis and LL(1) parsing tables.

Building a Grammar

Grammars are an arena of interned symbols, addressed by index. Clients usually do
not build them by hand, but let package tags expand an authored grammar. For tests
and small experiments there is a grammar builder:

    b := ll.NewGrammarBuilder("G")
    b.LHS("S*").T("a").N("A").End()     // S* ->  a A
    b.LHS("S*").T("b").N("B").End()     // S* ->  b B
    b.LHS("A").T("x").End()             // A  ->  x
    b.LHS("B").Epsilon()                // B  ->
    g, err := b.Grammar()

The start symbol is always called "S*". Terminals and non-terminals live in separate
name spaces: a terminal "A" and a non-terminal "A" are different symbols.

Prefix Factoring

Grammars produced from tags frequently have alternatives sharing a common prefix.
Factor transforms a grammar in place until no non-terminal has two alternatives
starting with the same terminal, introducing synthetic non-terminals on the way.
If this is impossible (e.g., for left-recursive rules), a GrammarConflictError
is returned.

Static Grammar Analysis

Analysis computes FIRST and FOLLOW sets for a grammar. Epsilon is represented by
symbol ID 0, the end-of-input marker by symbol ID 1.

    ga := ll.Analysis(g)
    g.EachNonterminal(func(N *ll.Symbol) {
        fmt.Printf("FIRST(%s) = %v\n", N, ga.First(N))
    })

Table Construction

BuildTable creates an LL(1) parsing table from an analysis. Every cell (N, a) holds at
most one rule; a second claim on a cell is a GrammarConflictError. Tables are immutable
and may be shared between goroutines.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package ll

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'tagll.ll'.
func tracer() tracing.Trace {
	return tracing.Select("tagll.ll")
}

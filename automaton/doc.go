/*
Package automaton implements the stack machine which constrains token generation.

An Automaton walks an LL(1) table while a model generates tokens. Before every
step, ValidTokenIDs tells which token IDs may come next; after the model has
chosen one, Accept advances the stack:

    A := automaton.New(table, tokens, eos)
    for !A.IsAccepting() {
        valid, err := A.ValidTokenIDs()
        …                          // mask scores, sample token id
        if err := A.Accept(id); err != nil {
            …                      // sequence is broken
        }
    }

Automata are cheap. Every generated sequence needs its own one, as automata are
not safe for concurrent use. Tables and token maps may be shared freely.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package automaton

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'tagll.automaton'.
func tracer() tracing.Trace {
	return tracing.Select("tagll.automaton")
}

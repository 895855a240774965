/*
Package guide compiles tag grammars into guides for constrained generation.

Compile runs the complete pipeline: an authored grammar is expanded into a
context-free grammar, factored to LL(1), analyzed, turned into a parsing table,
and finally its terminals are bound to the token IDs of a tokenizer vocabulary.

    authored := tags.NewAuthored().
        Rule("S*", "<<a>> A", "<<b>> B").
        Rule("A", "<<x>>").
        Rule("B", "<<y>>")
    compiled, err := guide.Compile(authored, tokenizer)

The result is immutable and may be shared between goroutines. Every generated
sequence gets its own automaton or Guide:

    g := compiled.NewGuide()
    masked, err := g.Mask(scores)   // before sampling
    err = g.Put(id)                 // after sampling

Generate drives this loop for a caller supplied step function, which wraps
the model's forward pass and sampling.

Configuration

Defaults for compile options are taken from the global configuration:

    tagll.eos-alternative    bool   add EOS as an alternative of S*
    tagll.max-factor-depth   int    bound for nested factoring

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package guide

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'tagll.guide'.
func tracer() tracing.Trace {
	return tracing.Select("tagll.guide")
}

/*
Command tagll compiles a tag grammar against a tokenizer vocabulary and lets
users step through the resulting automaton interactively.

    tagll -grammar g.json -vocab vocab.json -eos 0 [-regex] [-eos-alt]
          [-dump table.json] [-html table.html] [-trace Info]
    tagll -ebnf g.ebnf -start Start -vocab vocab.json -eos 0

The grammar is either a JSON object of the form

    { "S*": ["<<a>> A", "<<b>> B"], "A": ["<<x>>"], "B": ["<<y>>"] }

or a Go EBNF file. After compilation the LL(1) table is printed and tagll
enters interactive mode, where the following commands are available:

    valid            print token IDs valid next
    accept <token>   accept a token, given by ID or vocabulary string
    stack            print the automaton's stack
    reset            start a new sequence
    table            print the LL(1) table
    grammar          print the expanded grammar as a tree
    quit             leave (or <ctrl>D)

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'tagll.cli'.
func tracer() tracing.Trace {
	return tracing.Select("tagll.cli")
}

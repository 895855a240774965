/*
Package vocab binds grammar terminals to tokenizer vocabulary.

Every terminal of an LL(1) table resolves to a set of token IDs: either to
the single token with exactly the terminal's text, or to all tokens fully
matching a regular expression class. Classes are looked up as "regex_<t>" or
"<t>" for a terminal t. CommonClasses provides a few classes for numbers,
words and identifiers.

Within one row of the table, token sets of different terminals must not
overlap. Otherwise a generated token could not be mapped back to a terminal
unambiguously; MapTerminals reports a TokenAmbiguityError then.

Package vocab also contains a simple in-memory Vocabulary with a longest-match
tokenizer. It is suitable for tools and tests, not as a replacement for a
model's real tokenizer.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package vocab

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'tagll.vocab'.
func tracer() tracing.Trace {
	return tracing.Select("tagll.vocab")
}

/*
Package tags expands authored tag grammars into token-level LL grammars.

Authors write grammars in terms of words and tags. A tag <<phrase>> stands for a
phrase the model has to produce verbatim, e.g.

    S* ➞ <<positive>> A | <<negative>> B
    A  ➞ <<happy>> | <<peaceful>>

Language models do not produce words, but sub-word tokens. Expand sub-tokenizes
every tag phrase with the model's tokenizer and builds a trie of the resulting
sub-tokens, introducing synthetic non-terminals wherever two tags of one rule
share a leading sub-token. Afterwards, alternatives of every rule sharing a
common prefix are factored as well. The result is an ll.Grammar, ready for
ll.Factor and ll.BuildTable.

Synthetic non-terminals are named after their origin: <lhs>_TAG_NT<i> for the
first level of the tag trie of rule <lhs>, <parent>_<k> below, and <lhs>_FACT
for common-prefix factoring. RuleKey tells main rules from prefix-scoped ones.

Grammars may also be written in EBNF, see FromEBNF.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package tags

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'tagll.tags'.
func tracer() tracing.Trace {
	return tracing.Select("tagll.tags")
}

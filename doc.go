/*
Package tagll compiles tag-based grammars into LL(1) tables for constrained
token generation.

Grammars are authored with literal words and tag placeholders like `<<cell biology>>`.
Tags are expanded into tokenizer sub-tokens, the grammar is factored until it is LL(1),
and every terminal is bound to the set of vocabulary token ids it may be emitted as.
At generation time a stack automaton tells the generation loop which token ids are
admissible next, so the produced output is always a sentence of the grammar.

Package structure is as follows:

■ ll: Package ll implements the grammar arena, FIRST/FOLLOW analysis, prefix factoring
and LL(1) table construction.

■ tags: Package tags expands authored grammars (tags, literal words, EBNF) into
canonical grammars for package ll.

■ vocab: Package vocab binds terminals to vocabulary token ids, using exact matches
or regular-expression classes.

■ automaton: Package automaton implements the runtime constraint automaton.

■ guide: Package guide ties everything together: compilation pipeline and generation-loop
helpers.

■ cmd/tagll: Command tagll is an interactive inspector for compiled grammars.

The base package contains data types which are used throughout all the other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package tagll

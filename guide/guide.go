package guide

import (
	"fmt"

	"github.com/npillmayer/tagll"
	"github.com/npillmayer/tagll/automaton"
	"github.com/npillmayer/tagll/ll"
	"github.com/npillmayer/tagll/tags"
	"github.com/npillmayer/tagll/vocab"
)

// Compiled is a tag grammar compiled against a tokenizer vocabulary.
// It is immutable and safe for concurrent use.
type Compiled struct {
	expansion *tags.Expansion
	table     *ll.ParsingTable
	tokens    *vocab.TerminalTokenMap
	eos       tagll.TokenID
}

// Compile expands an authored grammar, factors it to LL(1), builds the parsing
// table and binds its terminals to token IDs of tokenizer tok.
//
// Any error aborts compilation; there is no partial result. Compile may be
// called concurrently, every call uses a compile context of its own.
func Compile(authored *tags.Authored, tok tagll.Tokenizer, opts ...Option) (*Compiled, error) {
	o := defaults()
	for _, opt := range opts {
		opt(o)
	}
	ctx := ll.NewCompileContext(o.maxDepth)
	x, err := tags.Expand(ctx, authored, tok)
	if err != nil {
		return nil, fmt.Errorf("cannot expand grammar: %w", err)
	}
	g := x.Grammar
	if o.eosAlt {
		if err = addEOSAlternative(g, tok); err != nil {
			return nil, err
		}
	}
	if err = ll.Factor(ctx, g); err != nil {
		return nil, err
	}
	table, err := ll.BuildTable(ctx.Analysis(g))
	if err != nil {
		return nil, err
	}
	tracer().Infof("LL(1) table has %d entries", table.Size())
	if o.diagnostics != nil {
		if err = table.WriteJSON(o.diagnostics); err != nil {
			return nil, err
		}
	}
	tokens, err := vocab.MapTerminals(table, tok.Vocabulary(), o.regex, tok.EOS())
	if err != nil {
		return nil, err
	}
	return &Compiled{
		expansion: x,
		table:     table,
		tokens:    tokens,
		eos:       tok.EOS(),
	}, nil
}

// addEOSAlternative appends S* ➞ eos, where eos is the vocabulary string of
// the tokenizer's end-of-sequence token.
func addEOSAlternative(g *ll.Grammar, tok tagll.Tokenizer) error {
	eos, found := "", false
	for s, id := range tok.Vocabulary() {
		if id == tok.EOS() && (!found || s < eos) { // smallest one, if ambiguous
			eos, found = s, true
		}
	}
	if !found {
		return fmt.Errorf("end-of-sequence token %d not in vocabulary", tok.EOS())
	}
	tracer().Debugf("adding alternative S* ➞ %s", eos)
	g.AddRule(g.Start(), g.Terminal(eos))
	return nil
}

// NewAutomaton creates a fresh automaton for one sequence.
func (c *Compiled) NewAutomaton() *automaton.Automaton {
	return automaton.New(c.table, c.tokens, c.eos)
}

// Table returns the LL(1) parsing table.
func (c *Compiled) Table() *ll.ParsingTable {
	return c.table
}

// Tokens returns the binding of terminals to token IDs.
func (c *Compiled) Tokens() *vocab.TerminalTokenMap {
	return c.tokens
}

// Grammar returns the factored grammar.
func (c *Compiled) Grammar() *ll.Grammar {
	return c.table.Grammar()
}

// Expansion returns the result of tag expansion, which tells the origin of
// synthetic non-terminals.
func (c *Compiled) Expansion() *tags.Expansion {
	return c.expansion
}

// EOS returns the end-of-sequence token ID.
func (c *Compiled) EOS() tagll.TokenID {
	return c.eos
}

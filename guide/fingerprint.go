package guide

import (
	"github.com/cnf/structhash"
	"github.com/npillmayer/tagll/ll"
)

// snapshot is the canonical, hashable form of a compiled guide.
type snapshot struct {
	Cells  []cellSnapshot
	Ends   []cellSnapshot
	Tokens []tokenSnapshot
	EOS    int
}

type cellSnapshot struct {
	Nonterminal string
	Terminal    string
	RHS         []string
}

type tokenSnapshot struct {
	Terminal string
	IDs      []int
}

// Fingerprint returns a hash over the parsing table and the token binding.
// Compiling identical inputs results in identical fingerprints.
func (c *Compiled) Fingerprint() (string, error) {
	s := snapshot{EOS: int(c.eos)}
	c.table.EachCell(func(N, a *ll.Symbol, r *ll.Rule) {
		s.Cells = append(s.Cells, cellSnapshot{
			Nonterminal: N.Name,
			Terminal:    a.Name,
			RHS:         r.RHSNames(),
		})
	})
	for _, N := range c.table.Nonterminals() {
		if r, ok := c.table.EndRule(N); ok {
			s.Ends = append(s.Ends, cellSnapshot{
				Nonterminal: N.Name,
				Terminal:    c.table.Grammar().EndMarker().Name,
				RHS:         r.RHSNames(),
			})
		}
	}
	for _, a := range c.table.Terminals() {
		t := tokenSnapshot{Terminal: a.Name}
		for _, id := range c.tokens.Tokens(a).IDs() {
			t.IDs = append(t.IDs, int(id))
		}
		s.Tokens = append(s.Tokens, t)
	}
	return structhash.Hash(s, 1)
}

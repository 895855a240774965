package vocab

import (
	"fmt"
	"sort"

	"github.com/npillmayer/tagll"
	"github.com/npillmayer/tagll/ll"
)

// UnknownTerminalError is reported if a terminal can neither be found in the
// vocabulary nor be resolved by a regex class.
type UnknownTerminalError struct {
	Terminal string
	Reason   string
}

func (e *UnknownTerminalError) Error() string {
	return fmt.Sprintf("cannot map terminal %q to tokens: %s", e.Terminal, e.Reason)
}

// TokenAmbiguityError is reported if two terminals of one table row share tokens.
type TokenAmbiguityError struct {
	Nonterminal string
	A, B        string
	Overlap     tagll.TokenSet
}

func (e *TokenAmbiguityError) Error() string {
	return fmt.Sprintf("terminals %q and %q of %s share tokens %v", e.A, e.B, e.Nonterminal, e.Overlap)
}

// TerminalTokenMap maps terminals of a parsing table to sets of token IDs.
// It is immutable and safe for concurrent use.
type TerminalTokenMap struct {
	g       *ll.Grammar
	sets    map[int]tagll.TokenSet // by terminal symbol ID
	inverse map[tagll.TokenID][]int
}

// MapTerminals resolves every terminal of a table to a set of token IDs and checks
// that terminals of one table row have disjoint sets.
//
// A terminal t is resolved by a regex class named "regex_<t>" or "<t>", if
// registered. If both names are registered, t is ambiguous. Otherwise t has to be
// a vocabulary string. A regex class matching no vocabulary string is not an
// error, but leaves t without tokens.
//
// Rows of non-terminals which may be finished by the end of input also own
// the end-of-sequence token eos. A terminal of such a row must not match eos.
func MapTerminals(table *ll.ParsingTable, vocabulary map[string]tagll.TokenID, reg *Registry,
	eos tagll.TokenID) (*TerminalTokenMap, error) {
	m := &TerminalTokenMap{
		g:       table.Grammar(),
		sets:    make(map[int]tagll.TokenSet),
		inverse: make(map[tagll.TokenID][]int),
	}
	for _, a := range table.Terminals() {
		ids, err := resolve(a.Name, vocabulary, reg)
		if err != nil {
			return nil, err
		}
		if ids.IsEmpty() {
			tracer().Infof("terminal %q matches no tokens", a.Name)
		}
		m.sets[a.ID] = ids
		for _, id := range ids.IDs() {
			m.inverse[id] = append(m.inverse[id], a.ID)
		}
	}
	for _, N := range table.Nonterminals() {
		_, canEnd := table.EndRule(N)
		if err := m.checkDisjoint(N, table.Row(N), canEnd, eos); err != nil {
			tracer().Errorf("%v", err)
			return nil, err
		}
	}
	tracer().Infof("mapped %d terminals to %d tokens", len(m.sets), len(m.inverse))
	return m, nil
}

func resolve(t string, vocabulary map[string]tagll.TokenID, reg *Registry) (tagll.TokenSet, error) {
	c1, ok1 := reg.Lookup(ClassPrefix + t)
	c2, ok2 := reg.Lookup(t)
	if ok1 && ok2 && c1 != c2 {
		return tagll.TokenSet{}, &UnknownTerminalError{
			Terminal: t,
			Reason:   fmt.Sprintf("both regex classes %s and %s apply", c1.Name, c2.Name),
		}
	}
	if ok2 && !ok1 {
		c1, ok1 = c2, true
	}
	if ok1 {
		var ids []tagll.TokenID
		for s, id := range vocabulary {
			if c1.Matches(s) {
				ids = append(ids, id)
			}
		}
		tracer().Debugf("terminal %q ➞ class %s, %d tokens", t, c1.Name, len(ids))
		return tagll.NewTokenSet(ids...), nil
	}
	if id, ok := vocabulary[t]; ok {
		return tagll.NewTokenSet(id), nil
	}
	return tagll.TokenSet{}, &UnknownTerminalError{
		Terminal: t,
		Reason:   "neither in vocabulary nor a regex class",
	}
}

// checkDisjoint checks the terminals of one table row for overlapping token sets.
// If canEnd is set, eos is reserved for the end of the sequence.
func (m *TerminalTokenMap) checkDisjoint(N *ll.Symbol, row []*ll.Symbol, canEnd bool, eos tagll.TokenID) error {
	owner := make(map[tagll.TokenID]*ll.Symbol)
	for _, a := range row {
		if canEnd && m.sets[a.ID].Contains(eos) {
			return &TokenAmbiguityError{
				Nonterminal: N.Name,
				A:           a.Name,
				B:           "end of sequence",
				Overlap:     tagll.NewTokenSet(eos),
			}
		}
		for _, id := range m.sets[a.ID].IDs() {
			b, taken := owner[id]
			if !taken {
				owner[id] = a
				continue
			}
			return &TokenAmbiguityError{
				Nonterminal: N.Name,
				A:           b.Name,
				B:           a.Name,
				Overlap:     m.sets[b.ID].Intersect(m.sets[a.ID]),
			}
		}
	}
	return nil
}

// Tokens returns the token IDs of terminal a.
func (m *TerminalTokenMap) Tokens(a *ll.Symbol) tagll.TokenSet {
	return m.sets[a.ID]
}

// TerminalsFor returns the IDs of all terminals which token id is mapped to, sorted.
func (m *TerminalTokenMap) TerminalsFor(id tagll.TokenID) []int {
	return m.inverse[id]
}

// Len returns the number of mapped terminals.
func (m *TerminalTokenMap) Len() int {
	return len(m.sets)
}

// Each calls f for every mapped terminal, in order of symbol IDs.
func (m *TerminalTokenMap) Each(f func(a *ll.Symbol, ids tagll.TokenSet)) {
	terms := make([]int, 0, len(m.sets))
	for id := range m.sets {
		terms = append(terms, id)
	}
	sort.Ints(terms)
	for _, id := range terms {
		f(m.g.Symbol(id), m.sets[id])
	}
}

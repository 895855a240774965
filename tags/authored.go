package tags

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/npillmayer/tagll/ll"
)

// AuthoredRule is a non-terminal of an authored grammar with its alternatives,
// unsplit.
type AuthoredRule struct {
	LHS          string
	Alternatives []string
}

// Authored is a grammar as written by humans: a list of non-terminals, each with
// an ordered list of alternatives. Alternatives are whitespace-delimited words
// and tag placeholders of the form <<phrase>>.
type Authored struct {
	rules []AuthoredRule
	index map[string]int
}

// NewAuthored creates an empty authored grammar.
func NewAuthored() *Authored {
	return &Authored{index: make(map[string]int)}
}

// Rule appends alternatives for non-terminal lhs. Calling Rule more than once for
// the same lhs extends its list of alternatives.
func (a *Authored) Rule(lhs string, alternatives ...string) *Authored {
	i, ok := a.index[lhs]
	if !ok {
		i = len(a.rules)
		a.index[lhs] = i
		a.rules = append(a.rules, AuthoredRule{LHS: lhs})
	}
	a.rules[i].Alternatives = append(a.rules[i].Alternatives, alternatives...)
	return a
}

// Rules returns the rules in order of authoring.
func (a *Authored) Rules() []AuthoredRule {
	return a.rules
}

// IsNonterminal is true if name is the LHS of an authored rule.
func (a *Authored) IsNonterminal(name string) bool {
	_, ok := a.index[name]
	return ok
}

// Validate checks that the grammar has rules for the start symbol S*.
func (a *Authored) Validate() error {
	if !a.IsNonterminal(ll.StartName) {
		return fmt.Errorf("authored grammar has no rule for start symbol %s", ll.StartName)
	}
	return nil
}

// FromMap creates an authored grammar from a map. As maps have no order, S* is
// put first and the other non-terminals follow in lexical order.
func FromMap(m map[string][]string) *Authored {
	a := NewAuthored()
	if alts, ok := m[ll.StartName]; ok {
		a.Rule(ll.StartName, alts...)
	}
	lhs := make([]string, 0, len(m))
	for name := range m {
		if name != ll.StartName {
			lhs = append(lhs, name)
		}
	}
	sort.Strings(lhs)
	for _, name := range lhs {
		a.Rule(name, m[name]...)
	}
	return a
}

// ReadJSON reads an authored grammar from a JSON object mapping non-terminals
// to lists of alternatives:
//
//     { "S*": ["<<positive>> A", "<<negative>> B"], "A": ["<<happy>>"], … }
//
// The order of the object's keys is preserved.
func ReadJSON(r io.Reader) (*Authored, error) {
	dec := json.NewDecoder(r)
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	a := NewAuthored()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("cannot read authored grammar: %w", err)
		}
		lhs, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("cannot read authored grammar: unexpected %v", tok)
		}
		var alts []string
		if err = dec.Decode(&alts); err != nil {
			return nil, fmt.Errorf("cannot read alternatives of %s: %w", lhs, err)
		}
		a.Rule(lhs, alts...)
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	tracer().Debugf("read authored grammar with %d non-terminals", len(a.rules))
	return a, a.Validate()
}

func expectDelim(dec *json.Decoder, d json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("cannot read authored grammar: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != d {
		return fmt.Errorf("cannot read authored grammar: expected %v, have %v", d, tok)
	}
	return nil
}

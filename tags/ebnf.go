package tags

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/exp/ebnf"

	"github.com/npillmayer/tagll/ll"
)

// FromEBNF reads an authored grammar written in Go's EBNF notation
// (see package golang.org/x/exp/ebnf):
//
//     Mood   = "positive" Reason | "negative" .
//     Reason = [ "because" ] "sunny weather" .
//
// Production start becomes S*. Tokens become words if they are blank-free and do
// not collide with the name of a production, otherwise they become tags. Groups,
// options and repetitions are moved to authored rules of their own. Character
// ranges are not supported.
func FromEBNF(r io.Reader, start string) (*Authored, error) {
	grammar, err := ebnf.Parse(start, r)
	if err != nil {
		return nil, fmt.Errorf("cannot parse EBNF grammar: %w", err)
	}
	if err = ebnf.Verify(grammar, start); err != nil {
		return nil, fmt.Errorf("invalid EBNF grammar: %w", err)
	}
	names := make([]string, 0, len(grammar))
	for name := range grammar {
		if name != start {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	names = append([]string{start}, names...)
	t := &ebnfTranslator{
		grammar:  grammar,
		start:    start,
		authored: NewAuthored(),
	}
	for _, name := range names {
		t.authored.Rule(t.rename(name)) // fix order of main rules
	}
	for _, name := range names {
		prod := grammar[name]
		alts, err := t.alternatives(name, prod.Expr)
		if err != nil {
			return nil, err
		}
		t.authored.Rule(t.rename(name), alts...)
	}
	return t.authored, nil
}

type ebnfTranslator struct {
	grammar  ebnf.Grammar
	start    string
	authored *Authored
	counter  map[string]int
}

func (t *ebnfTranslator) rename(name string) string {
	if name == t.start {
		return ll.StartName
	}
	return name
}

// alternatives translates an expression into a list of authored alternatives.
func (t *ebnfTranslator) alternatives(lhs string, x ebnf.Expression) ([]string, error) {
	if alt, ok := x.(ebnf.Alternative); ok {
		alts := make([]string, 0, len(alt))
		for _, branch := range alt {
			s, err := t.sequence(lhs, branch)
			if err != nil {
				return nil, err
			}
			alts = append(alts, s)
		}
		return alts, nil
	}
	s, err := t.sequence(lhs, x)
	if err != nil {
		return nil, err
	}
	return []string{s}, nil
}

// sequence translates an expression into a single authored alternative.
func (t *ebnfTranslator) sequence(lhs string, x ebnf.Expression) (string, error) {
	switch x := x.(type) {
	case nil:
		return Epsilon, nil
	case ebnf.Sequence:
		parts := make([]string, 0, len(x))
		for _, y := range x {
			s, err := t.sequence(lhs, y)
			if err != nil {
				return "", err
			}
			if s != Epsilon {
				parts = append(parts, s)
			}
		}
		if len(parts) == 0 {
			return Epsilon, nil
		}
		return strings.Join(parts, " "), nil
	case *ebnf.Name:
		return t.rename(x.String), nil
	case *ebnf.Token:
		return t.token(x.String), nil
	case ebnf.Alternative, *ebnf.Group:
		body := x
		if g, ok := x.(*ebnf.Group); ok {
			body = g.Body
		}
		return t.subrule(lhs, "G", body, false, false)
	case *ebnf.Option:
		return t.subrule(lhs, "O", x.Body, true, false)
	case *ebnf.Repetition:
		return t.subrule(lhs, "R", x.Body, true, true)
	case *ebnf.Range:
		return "", fmt.Errorf("EBNF production %s: character ranges are not supported", lhs)
	}
	return "", fmt.Errorf("EBNF production %s: unsupported expression %T", lhs, x)
}

// subrule creates an authored rule for a nested expression and returns its name.
// Options get an additional ε-alternative; repetitions are right-recursive.
func (t *ebnfTranslator) subrule(lhs, kind string, body ebnf.Expression, optional, repeat bool) (string, error) {
	if t.counter == nil {
		t.counter = make(map[string]int)
	}
	parent := t.rename(lhs)
	t.counter[parent]++
	name := fmt.Sprintf("%s_%s%d", parent, kind, t.counter[parent])
	t.authored.Rule(name)
	alts, err := t.alternatives(lhs, body)
	if err != nil {
		return "", err
	}
	for _, alt := range alts {
		if repeat {
			if alt == Epsilon {
				continue
			}
			alt = alt + " " + name
		}
		t.authored.Rule(name, alt)
	}
	if optional {
		t.authored.Rule(name, Epsilon)
	}
	return name, nil
}

// token translates an EBNF token into a word or a tag.
func (t *ebnfTranslator) token(s string) string {
	_, isName := t.grammar[s]
	if isName || s == ll.StartName || s == Epsilon || strings.ContainsAny(s, " \t\n\r") ||
		strings.Contains(s, "<<") || strings.Contains(s, ">>") {
		return "<<" + s + ">>"
	}
	return s
}

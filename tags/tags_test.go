package tags

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/tagll/ll"
)

// subtokens maps tag phrases to sub-tokens; unknown phrases are split at blanks.
type subtokens map[string][]string

func (st subtokens) Tokenize(text string) []string {
	if tokens, ok := st[text]; ok {
		return tokens
	}
	return strings.Fields(text)
}

func rhs(g *ll.Grammar, name string) []string {
	N, ok := g.LookupNonterminal(name)
	if !ok {
		return nil
	}
	var alts []string
	for _, r := range g.Rules(N) {
		alts = append(alts, strings.Join(r.RHSNames(), " "))
	}
	return alts
}

func sameStrings(a, b []string) bool {
	return strings.Join(a, "|") == strings.Join(b, "|")
}

func TestSplitAlternative(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tagll.tags")
	defer teardown()
	//
	items, err := SplitAlternative("<<cell biology>>  A x<<y>>")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 4 {
		t.Fatalf("expected 4 items, have %v", items)
	}
	if !items[0].IsTag || items[0].Text != "cell biology" {
		t.Errorf("expected first item to be tag <<cell biology>>, is %v", items[0])
	}
	if items[1].IsTag || items[1].Text != "A" {
		t.Errorf("expected second item to be word A, is %v", items[1])
	}
	if items[2].IsTag || items[2].Text != "x" || !items[3].IsTag || items[3].Text != "y" {
		t.Errorf("expected tag <<y>> to be split off word x, have %v", items[2:])
	}
	for alt, expected := range map[string]string{
		"<<a>>,":       "<<a>> ,",
		"a<b c":        "a<b c",
		"a<< b":        "a<< b",
		"<<open x":     "<<open x",
		"p<<q>>r<<s>>": "p <<q>> r <<s>>",
	} {
		items, err = SplitAlternative(alt)
		if err != nil {
			t.Fatal(err)
		}
		var parts []string
		for _, it := range items {
			parts = append(parts, it.String())
		}
		if s := strings.Join(parts, " "); s != expected {
			t.Errorf("expected %q to split into %q, have %q", alt, expected, s)
		}
	}
	for _, eps := range []string{"", "  ", "ε"} {
		if items, _ = SplitAlternative(eps); len(items) != 0 {
			t.Errorf("expected %q to be the empty alternative, is %v", eps, items)
		}
	}
}

func TestSharedTagPrefix(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tagll.tags")
	defer teardown()
	//
	a := NewAuthored().
		Rule("S*", "<<cat>> X", "<<car>> Y").
		Rule("X", "x").
		Rule("Y", "y")
	tok := subtokens{"cat": {"ca", "t"}, "car": {"ca", "r"}}
	x, err := Expand(ll.NewCompileContext(0), a, tok)
	if err != nil {
		t.Fatal(err)
	}
	g := x.Grammar
	if alts := rhs(g, "S*"); !sameStrings(alts, []string{"ca S*_TAG_NT1"}) {
		t.Errorf("expected S* ➞ ca S*_TAG_NT1, is %v", alts)
	}
	if alts := rhs(g, "S*_TAG_NT1"); !sameStrings(alts, []string{"t X", "r Y"}) {
		t.Errorf("expected S*_TAG_NT1 ➞ t X | r Y, is %v", alts)
	}
	N, _ := g.LookupNonterminal("S*_TAG_NT1")
	key, ok := x.Key(N)
	if !ok {
		t.Fatalf("no rule key for %s", N)
	}
	if pk, ok := key.(PrefixRule); !ok || pk.Parent != "S*" || pk.Prefix != "ca" {
		t.Errorf("expected prefix rule of S* on ca, is %#v", key)
	}
	if err = ll.Factor(ll.NewCompileContext(0), g); err != nil {
		t.Fatal(err)
	}
	if _, err = ll.BuildTable(ll.Analysis(g)); err != nil {
		t.Errorf("expected grammar to be LL(1), got %v", err)
	}
}

func TestNestedTagTrie(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tagll.tags")
	defer teardown()
	//
	a := NewAuthored().Rule("S*", "<<abc>>", "<<abd>>", "<<ax>>")
	tok := subtokens{"abc": {"a", "b", "c"}, "abd": {"a", "b", "d"}, "ax": {"a", "x"}}
	x, err := Expand(ll.NewCompileContext(0), a, tok)
	if err != nil {
		t.Fatal(err)
	}
	g := x.Grammar
	if alts := rhs(g, "S*_TAG_NT1"); !sameStrings(alts, []string{"b S*_TAG_NT1_1", "x"}) {
		t.Errorf("expected S*_TAG_NT1 ➞ b S*_TAG_NT1_1 | x, is %v", alts)
	}
	if alts := rhs(g, "S*_TAG_NT1_1"); !sameStrings(alts, []string{"c", "d"}) {
		t.Errorf("expected S*_TAG_NT1_1 ➞ c | d, is %v", alts)
	}
	n := 0
	x.EachRule(func(key RuleKey, N *ll.Symbol) {
		if _, isMain := key.(MainRule); !isMain {
			n++
		}
	})
	if n != 2 {
		t.Errorf("expected 2 prefix rules, have %d", n)
	}
}

func TestCommonPrefixFactoring(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tagll.tags")
	defer teardown()
	//
	a := NewAuthored().
		Rule("S*", "x y A", "x y B", "z").
		Rule("A", "a", "ε").
		Rule("B", "b")
	x, err := Expand(ll.NewCompileContext(0), a, subtokens{})
	if err != nil {
		t.Fatal(err)
	}
	g := x.Grammar
	if alts := rhs(g, "S*"); !sameStrings(alts, []string{"x y S*_FACT", "z"}) {
		t.Errorf("expected S* ➞ x y S*_FACT | z, is %v", alts)
	}
	if alts := rhs(g, "S*_FACT"); !sameStrings(alts, []string{"A", "B"}) {
		t.Errorf("expected S*_FACT ➞ A | B, is %v", alts)
	}
	if alts := rhs(g, "A"); !sameStrings(alts, []string{"a", ""}) {
		t.Errorf("expected A ➞ a | ε, is %v", alts)
	}
}

func TestTagAndWordNamespaces(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tagll.tags")
	defer teardown()
	//
	a := NewAuthored().
		Rule("S*", "<<A>> A").
		Rule("A", "number")
	x, err := Expand(ll.NewCompileContext(0), a, subtokens{})
	if err != nil {
		t.Fatal(err)
	}
	r := x.Grammar.Rules(x.Grammar.Start())[0]
	if !r.RHS()[0].IsTerminal() || r.RHS()[1].IsTerminal() {
		t.Errorf("expected tag <<A>> to be a terminal and word A a non-terminal, have %v", r)
	}
}

func TestReadJSONKeepsOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tagll.tags")
	defer teardown()
	//
	src := `{ "S*": ["<<positive>> B", "<<negative>> A"], "B": ["<<happy>>"], "A": ["<<sad>>", ""] }`
	a, err := ReadJSON(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	rules := a.Rules()
	if len(rules) != 3 || rules[1].LHS != "B" || rules[2].LHS != "A" {
		t.Errorf("expected rules in order S*, B, A, have %v", rules)
	}
	if _, err = ReadJSON(strings.NewReader(`{ "A": ["a"] }`)); err == nil {
		t.Errorf("expected error for grammar without S*")
	}
}

func TestFromEBNF(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tagll.tags")
	defer teardown()
	//
	src := `Mood   = "positive" Reason | "negative" .
Reason = [ "because" ] "sunny weather" .`
	a, err := FromEBNF(strings.NewReader(src), "Mood")
	if err != nil {
		t.Fatal(err)
	}
	rules := a.Rules()
	if len(rules) != 3 {
		t.Fatalf("expected 3 authored rules, have %v", rules)
	}
	if rules[0].LHS != ll.StartName || !sameStrings(rules[0].Alternatives, []string{"positive Reason", "negative"}) {
		t.Errorf("unexpected start rule %v", rules[0])
	}
	if !sameStrings(rules[1].Alternatives, []string{"Reason_O1 <<sunny weather>>"}) {
		t.Errorf("unexpected rule %v", rules[1])
	}
	if rules[2].LHS != "Reason_O1" || !sameStrings(rules[2].Alternatives, []string{"because", "ε"}) {
		t.Errorf("unexpected option rule %v", rules[2])
	}
	if _, err = Expand(ll.NewCompileContext(0), a, subtokens{}); err != nil {
		t.Errorf("cannot expand grammar from EBNF: %v", err)
	}
}

package ll

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

//     S* ➞ A c
//     A  ➞ a
//     A  ➞ ε
func makeEpsilonGrammar(t *testing.T) *Grammar {
	b := NewGrammarBuilder("Eps")
	b.LHS("S*").N("A").T("c").End()
	b.LHS("A").T("a").End()
	b.LHS("A").Epsilon()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func names(g *Grammar, S *SymbolSet) string {
	var n []string
	for _, A := range S.Symbols(g) {
		n = append(n, A.Name)
	}
	return strings.Join(n, " ")
}

func TestGrammarInterning(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tagll.ll")
	defer teardown()
	//
	g := NewGrammar("G")
	if g.Epsilon().ID != EpsilonID || g.EndMarker().ID != EndMarkerID {
		t.Errorf("reserved symbol IDs not honoured")
	}
	if g.Start().Name != StartName {
		t.Errorf("expected start symbol to be %s, is %s", StartName, g.Start())
	}
	a := g.Terminal("A")
	A := g.Nonterminal("A")
	if a == A {
		t.Errorf("terminal A and non-terminal A must be distinct symbols")
	}
	if g.Terminal("A") != a || g.Nonterminal("A") != A {
		t.Errorf("symbols are not interned")
	}
	if _, isnew := g.AddRule(A, a); !isnew {
		t.Errorf("expected first rule for A to be new")
	}
	if _, isnew := g.AddRule(A, a); isnew {
		t.Errorf("expected duplicate rule for A to be dropped")
	}
	if len(g.Rules(A)) != 1 {
		t.Errorf("expected A to have 1 rule, has %d", len(g.Rules(A)))
	}
}

func TestFreezeUndefinedNonterminal(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tagll.ll")
	defer teardown()
	//
	b := NewGrammarBuilder("G")
	b.LHS("S*").N("B").End()
	g, _ := b.Grammar()
	if err := g.Freeze(); err == nil {
		t.Errorf("expected error for non-terminal B without rules")
	}
}

func TestFirstFollow(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tagll.ll")
	defer teardown()
	//
	g := makeEpsilonGrammar(t)
	ga := Analysis(g)
	A, _ := g.LookupNonterminal("A")
	if n := names(g, ga.First(A)); n != "ε a" {
		t.Errorf("expected FIRST(A) = {ε a}, is {%s}", n)
	}
	if n := names(g, ga.First(g.Start())); n != "c a" {
		t.Errorf("expected FIRST(S*) = {c a}, is {%s}", n)
	}
	if n := names(g, ga.Follow(A)); n != "c" {
		t.Errorf("expected FOLLOW(A) = {c}, is {%s}", n)
	}
	if n := names(g, ga.Follow(g.Start())); n != "$" {
		t.Errorf("expected FOLLOW(S*) = {$}, is {%s}", n)
	}
	if !ga.Nullable(A) || ga.Nullable(g.Start()) {
		t.Errorf("nullability of A or S* wrong")
	}
	if !ga.FirstOfSequence(nil).ContainsEpsilon() {
		t.Errorf("FIRST of empty sequence should be {ε}")
	}
}

func TestEpsilonTableCell(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tagll.ll")
	defer teardown()
	//
	g := makeEpsilonGrammar(t)
	T, err := BuildTable(Analysis(g))
	if err != nil {
		t.Fatal(err)
	}
	A, _ := g.LookupNonterminal("A")
	c, _ := g.LookupTerminal("c")
	r, ok := T.Lookup(A, c)
	if !ok || !r.IsEpsilon() {
		t.Errorf("expected (A, c) to hold ε-rule, has %v", r)
	}
	a, _ := g.LookupTerminal("a")
	if r, ok = T.Lookup(A, a); !ok || r.IsEpsilon() {
		t.Errorf("expected (A, a) to hold A ➞ a, has %v", r)
	}
	if _, ok = T.Lookup(g.Start(), g.EndMarker()); ok {
		t.Errorf("end marker cells should be removed from table")
	}
	if len(T.Row(A)) != 2 {
		t.Errorf("expected row A to have 2 keys, has %d", len(T.Row(A)))
	}
}

func TestTableConflict(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tagll.ll")
	defer teardown()
	//
	b := NewGrammarBuilder("Conflict")
	b.LHS("S*").N("A").End()
	b.LHS("S*").N("B").End()
	b.LHS("A").T("x").T("a").End()
	b.LHS("B").T("x").T("b").End()
	g, _ := b.Grammar()
	_, err := BuildTable(Analysis(g))
	var conflict *GrammarConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected grammar conflict, got %v", err)
	}
	if conflict.Nonterminal != "S*" || conflict.Terminal != "x" {
		t.Errorf("expected conflict at (S*, x), got %v", conflict)
	}
}

func TestFactorCommonLead(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tagll.ll")
	defer teardown()
	//
	b := NewGrammarBuilder("Lead")
	b.LHS("S*").T("ca").T("t").End()
	b.LHS("S*").T("ca").T("r").End()
	b.LHS("S*").T("d").End()
	g, _ := b.Grammar()
	if err := Factor(NewCompileContext(0), g); err != nil {
		t.Fatal(err)
	}
	rules := g.Rules(g.Start())
	if len(rules) != 2 {
		t.Fatalf("expected S* to have 2 rules after factoring, has %d", len(rules))
	}
	rhs := rules[0].RHS()
	if len(rhs) != 2 || rhs[0].Name != "ca" || !rhs[1].IsSynthetic() {
		t.Fatalf("expected S* ➞ ca <synthetic>, is %v", rules[0])
	}
	if len(g.Rules(rhs[1])) != 2 {
		t.Errorf("expected synthetic non-terminal to have 2 rules, has %d", len(g.Rules(rhs[1])))
	}
	if _, err := BuildTable(Analysis(g)); err != nil {
		t.Errorf("factored grammar should be LL(1): %v", err)
	}
}

func TestFactorSubstitution(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tagll.ll")
	defer teardown()
	//
	b := NewGrammarBuilder("Subst")
	b.LHS("S*").N("A").T("c").End()
	b.LHS("S*").N("B").T("d").End()
	b.LHS("A").T("x").T("a").End()
	b.LHS("B").T("x").T("b").End()
	g, _ := b.Grammar()
	if err := Factor(NewCompileContext(0), g); err != nil {
		t.Fatal(err)
	}
	g.Dump()
	if _, err := BuildTable(Analysis(g)); err != nil {
		t.Errorf("factored grammar should be LL(1): %v", err)
	}
}

func TestFactorLeftRecursion(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tagll.ll")
	defer teardown()
	//
	b := NewGrammarBuilder("LeftRec")
	b.LHS("S*").N("S*").T("+").N("T").End()
	b.LHS("S*").N("T").End()
	b.LHS("T").T("x").End()
	g, _ := b.Grammar()
	err := Factor(NewCompileContext(0), g)
	var conflict *GrammarConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected grammar conflict for left recursion, got %v", err)
	}
	if conflict.Nonterminal != "S*" {
		t.Errorf("expected conflict to name S*, names %s", conflict.Nonterminal)
	}
}

func TestTableDeterminism(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tagll.ll")
	defer teardown()
	tracing.Select("tagll.ll").SetTraceLevel(tracing.LevelInfo)
	//
	dump := func() string {
		b := NewGrammarBuilder("Det")
		b.LHS("S*").T("a").N("A").End()
		b.LHS("S*").T("a").N("B").End()
		b.LHS("A").T("x").End()
		b.LHS("B").T("y").End()
		b.LHS("B").Epsilon()
		g, _ := b.Grammar()
		if err := Factor(NewCompileContext(0), g); err != nil {
			t.Fatal(err)
		}
		T, err := BuildTable(Analysis(g))
		if err != nil {
			t.Fatal(err)
		}
		var buf bytes.Buffer
		if err = T.WriteJSON(&buf); err != nil {
			t.Fatal(err)
		}
		return buf.String()
	}
	first := dump()
	if second := dump(); first != second {
		t.Errorf("table dumps differ:\n%s\n%s", first, second)
	}
	var decoded map[string]map[string][]string
	if err := json.Unmarshal([]byte(first), &decoded); err != nil {
		t.Fatalf("table dump is not valid JSON: %v", err)
	}
	if rhs, ok := decoded["S*"]["a"]; !ok || len(rhs) != 2 || rhs[0] != "a" {
		t.Errorf("expected S* on a to expand to [a S*_a], is %v", rhs)
	}
}

func TestWalkIsCycleSafe(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tagll.ll")
	defer teardown()
	//
	b := NewGrammarBuilder("Cycle")
	b.LHS("S*").T("a").N("A").End()
	b.LHS("A").T("b").N("S*").End()
	b.LHS("A").Epsilon()
	g, _ := b.Grammar()
	reached := g.Reachable()
	if len(reached) != 4 { // S*, a, A, b
		t.Errorf("expected 4 reachable symbols, have %d", len(reached))
	}
	err := Walk([]*Symbol{g.Start()}, g.RuleSuccessors(), func(*Symbol, int) error {
		return nil
	}, 1)
	var deep ErrDepthExceeded
	if !errors.As(err, &deep) {
		t.Errorf("expected depth to be exceeded, got %v", err)
	}
}

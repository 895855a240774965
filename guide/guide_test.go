package guide

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/tagll"
	"github.com/npillmayer/tagll/tags"
	"github.com/npillmayer/tagll/vocab"
)

func makeVocabulary(t *testing.T, ids map[string]tagll.TokenID) *vocab.Vocabulary {
	v, err := vocab.NewVocabulary(ids, 0)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

//     S* ➞ <<a>> A | <<b>> B
//     A  ➞ <<x>>
//     B  ➞ <<y>>
func abGrammar() *tags.Authored {
	return tags.NewAuthored().
		Rule("S*", "<<a>> A", "<<b>> B").
		Rule("A", "<<x>>").
		Rule("B", "<<y>>")
}

var abVocabulary = map[string]tagll.TokenID{"</s>": 0, "a": 1, "b": 2, "x": 3, "y": 4}

func TestCompileAndAccept(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tagll.guide")
	defer teardown()
	//
	c, err := Compile(abGrammar(), makeVocabulary(t, abVocabulary))
	if err != nil {
		t.Fatal(err)
	}
	A := c.NewAutomaton()
	for _, step := range []struct {
		valid  []tagll.TokenID
		accept tagll.TokenID
	}{
		{[]tagll.TokenID{1, 2}, 1},
		{[]tagll.TokenID{3}, 3},
	} {
		valid, err := A.ValidTokenIDs()
		if err != nil {
			t.Fatal(err)
		}
		if !valid.Equals(tagll.NewTokenSet(step.valid...)) {
			t.Errorf("expected valid tokens %v, have %v", step.valid, valid)
		}
		if err = A.Accept(step.accept); err != nil {
			t.Fatal(err)
		}
	}
	if !A.IsAccepting() {
		t.Errorf("expected sequence a x to be accepted")
	}
	if valid, _ := A.ValidTokenIDs(); !valid.Equals(tagll.NewTokenSet(0)) {
		t.Errorf("expected only EOS to be valid at the end, have %v", valid)
	}
}

func TestEOSAlternative(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tagll.guide")
	defer teardown()
	//
	v := makeVocabulary(t, abVocabulary)
	c, err := Compile(abGrammar(), v, WithEOSAlternative(true))
	if err != nil {
		t.Fatal(err)
	}
	A := c.NewAutomaton()
	if valid, _ := A.ValidTokenIDs(); !valid.Equals(tagll.NewTokenSet(0, 1, 2)) {
		t.Errorf("expected EOS to be valid initially, have %v", valid)
	}
	if err = A.Accept(0); err != nil {
		t.Fatal(err)
	}
	if !A.IsAccepting() {
		t.Errorf("expected empty generation to be accepted")
	}
	c, err = Compile(abGrammar(), v, WithEOSAlternative(false))
	if err != nil {
		t.Fatal(err)
	}
	if valid, _ := c.NewAutomaton().ValidTokenIDs(); valid.Contains(0) {
		t.Errorf("expected EOS not to be valid initially, have %v", valid)
	}
}

func TestEOSAlternativeNullableStart(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tagll.guide")
	defer teardown()
	//
	//     S* ➞ <<a>> | ε    plus    S* ➞ </s>
	g := tags.NewAuthored().Rule("S*", "<<a>>", "")
	v := makeVocabulary(t, map[string]tagll.TokenID{"</s>": 0, "a": 1})
	_, err := Compile(g, v, WithEOSAlternative(true))
	var amb *vocab.TokenAmbiguityError
	if !errors.As(err, &amb) {
		t.Fatalf("expected EOS alternative to clash with end of sequence, got %v", err)
	}
	if !amb.Overlap.Equals(tagll.NewTokenSet(0)) {
		t.Errorf("expected overlap on EOS, is %v", amb.Overlap)
	}
	if _, err = Compile(g, v); err != nil {
		t.Errorf("expected nullable start to compile without EOS alternative, got %v", err)
	}
}

func TestSharedTagPrefix(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tagll.guide")
	defer teardown()
	//
	v := makeVocabulary(t, map[string]tagll.TokenID{"</s>": 0, "ca": 1, "t": 2, "r": 3, "X": 4, "Y": 5})
	c, err := Compile(tags.NewAuthored().Rule("S*", "<<cat>> X", "<<car>> Y"), v)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Grammar().LookupNonterminal("S*_TAG_NT1"); !ok {
		t.Errorf("expected a synthetic non-terminal branching after 'ca'")
	}
	A := c.NewAutomaton()
	if valid, _ := A.ValidTokenIDs(); !valid.Equals(tagll.NewTokenSet(1)) {
		t.Errorf("expected only 'ca' to be valid initially, have %v", valid)
	}
	if err = A.Accept(1); err != nil {
		t.Fatal(err)
	}
	if valid, _ := A.ValidTokenIDs(); !valid.Equals(tagll.NewTokenSet(2, 3)) {
		t.Errorf("expected 't' and 'r' to be valid after 'ca', have %v", valid)
	}
	if err = A.Accept(3); err != nil {
		t.Fatal(err)
	}
	if valid, _ := A.ValidTokenIDs(); !valid.Equals(tagll.NewTokenSet(5)) {
		t.Errorf("expected 'Y' to follow 'car', have %v", valid)
	}
	if err = A.Accept(5); err != nil || !A.IsAccepting() {
		t.Errorf("expected 'car Y' to be accepted, error is %v", err)
	}
}

func TestCompileIdempotence(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tagll.guide")
	defer teardown()
	//
	v := makeVocabulary(t, abVocabulary)
	var diag bytes.Buffer
	c1, err := Compile(abGrammar(), v, WithDiagnostics(&diag))
	if err != nil {
		t.Fatal(err)
	}
	c2, err := Compile(abGrammar(), v)
	if err != nil {
		t.Fatal(err)
	}
	f1, err := c1.Fingerprint()
	if err != nil {
		t.Fatal(err)
	}
	f2, _ := c2.Fingerprint()
	if f1 != f2 {
		t.Errorf("expected identical fingerprints, have %s and %s", f1, f2)
	}
	c3, err := Compile(abGrammar().Rule("B", "<<x>>"), v)
	if err != nil {
		t.Fatal(err)
	}
	if f3, _ := c3.Fingerprint(); f3 == f1 {
		t.Errorf("expected different grammars to have different fingerprints")
	}
	if !strings.Contains(diag.String(), `"S*"`) {
		t.Errorf("expected diagnostics to contain the table, is %q", diag.String())
	}
}

func TestConcurrentCompileAndGenerate(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tagll.guide")
	defer teardown()
	//
	v := makeVocabulary(t, abVocabulary)
	c, err := Compile(abGrammar(), v)
	if err != nil {
		t.Fatal(err)
	}
	errs := make(chan error, 8)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(prefer tagll.TokenID) {
			defer wg.Done()
			if _, err := Compile(abGrammar(), v); err != nil {
				errs <- err
				return
			}
			seq, err := Generate(context.Background(), c.NewGuide(), Greedy(preferring(prefer)), 10)
			if err != nil {
				errs <- err
				return
			}
			if len(seq) != 2 || seq[0] != prefer {
				errs <- errors.New("unexpected sequence")
			}
		}(tagll.TokenID(1 + i%2))
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

// preferring is a fake model, which scores token id highest and all others by
// their id.
func preferring(id tagll.TokenID) func(context.Context, []tagll.TokenID) ([]float32, error) {
	return func(context.Context, []tagll.TokenID) ([]float32, error) {
		scores := make([]float32, 5)
		for i := range scores {
			scores[i] = float32(i)
		}
		scores[id] = 100
		return scores, nil
	}
}

func TestGuidePut(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tagll.guide")
	defer teardown()
	//
	c, err := Compile(abGrammar(), makeVocabulary(t, abVocabulary))
	if err != nil {
		t.Fatal(err)
	}
	g := c.NewGuide()
	for _, id := range []tagll.TokenID{4, 2, 4} { // first one is the prompt
		if err = g.Put(id); err != nil {
			t.Fatal(err)
		}
	}
	if !g.Done() {
		t.Errorf("expected guide to be done after b y")
	}
	if err = g.Put(0); err != nil {
		t.Errorf("expected tokens after completion to be ignored, got %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err = Generate(ctx, c.NewGuide(), Greedy(preferring(1)), 10); !errors.Is(err, context.Canceled) {
		t.Errorf("expected generation to be cancelled, got %v", err)
	}
	if _, err = Generate(context.Background(), c.NewGuide(), Greedy(preferring(1)), 1); !errors.Is(err, ErrTokenLimit) {
		t.Errorf("expected token limit to be reached, got %v", err)
	}
}

package ll

import (
	"strconv"
	"strings"
)

// LLAnalysis holds the FIRST and FOLLOW sets of a grammar.
//
// An analysis is a snapshot: if the grammar is modified afterwards, the analysis
// is stale and has to be re-created. FirstOfSequence memoizes its results, so an
// analysis must not be used by more than one goroutine at a time.
type LLAnalysis struct {
	g      *Grammar
	first  []*SymbolSet // by symbol ID
	follow []*SymbolSet // by symbol ID
	seq    map[string]*SymbolSet
}

// Analysis computes FIRST and FOLLOW for all symbols of g.
func Analysis(g *Grammar) *LLAnalysis {
	ga := &LLAnalysis{
		g:      g,
		first:  make([]*SymbolSet, len(g.symbols)),
		follow: make([]*SymbolSet, len(g.symbols)),
		seq:    make(map[string]*SymbolSet),
	}
	ga.computeFirst()
	ga.computeFollow()
	return ga
}

// Grammar returns the grammar this analysis is for.
func (ga *LLAnalysis) Grammar() *Grammar {
	return ga.g
}

// First returns FIRST(A). For a terminal a, this is {a}; FIRST(ε) = {ε}.
func (ga *LLAnalysis) First(A *Symbol) *SymbolSet {
	if A.ID >= len(ga.first) {
		return newSymbolSet()
	}
	return ga.first[A.ID]
}

// Nullable is true if A derives the empty string.
func (ga *LLAnalysis) Nullable(A *Symbol) bool {
	return ga.First(A).ContainsEpsilon()
}

// Follow returns FOLLOW(A) for a non-terminal A. FOLLOW(S*) contains the end marker.
func (ga *LLAnalysis) Follow(A *Symbol) *SymbolSet {
	if A.ID >= len(ga.follow) || ga.follow[A.ID] == nil {
		return newSymbolSet()
	}
	return ga.follow[A.ID]
}

// FirstOfSequence returns FIRST(X1 X2 … Xn). FIRST of the empty sequence is {ε}.
// Clients must not modify the result.
func (ga *LLAnalysis) FirstOfSequence(syms []*Symbol) *SymbolSet {
	key := sequenceKey(syms)
	if F, ok := ga.seq[key]; ok {
		return F
	}
	F := firstOfSequence(ga.first, syms)
	ga.seq[key] = F
	return F
}

func sequenceKey(syms []*Symbol) string {
	var b strings.Builder
	for _, A := range syms {
		b.WriteString(strconv.Itoa(A.ID))
		b.WriteByte(',')
	}
	return b.String()
}

// firstOfSequence extends over the sequence while the prefix is nullable.
func firstOfSequence(first []*SymbolSet, syms []*Symbol) *SymbolSet {
	F := newSymbolSet()
	for _, A := range syms {
		if A.IsEpsilon() {
			continue
		}
		FA := first[A.ID]
		if FA == nil {
			return F
		}
		F.Union(FA, EpsilonID)
		if !FA.ContainsEpsilon() {
			return F
		}
	}
	F.Add(EpsilonID)
	return F
}

// computeFirst iterates over all rules until no FIRST set grows any more.
func (ga *LLAnalysis) computeFirst() {
	for _, A := range ga.g.symbols {
		if A.IsTerminal() {
			ga.first[A.ID] = newSymbolSet(A.ID)
		} else {
			ga.first[A.ID] = newSymbolSet()
		}
	}
	nts := ga.g.Nonterminals()
	for changed := true; changed; {
		changed = false
		for _, N := range nts {
			for _, r := range ga.g.Rules(N) {
				if ga.first[N.ID].Union(firstOfSequence(ga.first, r.rhs)) {
					changed = true
				}
			}
		}
	}
}

// computeFollow iterates over all rules until no FOLLOW set grows any more.
// For a rule N ➞ α B β, FIRST(β)\{ε} is added to FOLLOW(B); if β is nullable,
// FOLLOW(N) is added as well.
func (ga *LLAnalysis) computeFollow() {
	nts := ga.g.Nonterminals()
	for _, N := range nts {
		ga.follow[N.ID] = newSymbolSet()
	}
	ga.follow[ga.g.start.ID].Add(EndMarkerID)
	for changed := true; changed; {
		changed = false
		for _, N := range nts {
			for _, r := range ga.g.Rules(N) {
				for i, B := range r.rhs {
					if B.IsTerminal() {
						continue
					}
					Fβ := firstOfSequence(ga.first, r.rhs[i+1:])
					if ga.follow[B.ID].Union(Fβ, EpsilonID) {
						changed = true
					}
					if Fβ.ContainsEpsilon() && ga.follow[B.ID].Union(ga.follow[N.ID]) {
						changed = true
					}
				}
			}
		}
	}
}

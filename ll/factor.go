package ll

import (
	"fmt"
)

// Factor transforms g in place until no non-terminal has two alternatives whose
// FIRST sets share a terminal.
//
// Alternatives starting with the same symbol are factored into a synthetic
// non-terminal holding the suffixes. If alternatives with different leading
// symbols still compete for a terminal, the leading non-terminal of one of them
// is replaced by its productions, which makes the shared prefix explicit for
// the next round of factoring. Substituting a non-terminal into itself or into
// one of the non-terminals it has been split from fails with a
// *GrammarConflictError; this is what happens for left-recursive rules.
//
// Synthetic non-terminals which are no longer reachable afterwards are pruned.
func Factor(ctx *CompileContext, g *Grammar) error {
	for _, N := range g.Nonterminals() {
		if err := factorNonterminal(ctx, g, N, Visited{}, 0); err != nil {
			return err
		}
	}
	pruneUnreachable(g)
	return nil
}

// factorNonterminal factors the alternatives of N. visited holds N's ancestors on
// the current factoring path and is passed by value.
func factorNonterminal(ctx *CompileContext, g *Grammar, N *Symbol, visited Visited, depth int) error {
	if depth > ctx.MaxDepth {
		return &GrammarConflictError{
			Nonterminal: N.Name,
			Reason:      fmt.Sprintf("factoring exceeds depth %d", ctx.MaxDepth),
		}
	}
	visited = visited.With(N)
	for steps := 0; ; steps++ {
		if steps > ctx.MaxDepth*len(g.symbols) {
			return &GrammarConflictError{
				Nonterminal: N.Name,
				Reason:      "substitution does not terminate",
			}
		}
		if M, ok := factorCommonLead(ctx, g, N); ok {
			tracer().Debugf("factored %s into %s", N, M)
			if err := factorNonterminal(ctx, g, M, visited, depth+1); err != nil {
				return err
			}
			continue
		}
		a, conflicting, ok := firstConflict(ctx, g, N)
		if !ok {
			return nil
		}
		i, ok := substitutionCandidate(g, N, conflicting, visited)
		if !ok {
			return &GrammarConflictError{
				Nonterminal: N.Name,
				Terminal:    a.Name,
				Reason:      "alternatives cannot be factored (left recursion?)",
			}
		}
		substitute(g, N, i)
	}
}

// factorCommonLead finds the first group of ≥2 alternatives of N starting with
// the same symbol and replaces it by a single alternative 'lead M', where the
// synthetic M receives the suffixes.
func factorCommonLead(ctx *CompileContext, g *Grammar, N *Symbol) (*Symbol, bool) {
	alts := g.Alternatives(N)
	group, ok := firstCommonLeadGroup(alts)
	if !ok {
		return nil, false
	}
	lead := alts[group[0]][0]
	M := g.Synthetic(ctx, fmt.Sprintf("%s_%s", N.Name, lead.Name))
	suffixes := make([][]*Symbol, len(group))
	for k, i := range group {
		suffixes[k] = alts[i][1:]
	}
	g.SetRules(M, suffixes)
	factored := make([][]*Symbol, 0, len(alts)-len(group)+1)
	for i, alt := range alts {
		if i == group[0] {
			factored = append(factored, []*Symbol{lead, M})
		} else if !isOneOf(i, group) {
			factored = append(factored, alt)
		}
	}
	g.SetRules(N, factored)
	return M, true
}

// firstCommonLeadGroup returns the indices of the first group of non-empty
// alternatives sharing their leading symbol, in order of first appearance.
func firstCommonLeadGroup(alts [][]*Symbol) ([]int, bool) {
	for i, alt := range alts {
		if len(alt) == 0 || alt[0].IsEpsilon() {
			continue
		}
		group := []int{i}
		for j := i + 1; j < len(alts); j++ {
			if len(alts[j]) > 0 && alts[j][0] == alt[0] {
				group = append(group, j)
			}
		}
		if len(group) > 1 {
			return group, true
		}
	}
	return nil, false
}

// firstConflict finds the first terminal which is in FIRST of two or more
// alternatives of N. Alternatives are checked in order, terminals in ID order.
func firstConflict(ctx *CompileContext, g *Grammar, N *Symbol) (*Symbol, []int, bool) {
	ga := ctx.Analysis(g)
	rules := g.Rules(N)
	claims := make(map[int][]int)
	var order []int
	for i, r := range rules {
		for _, a := range ga.FirstOfSequence(r.rhs).AppendTo(nil) {
			if a == EpsilonID {
				continue
			}
			if _, ok := claims[a]; !ok {
				order = append(order, a)
			}
			claims[a] = append(claims[a], i)
		}
	}
	for _, a := range order {
		if len(claims[a]) > 1 {
			return g.Symbol(a), claims[a], true
		}
	}
	return nil, nil, false
}

// substitutionCandidate finds the first conflicting alternative starting with a
// non-terminal which may be substituted: neither N itself nor an ancestor of N.
func substitutionCandidate(g *Grammar, N *Symbol, conflicting []int, visited Visited) (int, bool) {
	rules := g.Rules(N)
	for _, i := range conflicting {
		rhs := rules[i].rhs
		if len(rhs) == 0 || rhs[0].IsTerminal() {
			continue
		}
		if X := rhs[0]; X != N && !visited.Contains(X) {
			return i, true
		}
	}
	return -1, false
}

// substitute replaces alternative i of N, X γ, by the alternatives δ γ for every
// production X ➞ δ.
func substitute(g *Grammar, N *Symbol, i int) {
	alts := g.Alternatives(N)
	X, γ := alts[i][0], alts[i][1:]
	tracer().Debugf("substituting %s in alternative %d of %s", X, i, N)
	result := make([][]*Symbol, 0, len(alts)+len(g.Rules(X)))
	result = append(result, alts[:i]...)
	for _, δ := range g.Alternatives(X) {
		alt := make([]*Symbol, 0, len(δ)+len(γ))
		alt = append(alt, δ...)
		alt = append(alt, γ...)
		result = append(result, alt)
	}
	result = append(result, alts[i+1:]...)
	g.SetRules(N, result)
}

func pruneUnreachable(g *Grammar) {
	reached := g.Reachable()
	g.EachNonterminal(func(N *Symbol) {
		if N.synthetic && !reached.Contains(N) {
			tracer().Debugf("pruning unreachable %s", N)
			g.prune(N)
		}
	})
}

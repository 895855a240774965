package tags

import (
	"fmt"
	"strings"

	"github.com/npillmayer/tagll/ll"
)

// factorCommonPrefixes factors alternatives of every rule which start with the
// same symbol, tag-originated or not. A group of such alternatives is replaced
// by 'prefix NEW', where prefix is the longest common prefix of the group and
// NEW receives the distinct suffixes. The group takes the position of its
// first member.
func (e *expander) factorCommonPrefixes() {
	queue := e.pendingRules()
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for {
			group, ok := firstPrefixGroup(p.alts)
			if !ok {
				break
			}
			prefix := longestCommonPrefix(p.alts, group)
			child := e.newRule(e.factorRule(p, prefix))
			for _, i := range group {
				child.add(p.alts[i][len(prefix):])
			}
			var alts []alternative
			for i, alt := range p.alts {
				if i == group[0] {
					factored := append(alternative{}, prefix...)
					alts = append(alts, append(factored, item{sym: child.lhs}))
				} else if !isMember(i, group) {
					alts = append(alts, alt)
				}
			}
			p.alts = alts
			tracer().Debugf("factored prefix %v of %s into %s", prefix.symbols(), p.lhs, child.lhs)
			queue = append(queue, child)
		}
	}
}

func (e *expander) factorRule(p *pending, prefix alternative) (PrefixRule, *ll.Symbol) {
	name := p.lhs.Name + "_FACT"
	if n := e.ctx.NextChild(name); n > 1 {
		name = fmt.Sprintf("%s%d", name, n)
	}
	N := e.g.Synthetic(e.ctx, name)
	var names []string
	for _, it := range prefix {
		names = append(names, it.sym.Name)
	}
	return PrefixRule{NT: N.Name, Parent: p.lhs.Name, Prefix: strings.Join(names, " ")}, N
}

// firstPrefixGroup returns the indices of the first group of ≥2 non-empty
// alternatives sharing their leading symbol.
func firstPrefixGroup(alts []alternative) ([]int, bool) {
	for i, alt := range alts {
		if len(alt) == 0 {
			continue
		}
		group := []int{i}
		for j := i + 1; j < len(alts); j++ {
			if leadID(alts[j]) == alt[0].sym.ID {
				group = append(group, j)
			}
		}
		if len(group) > 1 {
			return group, true
		}
	}
	return nil, false
}

// longestCommonPrefix compares the alternatives of a group position by position.
// The group shares at least its leading symbol.
func longestCommonPrefix(alts []alternative, group []int) alternative {
	first := alts[group[0]]
	n := len(first)
	for _, i := range group[1:] {
		alt := alts[i]
		k := 0
		for k < n && k < len(alt) && alt[k].sym == first[k].sym {
			k++
		}
		n = k
	}
	return first[:n]
}

func isMember(i int, group []int) bool {
	for _, j := range group {
		if i == j {
			return true
		}
	}
	return false
}

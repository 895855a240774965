package tags

import (
	"fmt"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/npillmayer/tagll/ll"
)

// RuleKey identifies a rule of an expansion. It is either a MainRule, for
// non-terminals of the authored grammar, or a PrefixRule, for synthetic
// non-terminals holding the continuations after a common prefix.
type RuleKey interface {
	Nonterminal() string
	isRuleKey()
}

// MainRule is the key of an authored non-terminal.
type MainRule struct {
	NT string
}

// Nonterminal is part of interface RuleKey.
func (k MainRule) Nonterminal() string { return k.NT }
func (k MainRule) isRuleKey()          {}

// PrefixRule is the key of a synthetic non-terminal NT, which continues rule
// Parent after Prefix.
type PrefixRule struct {
	NT     string
	Parent string
	Prefix string
}

// Nonterminal is part of interface RuleKey.
func (k PrefixRule) Nonterminal() string { return k.NT }
func (k PrefixRule) isRuleKey()          {}

// SubTokenizer splits text into vocabulary strings.
type SubTokenizer interface {
	Tokenize(text string) []string
}

// Expansion is the result of expanding an authored grammar.
type Expansion struct {
	Grammar *ll.Grammar
	rules   *linkedhashmap.Map // RuleKey → *pending, in order of creation
	keys    map[int]RuleKey    // by symbol ID
}

// Key returns the rule key of non-terminal N.
func (x *Expansion) Key(N *ll.Symbol) (RuleKey, bool) {
	k, ok := x.keys[N.ID]
	return k, ok
}

// EachRule iterates over the rule keys in order of creation.
func (x *Expansion) EachRule(f func(key RuleKey, N *ll.Symbol)) {
	it := x.rules.Iterator()
	for it.Next() {
		p := it.Value().(*pending)
		if p.lhs.IsSynthetic() {
			if _, live := x.Grammar.LookupNonterminal(p.lhs.Name); !live {
				continue
			}
		}
		f(it.Key().(RuleKey), p.lhs)
	}
}

// --- Working representation ------------------------------------------------

// item is a grammar symbol in an alternative under expansion. Sub-tokens of
// tags are marked, as only they take part in building the tag trie.
type item struct {
	sym     *ll.Symbol
	fromTag bool
}

type alternative []item

func (alt alternative) symbols() []*ll.Symbol {
	syms := make([]*ll.Symbol, len(alt))
	for i, it := range alt {
		syms[i] = it.sym
	}
	return syms
}

func (alt alternative) equals(other alternative) bool {
	if len(alt) != len(other) {
		return false
	}
	for i := range alt {
		if alt[i].sym != other[i].sym {
			return false
		}
	}
	return true
}

type pending struct {
	key  RuleKey
	lhs  *ll.Symbol
	alts []alternative
}

func (p *pending) add(alt alternative) {
	p.alts = appendDistinct(p.alts, alt)
}

func appendDistinct(alts []alternative, alt alternative) []alternative {
	for _, a := range alts {
		if a.equals(alt) {
			return alts
		}
	}
	return append(alts, alt)
}

type expander struct {
	ctx   *ll.CompileContext
	g     *ll.Grammar
	rules *linkedhashmap.Map
	keys  map[int]RuleKey
}

func (e *expander) newRule(key RuleKey, lhs *ll.Symbol) *pending {
	p := &pending{key: key, lhs: lhs}
	e.rules.Put(key, p)
	e.keys[lhs.ID] = key
	return p
}

func (e *expander) pendingRules() []*pending {
	list := make([]*pending, 0, e.rules.Size())
	for _, v := range e.rules.Values() {
		list = append(list, v.(*pending))
	}
	return list
}

// === Expansion =============================================================

// Expand compiles an authored grammar into an ll.Grammar. Words matching the LHS
// of an authored rule become non-terminals, all other words become terminals.
// Tag phrases are sub-tokenized with tok and factored into a trie of sub-tokens.
// Finally alternatives sharing a common prefix are factored.
//
// Expand does not guarantee that the result is LL(1); this is left to ll.Factor.
func Expand(ctx *ll.CompileContext, a *Authored, tok SubTokenizer) (*Expansion, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	e := &expander{
		ctx:   ctx,
		g:     ll.NewGrammar("tags"),
		rules: linkedhashmap.New(),
		keys:  make(map[int]RuleKey),
	}
	for _, r := range a.Rules() { // intern authored non-terminals first
		e.newRule(MainRule{NT: r.LHS}, e.g.Nonterminal(r.LHS))
	}
	for _, r := range a.Rules() {
		v, _ := e.rules.Get(MainRule{NT: r.LHS})
		p := v.(*pending)
		for _, text := range r.Alternatives {
			alt, err := e.translate(a, text, tok)
			if err != nil {
				return nil, fmt.Errorf("rule %s: %w", r.LHS, err)
			}
			p.add(alt)
		}
	}
	e.buildTagTries()
	e.factorCommonPrefixes()
	for _, p := range e.pendingRules() {
		alts := make([][]*ll.Symbol, len(p.alts))
		for i, alt := range p.alts {
			alts[i] = alt.symbols()
		}
		e.g.SetRules(p.lhs, alts)
	}
	tracer().Infof("expanded %d authored rules into %d non-terminals", len(a.Rules()), e.rules.Size())
	return &Expansion{Grammar: e.g, rules: e.rules, keys: e.keys}, nil
}

// translate converts an authored alternative into symbols.
func (e *expander) translate(a *Authored, text string, tok SubTokenizer) (alternative, error) {
	items, err := SplitAlternative(text)
	if err != nil {
		return nil, err
	}
	var alt alternative
	for _, it := range items {
		switch {
		case it.IsTag:
			subtokens := tok.Tokenize(it.Text)
			if len(subtokens) == 0 {
				return nil, fmt.Errorf("tag %s has no sub-tokens", it)
			}
			tracer().Debugf("tag %s ➞ %v", it, subtokens)
			for _, st := range subtokens {
				alt = append(alt, item{sym: e.g.Terminal(st), fromTag: true})
			}
		case a.IsNonterminal(it.Text):
			alt = append(alt, item{sym: e.g.Nonterminal(it.Text)})
		default:
			alt = append(alt, item{sym: e.g.Terminal(it.Text)})
		}
	}
	return alt, nil
}

// buildTagTries groups, within every rule, the alternatives starting with a tag
// sub-token by this sub-token. Every group of two or more alternatives is replaced
// by 'subtoken NEW', where NEW holds the continuations. New rules are appended
// to the work list, so grouping continues inside them until no group is left.
func (e *expander) buildTagTries() {
	queue := e.pendingRules()
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		groups := groupTagLeads(p.alts)
		if groups.Size() == 0 {
			continue
		}
		var alts []alternative
		done := make(map[int]bool)
		for i, alt := range p.alts {
			if done[i] {
				continue
			}
			v, grouped := groups.Get(leadID(alt))
			if !grouped || len(alt) == 0 || !alt[0].fromTag {
				alts = append(alts, alt)
				continue
			}
			members := v.([]int)
			for _, j := range members {
				done[j] = true
			}
			lead := alt[0]
			var conts []alternative
			for _, j := range members {
				conts = appendDistinct(conts, p.alts[j][1:])
			}
			if len(conts) == 1 {
				alts = append(alts, append(alternative{lead}, conts[0]...))
				continue
			}
			child := e.newRule(e.prefixRule(p, lead.sym))
			for _, c := range conts {
				child.add(c)
			}
			alts = append(alts, alternative{lead, item{sym: child.lhs}})
			queue = append(queue, child)
		}
		p.alts = alts
	}
}

// prefixRule creates a synthetic non-terminal for the tag trie below p.
func (e *expander) prefixRule(p *pending, lead *ll.Symbol) (PrefixRule, *ll.Symbol) {
	var name string
	if _, isMain := p.key.(MainRule); isMain {
		i := e.ctx.NextChild(p.lhs.Name + "_TAG_NT")
		name = fmt.Sprintf("%s_TAG_NT%d", p.lhs.Name, i)
	} else {
		k := e.ctx.NextChild(p.lhs.Name)
		name = fmt.Sprintf("%s_%d", p.lhs.Name, k)
	}
	N := e.g.Synthetic(e.ctx, name)
	return PrefixRule{NT: N.Name, Parent: p.lhs.Name, Prefix: lead.Name}, N
}

// groupTagLeads maps lead sub-tokens shared by ≥2 alternatives to the indices
// of these alternatives, in order of first appearance.
func groupTagLeads(alts []alternative) *linkedhashmap.Map {
	all := linkedhashmap.New()
	for i, alt := range alts {
		if len(alt) == 0 || !alt[0].fromTag {
			continue
		}
		var members []int
		if v, ok := all.Get(leadID(alt)); ok {
			members = v.([]int)
		}
		all.Put(leadID(alt), append(members, i))
	}
	groups := linkedhashmap.New()
	it := all.Iterator()
	for it.Next() {
		if members := it.Value().([]int); len(members) > 1 {
			groups.Put(it.Key(), members)
		}
	}
	return groups
}

func leadID(alt alternative) int {
	if len(alt) == 0 {
		return -1
	}
	return alt[0].sym.ID
}

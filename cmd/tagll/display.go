package main

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/npillmayer/tagll"
	"github.com/npillmayer/tagll/guide"
	"github.com/npillmayer/tagll/ll"
	"github.com/npillmayer/tagll/tags"
	"github.com/npillmayer/tagll/vocab"
)

// printTable prints the LL(1) table, one line per cell.
func printTable(compiled *guide.Compiled) {
	data := pterm.TableData{{"Non-terminal", "Terminal", "Tokens", "Rule"}}
	compiled.Table().EachCell(func(N, a *ll.Symbol, r *ll.Rule) {
		data = append(data, []string{
			N.Name,
			a.Name,
			compiled.Tokens().Tokens(a).String(),
			strings.Join(r.RHSNames(), " "),
		})
	})
	for _, N := range compiled.Table().Nonterminals() {
		if r, ok := compiled.Table().EndRule(N); ok {
			data = append(data, []string{N.Name, "$", "", strings.Join(r.RHSNames(), " ")})
		}
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// printGrammar prints the non-terminals of the expanded grammar as a tree:
// authored non-terminals at the top, synthetic ones below the rule they
// continue.
func printGrammar(compiled *guide.Compiled) {
	x := compiled.Expansion()
	g := compiled.Grammar()
	children := make(map[string][]tags.PrefixRule)
	var roots []string
	x.EachRule(func(key tags.RuleKey, N *ll.Symbol) {
		switch k := key.(type) {
		case tags.MainRule:
			roots = append(roots, k.NT)
		case tags.PrefixRule:
			children[k.Parent] = append(children[k.Parent], k)
		}
	})
	var list pterm.LeveledList
	var add func(nt string, label string, level int)
	add = func(nt string, label string, level int) {
		list = append(list, pterm.LeveledListItem{Level: level, Text: label})
		if N, ok := g.LookupNonterminal(nt); ok {
			for _, r := range g.Rules(N) {
				list = append(list, pterm.LeveledListItem{
					Level: level + 1,
					Text:  "➞ " + strings.Join(r.RHSNames(), " "),
				})
			}
		}
		for _, k := range children[nt] {
			add(k.NT, fmt.Sprintf("%s (after %q)", k.NT, k.Prefix), level+1)
		}
	}
	for _, nt := range roots {
		add(nt, nt, 0)
	}
	// non-terminals created by LL(1) factoring have no rule key
	g.EachNonterminal(func(N *ll.Symbol) {
		if _, ok := x.Key(N); !ok {
			add(N.Name, N.Name+" (factored)", 0)
		}
	})
	root := pterm.NewTreeFromLeveledList(list)
	pterm.DefaultTree.WithRoot(root).Render()
}

// validTokens formats a set of valid tokens with their vocabulary strings.
func validTokens(valid tagll.TokenSet, v *vocab.Vocabulary) string {
	var b strings.Builder
	b.WriteString("valid:")
	for i, id := range valid.IDs() {
		if i == 20 {
			fmt.Fprintf(&b, " … (%d more)", valid.Len()-i)
			break
		}
		if s, ok := v.String(id); ok {
			fmt.Fprintf(&b, " %d=%q", id, s)
		} else {
			fmt.Fprintf(&b, " %d", id)
		}
	}
	return b.String()
}

package ll

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/lists/arraylist"
)

// StartName is the reserved name of the start symbol of every grammar.
const StartName = "S*"

// Symbol IDs reserved for epsilon and the end-of-input marker.
const (
	EpsilonID   = 0
	EndMarkerID = 1
)

// SymbolKind tells terminals from non-terminals.
type SymbolKind uint8

// Kinds of grammar symbols.
const (
	Terminal SymbolKind = iota
	Nonterminal
)

// Symbol is an interned grammar symbol. Symbols are created by a grammar and
// are identified by their ID, which is their index into the grammar's arena.
type Symbol struct {
	Name      string
	ID        int
	kind      SymbolKind
	synthetic bool // created during compilation
	pruned    bool // synthetic and no longer reachable
}

// IsTerminal is true for terminals (including ε and the end marker).
func (A *Symbol) IsTerminal() bool {
	return A.kind == Terminal
}

// Kind returns the kind of symbol A.
func (A *Symbol) Kind() SymbolKind {
	return A.kind
}

// IsSynthetic is true for non-terminals introduced during compilation.
func (A *Symbol) IsSynthetic() bool {
	return A.synthetic
}

// IsEpsilon is true for the ε pseudo-terminal.
func (A *Symbol) IsEpsilon() bool {
	return A.ID == EpsilonID
}

// IsEndMarker is true for the end-of-input marker.
func (A *Symbol) IsEndMarker() bool {
	return A.ID == EndMarkerID
}

func (A *Symbol) String() string {
	return A.Name
}

// --- Rules -----------------------------------------------------------------

// Rule is a production of a grammar: LHS ➞ RHS. A rule with an empty RHS is an
// ε-production.
type Rule struct {
	Serial int // serial number, valid after the grammar is frozen
	LHS    *Symbol
	rhs    []*Symbol
}

// RHS returns the right hand side of a rule. Clients must not modify it.
func (r *Rule) RHS() []*Symbol {
	return r.rhs
}

// IsEpsilon is true for ε-productions.
func (r *Rule) IsEpsilon() bool {
	return len(r.rhs) == 0
}

// RHSNames returns the names of the RHS symbols.
func (r *Rule) RHSNames() []string {
	names := make([]string, len(r.rhs))
	for i, A := range r.rhs {
		names[i] = A.Name
	}
	return names
}

func (r *Rule) String() string {
	return fmt.Sprintf("[%s] ::= [%s]", r.LHS.Name, strings.Join(r.RHSNames(), " "))
}

func sameSymbols(a, b []*Symbol) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// === Grammar ===============================================================

// Grammar is a context-free grammar, stored as an arena of symbols. Every
// non-terminal owns an ordered set of rules.
//
// Grammars are mutable while being compiled. After Freeze() they are read-only
// and may be shared between goroutines.
type Grammar struct {
	Name     string
	symbols  []*Symbol          // arena, index = symbol ID
	terms    map[string]*Symbol // interned terminals
	nonterms map[string]*Symbol // interned non-terminals
	rules    [][]*Rule          // rules by LHS symbol ID
	start    *Symbol
	frozen   bool
	serials  []*Rule // rules by serial, after Freeze()
	version  int     // incremented with every modification
}

// NewGrammar creates an empty grammar, holding just the start symbol and the
// pseudo-terminals for ε and end-of-input.
func NewGrammar(name string) *Grammar {
	g := &Grammar{
		Name:     name,
		terms:    make(map[string]*Symbol),
		nonterms: make(map[string]*Symbol),
	}
	g.define("ε", Terminal)
	g.define("$", Terminal)
	g.start = g.Nonterminal(StartName)
	return g
}

func (g *Grammar) define(name string, kind SymbolKind) *Symbol {
	g.mustBeMutable()
	A := &Symbol{Name: name, ID: len(g.symbols), kind: kind}
	g.symbols = append(g.symbols, A)
	g.rules = append(g.rules, nil)
	if kind == Terminal {
		g.terms[name] = A
	} else {
		g.nonterms[name] = A
	}
	g.version++
	return A
}

func (g *Grammar) mustBeMutable() {
	if g.frozen {
		panic(fmt.Sprintf("attempt to modify frozen grammar %q", g.Name))
	}
}

// Start returns the start symbol S*.
func (g *Grammar) Start() *Symbol {
	return g.start
}

// Epsilon returns the ε pseudo-terminal.
func (g *Grammar) Epsilon() *Symbol {
	return g.symbols[EpsilonID]
}

// EndMarker returns the end-of-input pseudo-terminal.
func (g *Grammar) EndMarker() *Symbol {
	return g.symbols[EndMarkerID]
}

// Terminal finds a terminal in the grammar, inserts a new one if not found.
func (g *Grammar) Terminal(name string) *Symbol {
	if A, found := g.terms[name]; found {
		return A
	}
	return g.define(name, Terminal)
}

// Nonterminal finds a non-terminal in the grammar, inserts a new one if not found.
func (g *Grammar) Nonterminal(name string) *Symbol {
	if A, found := g.nonterms[name]; found {
		return A
	}
	return g.define(name, Nonterminal)
}

// Synthetic creates a new non-terminal introduced by a grammar transformation.
// If the name is already taken, a fresh one is derived from it.
func (g *Grammar) Synthetic(ctx *CompileContext, name string) *Symbol {
	name = ctx.FreshName(g, name)
	A := g.define(name, Nonterminal)
	A.synthetic = true
	return A
}

// LookupTerminal finds a terminal by name.
func (g *Grammar) LookupTerminal(name string) (*Symbol, bool) {
	A, ok := g.terms[name]
	return A, ok
}

// LookupNonterminal finds a non-terminal by name.
func (g *Grammar) LookupNonterminal(name string) (*Symbol, bool) {
	A, ok := g.nonterms[name]
	if ok && A.pruned {
		return nil, false
	}
	return A, ok
}

// Symbol returns the symbol with a given ID.
func (g *Grammar) Symbol(id int) *Symbol {
	if id < 0 || id >= len(g.symbols) {
		return nil
	}
	return g.symbols[id]
}

// SymbolCount returns the size of the symbol arena.
func (g *Grammar) SymbolCount() int {
	return len(g.symbols)
}

// AddRule appends a rule for non-terminal lhs. Rule sets are ordered sets: if an
// identical rule exists, it is returned instead and the second return value
// is false.
func (g *Grammar) AddRule(lhs *Symbol, rhs ...*Symbol) (*Rule, bool) {
	g.mustBeMutable()
	if lhs.IsTerminal() {
		panic(fmt.Sprintf("cannot add rule for terminal %s", lhs))
	}
	for _, r := range g.rules[lhs.ID] {
		if sameSymbols(r.rhs, rhs) {
			return r, false
		}
	}
	r := &Rule{LHS: lhs, rhs: append([]*Symbol(nil), rhs...)}
	g.rules[lhs.ID] = append(g.rules[lhs.ID], r)
	g.version++
	return r, true
}

// SetRules replaces all the rules of a non-terminal by a list of alternatives.
// Duplicate alternatives are dropped.
func (g *Grammar) SetRules(lhs *Symbol, alternatives [][]*Symbol) {
	g.mustBeMutable()
	g.rules[lhs.ID] = nil
	for _, rhs := range alternatives {
		g.AddRule(lhs, rhs...)
	}
	g.version++
}

// Rules returns the rules of non-terminal A, in order of insertion.
func (g *Grammar) Rules(A *Symbol) []*Rule {
	if A == nil || A.ID >= len(g.rules) {
		return nil
	}
	return g.rules[A.ID]
}

// Alternatives returns copies of the right hand sides of A's rules.
func (g *Grammar) Alternatives(A *Symbol) [][]*Symbol {
	rules := g.Rules(A)
	alts := make([][]*Symbol, len(rules))
	for i, r := range rules {
		alts[i] = append([]*Symbol(nil), r.rhs...)
	}
	return alts
}

// Rule returns the rule with a given serial number. The grammar has to be frozen.
func (g *Grammar) Rule(serial int) *Rule {
	if !g.frozen || serial < 0 || serial >= len(g.serials) {
		return nil
	}
	return g.serials[serial]
}

// RuleCount returns the number of rules of a frozen grammar.
func (g *Grammar) RuleCount() int {
	return len(g.serials)
}

// EachNonterminal iterates over all live non-terminals, in order of creation.
func (g *Grammar) EachNonterminal(mapper func(N *Symbol)) {
	for _, A := range g.symbols {
		if !A.IsTerminal() && !A.pruned {
			mapper(A)
		}
	}
}

// EachTerminal iterates over all terminals, except ε and the end marker.
func (g *Grammar) EachTerminal(mapper func(a *Symbol)) {
	for _, A := range g.symbols[EndMarkerID+1:] {
		if A.IsTerminal() {
			mapper(A)
		}
	}
}

// Nonterminals returns all live non-terminals, in order of creation.
func (g *Grammar) Nonterminals() []*Symbol {
	list := arraylist.New()
	g.EachNonterminal(func(N *Symbol) {
		list.Add(N)
	})
	nts := make([]*Symbol, 0, list.Size())
	it := list.Iterator()
	for it.Next() {
		nts = append(nts, it.Value().(*Symbol))
	}
	return nts
}

// prune drops a synthetic non-terminal which is no longer reachable.
func (g *Grammar) prune(A *Symbol) {
	g.mustBeMutable()
	A.pruned = true
	g.rules[A.ID] = nil
	g.version++
}

// IsFrozen is true if the grammar is read-only.
func (g *Grammar) IsFrozen() bool {
	return g.frozen
}

// Freeze checks the grammar for completeness, numbers the rules and makes the
// grammar read-only. Every non-terminal referenced by a rule has to have at
// least one rule of its own. Freeze may be called more than once.
func (g *Grammar) Freeze() error {
	if g.frozen {
		return nil
	}
	var undefined []string
	g.EachNonterminal(func(N *Symbol) {
		if len(g.rules[N.ID]) == 0 {
			undefined = append(undefined, N.Name)
		}
	})
	if len(undefined) > 0 {
		return fmt.Errorf("grammar %q: non-terminals without rules: %s",
			g.Name, strings.Join(undefined, ", "))
	}
	g.serials = g.serials[:0]
	g.EachNonterminal(func(N *Symbol) {
		for _, r := range g.rules[N.ID] {
			r.Serial = len(g.serials)
			g.serials = append(g.serials, r)
		}
	})
	g.frozen = true
	tracer().Debugf("grammar %q frozen with %d rules", g.Name, len(g.serials))
	return nil
}

// Dump is a debugging helper, writing the rules of a grammar to the tracer.
func (g *Grammar) Dump() {
	tracer().Debugf("--- grammar %s ------------------------------", g.Name)
	n := 0
	g.EachNonterminal(func(N *Symbol) {
		for _, r := range g.rules[N.ID] {
			tracer().Debugf("%3d: %s", n, r)
			n++
		}
	})
	tracer().Debugf("-------------------------------------------------")
}

// --- Grammar builder -------------------------------------------------------

// GrammarBuilder is a helper to construct grammars rule by rule:
//
//    b := NewGrammarBuilder("G")
//    b.LHS("S*").N("A").T("a").End()  // S* ➞ A a
//    b.LHS("A").Epsilon()             // A  ➞ ε
//    g, err := b.Grammar()
//
type GrammarBuilder struct {
	g   *Grammar
	lhs *Symbol
	rhs []*Symbol
}

// NewGrammarBuilder creates a builder for a new grammar.
func NewGrammarBuilder(name string) *GrammarBuilder {
	return &GrammarBuilder{g: NewGrammar(name)}
}

// LHS starts a new rule for non-terminal name.
func (b *GrammarBuilder) LHS(name string) *GrammarBuilder {
	b.lhs = b.g.Nonterminal(name)
	b.rhs = nil
	return b
}

// N appends a non-terminal to the current rule.
func (b *GrammarBuilder) N(name string) *GrammarBuilder {
	b.rhs = append(b.rhs, b.g.Nonterminal(name))
	return b
}

// T appends a terminal to the current rule.
func (b *GrammarBuilder) T(name string) *GrammarBuilder {
	b.rhs = append(b.rhs, b.g.Terminal(name))
	return b
}

// End completes the current rule.
func (b *GrammarBuilder) End() *Rule {
	if b.lhs == nil {
		panic("grammar builder: rule without LHS")
	}
	r, _ := b.g.AddRule(b.lhs, b.rhs...)
	b.lhs, b.rhs = nil, nil
	return r
}

// Epsilon completes the current rule as an ε-production.
func (b *GrammarBuilder) Epsilon() *Rule {
	b.rhs = nil
	return b.End()
}

// Grammar returns the grammar under construction. It is not yet frozen.
func (b *GrammarBuilder) Grammar() (*Grammar, error) {
	if len(b.g.Rules(b.g.start)) == 0 {
		return nil, fmt.Errorf("grammar %q has no rules for start symbol %s", b.g.Name, StartName)
	}
	return b.g, nil
}

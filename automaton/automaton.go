package automaton

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/stacks/arraystack"

	"github.com/npillmayer/tagll"
	"github.com/npillmayer/tagll/ll"
	"github.com/npillmayer/tagll/vocab"
)

// RuntimeAmbiguousTokenError is reported if a token does not map to exactly one
// terminal of the current frontier.
type RuntimeAmbiguousTokenError struct {
	Token      tagll.TokenID
	Candidates []string
}

func (e *RuntimeAmbiguousTokenError) Error() string {
	if len(e.Candidates) == 0 {
		return fmt.Sprintf("token %d is not valid here", e.Token)
	}
	return fmt.Sprintf("token %d is ambiguous, may be one of %s", e.Token, strings.Join(e.Candidates, ", "))
}

// RuntimeMismatchError is reported if the stack does not allow to derive the
// terminal of an accepted token.
type RuntimeMismatchError struct {
	Expected string
	Got      string
}

func (e *RuntimeMismatchError) Error() string {
	return fmt.Sprintf("expected %s, got %s", e.Expected, e.Got)
}

// Automaton is the per-sequence LL(1) stack machine.
type Automaton struct {
	table    *ll.ParsingTable
	tokens   *vocab.TerminalTokenMap
	eos      tagll.TokenID
	stack    *arraystack.Stack // of *ll.Symbol
	journal  []edit
	frontier []*ll.Symbol // cached, valid if !dirty
	dirty    bool
	err      error // set if the stack is stuck
}

// edit is a journaled stack operation.
type edit struct {
	push bool
	sym  *ll.Symbol
}

// New creates an automaton with the start symbol on its stack.
func New(table *ll.ParsingTable, tokens *vocab.TerminalTokenMap, eos tagll.TokenID) *Automaton {
	A := &Automaton{
		table:  table,
		tokens: tokens,
		eos:    eos,
	}
	A.Reset()
	return A
}

// Reset puts the automaton back into its initial state.
func (A *Automaton) Reset() {
	A.stack = arraystack.New()
	A.stack.Push(A.table.Grammar().Start())
	A.err = A.skipEndOnly()
	A.journal = A.journal[:0]
	A.dirty = true
}

// IsAccepting is true if the stack is empty.
func (A *Automaton) IsAccepting() bool {
	return A.stack.Empty()
}

// Stack returns the symbols on the stack, top first.
func (A *Automaton) Stack() []*ll.Symbol {
	values := A.stack.Values()
	syms := make([]*ll.Symbol, len(values))
	for i, v := range values {
		syms[i] = v.(*ll.Symbol)
	}
	return syms
}

func (A *Automaton) top() (*ll.Symbol, bool) {
	v, ok := A.stack.Peek()
	if !ok {
		return nil, false
	}
	return v.(*ll.Symbol), true
}

// Frontier returns the terminals which may come next. It is empty if and only
// if the automaton is accepting.
func (A *Automaton) Frontier() []*ll.Symbol {
	if !A.dirty {
		return A.frontier
	}
	A.frontier = nil
	if top, ok := A.top(); ok {
		_ = ll.Walk([]*ll.Symbol{top}, func(N *ll.Symbol) []*ll.Symbol {
			if N.IsTerminal() {
				return nil
			}
			return A.table.Row(N)
		}, func(a *ll.Symbol, _ int) error {
			if a.IsTerminal() {
				A.frontier = append(A.frontier, a)
			}
			return nil
		}, 0)
	}
	A.dirty = false
	return A.frontier
}

// ValidTokenIDs returns the token IDs which may be generated next. If the
// automaton is accepting, this is the end-of-sequence token only. If the rest of
// the stack may derive the empty string, end-of-sequence is valid, too.
//
// The token sets of the frontier's terminals are checked to be disjoint.
func (A *Automaton) ValidTokenIDs() (tagll.TokenSet, error) {
	if A.err != nil {
		return tagll.TokenSet{}, A.err
	}
	if A.IsAccepting() {
		return tagll.NewTokenSet(A.eos), nil
	}
	frontier := A.Frontier()
	if len(frontier) == 0 {
		top, _ := A.top()
		return tagll.TokenSet{}, &RuntimeMismatchError{Expected: top.Name, Got: "nothing"}
	}
	sets := make([]tagll.TokenSet, 0, len(frontier)+1)
	owner := make(map[tagll.TokenID]*ll.Symbol)
	for _, a := range frontier {
		ids := A.tokens.Tokens(a)
		for _, id := range ids.IDs() {
			if b, taken := owner[id]; taken {
				return tagll.TokenSet{}, &RuntimeAmbiguousTokenError{
					Token:      id,
					Candidates: []string{b.Name, a.Name},
				}
			}
			owner[id] = a
		}
		sets = append(sets, ids)
	}
	if A.canEnd() {
		if b, taken := owner[A.eos]; taken {
			return tagll.TokenSet{}, &RuntimeAmbiguousTokenError{
				Token:      A.eos,
				Candidates: []string{b.Name, "end of sequence"},
			}
		}
		sets = append(sets, tagll.NewTokenSet(A.eos))
	}
	return tagll.Union(sets...), nil
}

// canEnd is true if every symbol on the stack may derive ε at the end of input.
func (A *Automaton) canEnd() bool {
	for _, N := range A.Stack() {
		if N.IsTerminal() {
			return false
		}
		if _, ok := A.table.EndRule(N); !ok {
			return false
		}
	}
	return true
}

// Accept advances the automaton by one token. If the token is not valid in the
// current state, an error is returned and the stack remains unchanged.
func (A *Automaton) Accept(id tagll.TokenID) error {
	if A.err != nil {
		return A.err
	}
	if A.IsAccepting() {
		if id == A.eos {
			return nil
		}
		return &RuntimeAmbiguousTokenError{Token: id}
	}
	terminal, err := A.resolve(id)
	if err != nil {
		if id == A.eos && A.canEnd() {
			tracer().Debugf("end of sequence")
			A.stack.Clear()
			A.dirty = true
			return nil
		}
		return err
	}
	A.journal = A.journal[:0]
	if err = A.derive(terminal); err != nil {
		A.rollback()
		return err
	}
	if err = A.skipEndOnly(); err != nil {
		A.rollback()
		return err
	}
	A.dirty = true
	return nil
}

// resolve finds the single terminal of the frontier which token id maps to.
func (A *Automaton) resolve(id tagll.TokenID) (*ll.Symbol, error) {
	frontier := A.Frontier()
	var candidates []*ll.Symbol
	for _, t := range A.tokens.TerminalsFor(id) {
		for _, a := range frontier {
			if a.ID == t {
				candidates = append(candidates, a)
			}
		}
	}
	if len(candidates) != 1 {
		names := make([]string, len(candidates))
		for i, a := range candidates {
			names[i] = a.Name
		}
		return nil, &RuntimeAmbiguousTokenError{Token: id, Candidates: names}
	}
	return candidates[0], nil
}

// derive expands non-terminals on top of the stack until terminal is on top,
// then pops it.
func (A *Automaton) derive(terminal *ll.Symbol) error {
	limit := A.table.Grammar().SymbolCount()
	for depth := 0; depth <= limit; depth++ {
		top, ok := A.pop()
		if !ok {
			return &RuntimeMismatchError{Expected: "end of sequence", Got: terminal.Name}
		}
		if top.IsTerminal() {
			if top != terminal {
				return &RuntimeMismatchError{Expected: top.Name, Got: terminal.Name}
			}
			return nil
		}
		r, ok := A.table.Lookup(top, terminal)
		if !ok {
			return &RuntimeMismatchError{Expected: top.Name, Got: terminal.Name}
		}
		tracer().Debugf("expand %v", r)
		A.pushRHS(r)
	}
	return &RuntimeMismatchError{Expected: "bounded derivation", Got: terminal.Name}
}

// skipEndOnly pops non-terminals which have nothing left to do but derive ε at
// the end of input. This keeps the frontier non-empty for every non-empty stack.
func (A *Automaton) skipEndOnly() error {
	for {
		top, ok := A.top()
		if !ok || top.IsTerminal() || len(A.table.Row(top)) > 0 {
			return nil
		}
		if _, ok = A.table.EndRule(top); !ok {
			return &RuntimeMismatchError{Expected: top.Name, Got: "nothing"}
		}
		A.pop()
	}
}

func (A *Automaton) pop() (*ll.Symbol, bool) {
	v, ok := A.stack.Pop()
	if !ok {
		return nil, false
	}
	sym := v.(*ll.Symbol)
	A.journal = append(A.journal, edit{push: false, sym: sym})
	return sym, true
}

func (A *Automaton) pushRHS(r *ll.Rule) {
	rhs := r.RHS()
	for i := len(rhs) - 1; i >= 0; i-- {
		if rhs[i].IsEpsilon() {
			continue
		}
		A.stack.Push(rhs[i])
		A.journal = append(A.journal, edit{push: true, sym: rhs[i]})
	}
}

// rollback undoes all journaled stack edits.
func (A *Automaton) rollback() {
	for i := len(A.journal) - 1; i >= 0; i-- {
		if A.journal[i].push {
			A.stack.Pop()
		} else {
			A.stack.Push(A.journal[i].sym)
		}
	}
	A.journal = A.journal[:0]
	A.dirty = true
}

func (A *Automaton) String() string {
	var b strings.Builder
	b.WriteString("[")
	for i, sym := range A.Stack() {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(sym.Name)
	}
	b.WriteString("]")
	return b.String()
}

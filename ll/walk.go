package ll

import "fmt"

// Visited is a set of symbols already seen on a path through a grammar. It has
// value semantics: With returns an extended copy, leaving the receiver untouched,
// which makes it suitable to be handed down recursive branches.
type Visited map[int]struct{}

// Contains checks if A has been visited.
func (v Visited) Contains(A *Symbol) bool {
	_, ok := v[A.ID]
	return ok
}

// With returns a copy of v extended by A.
func (v Visited) With(A *Symbol) Visited {
	w := make(Visited, len(v)+1)
	for id := range v {
		w[id] = struct{}{}
	}
	w[A.ID] = struct{}{}
	return w
}

// ErrDepthExceeded is returned by Walk if a walk gets deeper than allowed.
type ErrDepthExceeded struct {
	Symbol *Symbol
	Depth  int
}

func (e ErrDepthExceeded) Error() string {
	return fmt.Sprintf("grammar walk exceeds depth %d at %s", e.Depth, e.Symbol)
}

// Walk is a cycle-safe depth-first traversal over grammar symbols. Starting from
// a list of symbols, successors are produced by succ. Every symbol is visited at
// most once; visit receives the symbol and its depth. A non-nil error from visit
// stops the walk and is returned. maxDepth > 0 bounds the depth of the walk.
//
// Walk is the one traversal primitive used for reachability, frontier flattening
// and derivation checks.
func Walk(start []*Symbol, succ func(*Symbol) []*Symbol,
	visit func(A *Symbol, depth int) error, maxDepth int) error {
	//
	seen := make(map[int]struct{})
	var walk func(A *Symbol, depth int) error
	walk = func(A *Symbol, depth int) error {
		if _, ok := seen[A.ID]; ok {
			return nil
		}
		if maxDepth > 0 && depth > maxDepth {
			return ErrDepthExceeded{Symbol: A, Depth: maxDepth}
		}
		seen[A.ID] = struct{}{}
		if err := visit(A, depth); err != nil {
			return err
		}
		for _, B := range succ(A) {
			if err := walk(B, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	for _, A := range start {
		if err := walk(A, 0); err != nil {
			return err
		}
	}
	return nil
}

// RuleSuccessors returns a successor function for Walk, following all symbols
// on the right hand sides of rules.
func (g *Grammar) RuleSuccessors() func(*Symbol) []*Symbol {
	return func(A *Symbol) []*Symbol {
		var succ []*Symbol
		for _, r := range g.Rules(A) {
			succ = append(succ, r.rhs...)
		}
		return succ
	}
}

// Reachable returns the set of symbols reachable from the start symbol.
func (g *Grammar) Reachable() Visited {
	reached := Visited{}
	_ = Walk([]*Symbol{g.start}, g.RuleSuccessors(), func(A *Symbol, _ int) error {
		reached[A.ID] = struct{}{}
		return nil
	}, 0)
	return reached
}

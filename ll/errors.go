package ll

import "fmt"

// GrammarConflictError is reported if a grammar cannot be brought into LL(1) form:
// two rules claim the same table cell, or factoring ran into recursion. For table
// cell conflicts, Existing and Conflicting name the rules involved.
type GrammarConflictError struct {
	Nonterminal string
	Terminal    string
	Existing    string
	Conflicting string
	Reason      string
}

func (e *GrammarConflictError) Error() string {
	if e.Existing != "" {
		return fmt.Sprintf("LL(1) conflict at (%s, %s): %s vs. %s",
			e.Nonterminal, e.Terminal, e.Existing, e.Conflicting)
	}
	if e.Terminal == "" {
		return fmt.Sprintf("LL(1) conflict for %s: %s", e.Nonterminal, e.Reason)
	}
	return fmt.Sprintf("LL(1) conflict for %s on %s: %s", e.Nonterminal, e.Terminal, e.Reason)
}

package ll

import (
	"github.com/npillmayer/tagll/ll/sparse"
)

// ParsingTable is an LL(1) parsing table: for a non-terminal N on top of the
// stack and a lookahead terminal a, it names the rule to expand N with.
// Rows and columns of the backing matrix are symbol IDs; cells hold rule serials.
//
// Tables are immutable and safe for concurrent use.
type ParsingTable struct {
	g      *Grammar
	matrix *sparse.IntMatrix
	rows   [][]*Symbol // terminal keys per non-terminal ID, in ID order
	terms  []*Symbol   // all terminals keyed anywhere in the table
	ends   map[int]*Rule
}

// BuildTable constructs an LL(1) table from a grammar analysis. The grammar is
// frozen, if this has not been done yet. If two different rules claim the same
// cell, a *GrammarConflictError is returned.
//
// Cells for the end marker do not take part in token decisions: a generation is
// finished by the stack running empty, not by a lookahead. They are cleared from
// the table and kept aside, see EndRule.
func BuildTable(ga *LLAnalysis) (*ParsingTable, error) {
	g := ga.Grammar()
	if err := g.Freeze(); err != nil {
		return nil, err
	}
	n := len(g.symbols)
	tracer().Infof("LL(1) table for %d symbols and %d rules", n, g.RuleCount())
	T := &ParsingTable{
		g:      g,
		matrix: sparse.NewIntMatrix(n, n, sparse.DefaultNullValue),
		ends:   make(map[int]*Rule),
	}
	for _, r := range g.serials {
		F := ga.FirstOfSequence(r.rhs)
		for _, a := range F.AppendTo(nil) {
			if a == EpsilonID {
				continue
			}
			if err := T.claim(r, a); err != nil {
				return nil, err
			}
		}
		if F.ContainsEpsilon() {
			for _, a := range ga.Follow(r.LHS).AppendTo(nil) {
				if err := T.claim(r, a); err != nil {
					return nil, err
				}
			}
		}
	}
	g.EachNonterminal(func(N *Symbol) {
		if v := T.matrix.Value(N.ID, EndMarkerID); v != T.matrix.NullValue() {
			T.ends[N.ID] = g.Rule(int(v))
			T.matrix.Set(N.ID, EndMarkerID, T.matrix.NullValue())
		}
	})
	T.index()
	tracer().Infof("LL(1) table has %d entries", T.matrix.ValueCount())
	return T, nil
}

// claim puts rule r into cell (r.LHS, a). Conflicts are recorded as a second
// value in the cell first, then reported.
func (T *ParsingTable) claim(r *Rule, a int) error {
	serial := int32(r.Serial)
	if v := T.matrix.Value(r.LHS.ID, a); v == serial {
		return nil
	}
	T.matrix.Add(r.LHS.ID, a, serial)
	v1, v2 := T.matrix.Values(r.LHS.ID, a)
	if v2 == T.matrix.NullValue() {
		return nil
	}
	err := &GrammarConflictError{
		Nonterminal: r.LHS.Name,
		Terminal:    T.g.Symbol(a).Name,
		Existing:    T.g.Rule(int(v1)).String(),
		Conflicting: T.g.Rule(int(v2)).String(),
	}
	tracer().Errorf("%v", err)
	return err
}

func (T *ParsingTable) index() {
	T.rows = make([][]*Symbol, len(T.g.symbols))
	seen := make(map[int]bool)
	T.g.EachNonterminal(func(N *Symbol) {
		T.matrix.EachInRow(N.ID, func(j int, _, _ int32) {
			a := T.g.Symbol(j)
			T.rows[N.ID] = append(T.rows[N.ID], a)
			seen[j] = true
		})
	})
	T.g.EachTerminal(func(a *Symbol) {
		if seen[a.ID] {
			T.terms = append(T.terms, a)
		}
	})
}

// Grammar returns the (frozen) grammar of the table.
func (T *ParsingTable) Grammar() *Grammar {
	return T.g
}

// Lookup returns the rule for non-terminal N and lookahead a.
func (T *ParsingTable) Lookup(N, a *Symbol) (*Rule, bool) {
	if N == nil || a == nil || N.ID >= T.matrix.M() || a.ID >= T.matrix.N() {
		return nil, false
	}
	v := T.matrix.Value(N.ID, a.ID)
	if v == T.matrix.NullValue() {
		return nil, false
	}
	return T.g.Rule(int(v)), true
}

// EndRule returns the rule to expand N with if input ends. This is always an
// ε-derivation of N.
func (T *ParsingTable) EndRule(N *Symbol) (*Rule, bool) {
	r, ok := T.ends[N.ID]
	return r, ok
}

// Row returns the terminals keyed for non-terminal N, in ID order.
// Clients must not modify the result.
func (T *ParsingTable) Row(N *Symbol) []*Symbol {
	if N == nil || N.ID >= len(T.rows) {
		return nil
	}
	return T.rows[N.ID]
}

// Terminals returns all terminals keyed anywhere in the table.
func (T *ParsingTable) Terminals() []*Symbol {
	return T.terms
}

// Nonterminals returns the non-terminals of the table's grammar.
func (T *ParsingTable) Nonterminals() []*Symbol {
	return T.g.Nonterminals()
}

// EachCell calls f for every non-empty cell, row by row.
func (T *ParsingTable) EachCell(f func(N, a *Symbol, r *Rule)) {
	T.g.EachNonterminal(func(N *Symbol) {
		for _, a := range T.rows[N.ID] {
			r, _ := T.Lookup(N, a)
			f(N, a, r)
		}
	})
}

// Size returns the number of non-empty cells.
func (T *ParsingTable) Size() int {
	n := 0
	for _, row := range T.rows {
		n += len(row)
	}
	return n
}

package ll

import (
	"bytes"
	"fmt"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

// SymbolSet is a sorted set of symbol IDs, used for FIRST and FOLLOW sets.
type SymbolSet struct {
	set *treeset.Set
}

func newSymbolSet(ids ...int) *SymbolSet {
	S := &SymbolSet{set: treeset.NewWith(utils.IntComparator)}
	for _, id := range ids {
		S.set.Add(id)
	}
	return S
}

// Add inserts a symbol ID, returning true if it has not been present before.
func (S *SymbolSet) Add(id int) bool {
	if S.set.Contains(id) {
		return false
	}
	S.set.Add(id)
	return true
}

// Contains checks for membership of a symbol ID.
func (S *SymbolSet) Contains(id int) bool {
	return S.set.Contains(id)
}

// ContainsEpsilon is true if ε is a member of S.
func (S *SymbolSet) ContainsEpsilon() bool {
	return S.set.Contains(EpsilonID)
}

// Size returns the number of elements.
func (S *SymbolSet) Size() int {
	return S.set.Size()
}

// Union adds all elements of T to S, with the exception of the IDs in except.
// Returns true if S has grown.
func (S *SymbolSet) Union(T *SymbolSet, except ...int) bool {
	grown := false
	it := T.set.Iterator()
	for it.Next() {
		id := it.Value().(int)
		if isOneOf(id, except) {
			continue
		}
		if S.Add(id) {
			grown = true
		}
	}
	return grown
}

// Copy returns an independent copy of S.
func (S *SymbolSet) Copy() *SymbolSet {
	C := newSymbolSet()
	C.Union(S)
	return C
}

// AppendTo appends the IDs of S in increasing order to a slice.
func (S *SymbolSet) AppendTo(ids []int) []int {
	it := S.set.Iterator()
	for it.Next() {
		ids = append(ids, it.Value().(int))
	}
	return ids
}

// Symbols returns the members of S as symbols of grammar g.
func (S *SymbolSet) Symbols(g *Grammar) []*Symbol {
	syms := make([]*Symbol, 0, S.Size())
	it := S.set.Iterator()
	for it.Next() {
		syms = append(syms, g.Symbol(it.Value().(int)))
	}
	return syms
}

func (S *SymbolSet) String() string {
	var b bytes.Buffer
	b.WriteString("[")
	for i, id := range S.AppendTo(nil) {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(fmt.Sprintf("%d", id))
	}
	b.WriteString("]")
	return b.String()
}

func isOneOf(id int, ids []int) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

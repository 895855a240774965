package tagll

import (
	"fmt"
	"sort"
	"strings"
)

// --- Tokenizer collaborator ------------------------------------------------

// TokenID is the integer id of a vocabulary entry of a language model's tokenizer.
type TokenID int

// Tokenizer is the interface tagll expects from a language model's tokenizer.
// We do not care about the subword algorithm; a tokenizer just has to tell us
// about its vocabulary and how it splits up a phrase.
//
// An example would be a BPE tokenizer:
//
//    Vocabulary()         = { "ca": 17, "t": 3, "r": 9, "</s>": 0, … }
//    Tokenize("cat")      = [ "ca", "t" ]
//    EOS()                = 0
//
type Tokenizer interface {
	Vocabulary() map[string]TokenID // every vocabulary string with its id
	Tokenize(text string) []string  // split text into vocabulary strings
	EOS() TokenID                   // the end-of-sequence token
}

// --- Token sets ------------------------------------------------------------

// TokenSet is an immutable, sorted set of token ids. The zero value is the empty set.
//
// Token sets are shared between goroutines after compilation, therefore no operation
// modifies a set in place.
type TokenSet struct {
	ids []TokenID // sorted, unique
}

// NewTokenSet creates a set from a list of ids. Duplicates are removed.
func NewTokenSet(ids ...TokenID) TokenSet {
	if len(ids) == 0 {
		return TokenSet{}
	}
	s := make([]TokenID, len(ids))
	copy(s, ids)
	sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
	j := 0
	for i := 1; i < len(s); i++ { // from slice tricks
		if s[j] == s[i] {
			continue
		}
		j++
		s[j] = s[i]
	}
	return TokenSet{ids: s[:j+1]}
}

// Len returns the number of ids in the set.
func (ts TokenSet) Len() int {
	return len(ts.ids)
}

// IsEmpty is true for the empty set.
func (ts TokenSet) IsEmpty() bool {
	return len(ts.ids) == 0
}

// Contains checks for membership of id.
func (ts TokenSet) Contains(id TokenID) bool {
	i := sort.Search(len(ts.ids), func(i int) bool { return ts.ids[i] >= id })
	return i < len(ts.ids) && ts.ids[i] == id
}

// IDs returns the ids of the set in increasing order. Clients must not modify the
// returned slice.
func (ts TokenSet) IDs() []TokenID {
	return ts.ids
}

// Intersect returns the ids contained in both sets.
func (ts TokenSet) Intersect(other TokenSet) TokenSet {
	var r []TokenID
	i, j := 0, 0
	for i < len(ts.ids) && j < len(other.ids) {
		switch {
		case ts.ids[i] < other.ids[j]:
			i++
		case ts.ids[i] > other.ids[j]:
			j++
		default:
			r = append(r, ts.ids[i])
			i++
			j++
		}
	}
	return TokenSet{ids: r}
}

// Equals is true if both sets contain the same ids.
func (ts TokenSet) Equals(other TokenSet) bool {
	if len(ts.ids) != len(other.ids) {
		return false
	}
	for i := range ts.ids {
		if ts.ids[i] != other.ids[i] {
			return false
		}
	}
	return true
}

// Union returns a set containing the ids of all argument sets.
func Union(sets ...TokenSet) TokenSet {
	n := 0
	for _, s := range sets {
		n += len(s.ids)
	}
	all := make([]TokenID, 0, n)
	for _, s := range sets {
		all = append(all, s.ids...)
	}
	return NewTokenSet(all...)
}

func (ts TokenSet) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i, id := range ts.ids {
		if i > 0 {
			b.WriteString(" ")
		}
		if i == 8 && len(ts.ids) > 10 {
			fmt.Fprintf(&b, "… (%d more)", len(ts.ids)-i)
			break
		}
		fmt.Fprintf(&b, "%d", id)
	}
	b.WriteString("}")
	return b.String()
}

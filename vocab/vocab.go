package vocab

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"

	"github.com/npillmayer/tagll"
)

// Vocabulary is an in-memory tokenizer vocabulary. It implements
// tagll.Tokenizer with a greedy longest-match tokenization.
type Vocabulary struct {
	ids     map[string]tagll.TokenID
	strs    map[tagll.TokenID]string
	strlist []string // strings by lexer token type
	eos     tagll.TokenID
	once    sync.Once
	lexer   *lexmachine.Lexer
	lexerr  error
}

var _ tagll.Tokenizer = (*Vocabulary)(nil)

// NewVocabulary creates a vocabulary from a mapping of strings to token IDs.
// eos is the ID of the end-of-sequence token, which has to be part of ids.
func NewVocabulary(ids map[string]tagll.TokenID, eos tagll.TokenID) (*Vocabulary, error) {
	v := &Vocabulary{
		ids:  make(map[string]tagll.TokenID, len(ids)),
		strs: make(map[tagll.TokenID]string, len(ids)),
		eos:  eos,
	}
	for s, id := range ids {
		if other, dup := v.strs[id]; dup {
			return nil, fmt.Errorf("token ID %d used for %q and %q", id, other, s)
		}
		v.ids[s] = id
		v.strs[id] = s
	}
	if _, ok := v.strs[eos]; !ok {
		return nil, fmt.Errorf("end-of-sequence token %d is not part of vocabulary", eos)
	}
	return v, nil
}

// ReadJSON reads a vocabulary from a JSON object mapping token strings to IDs,
// the format of the vocab.json files of many tokenizers.
func ReadJSON(r io.Reader, eos tagll.TokenID) (*Vocabulary, error) {
	var ids map[string]tagll.TokenID
	if err := json.NewDecoder(r).Decode(&ids); err != nil {
		return nil, fmt.Errorf("cannot read vocabulary: %w", err)
	}
	tracer().Infof("read vocabulary of %d tokens", len(ids))
	return NewVocabulary(ids, eos)
}

// Vocabulary is part of interface tagll.Tokenizer. Clients must not modify the result.
func (v *Vocabulary) Vocabulary() map[string]tagll.TokenID {
	return v.ids
}

// EOS is part of interface tagll.Tokenizer.
func (v *Vocabulary) EOS() tagll.TokenID {
	return v.eos
}

// Size returns the number of tokens.
func (v *Vocabulary) Size() int {
	return len(v.ids)
}

// ID returns the token ID of s.
func (v *Vocabulary) ID(s string) (tagll.TokenID, bool) {
	id, ok := v.ids[s]
	return id, ok
}

// String returns the token string for id.
func (v *Vocabulary) String(id tagll.TokenID) (string, bool) {
	s, ok := v.strs[id]
	return s, ok
}

// Tokenize is part of interface tagll.Tokenizer. Text is split into vocabulary
// strings, always taking the longest one possible. A rune which starts no
// vocabulary string becomes a token of its own, which is not part of the vocabulary.
func (v *Vocabulary) Tokenize(text string) []string {
	lexer, err := v.compile()
	if err != nil {
		tracer().Errorf("cannot tokenize: %v", err)
		return nil
	}
	scanner, err := lexer.Scanner([]byte(text))
	if err != nil {
		tracer().Errorf("cannot tokenize: %v", err)
		return nil
	}
	var tokens []string
	for tok, err, eof := scanner.Next(); !eof; tok, err, eof = scanner.Next() {
		if err != nil {
			if ui, is := err.(*machines.UnconsumedInput); is {
				_, size := utf8.DecodeRuneInString(text[ui.StartTC:])
				tokens = append(tokens, text[ui.StartTC:ui.StartTC+size])
				scanner.TC = ui.StartTC + size
				continue
			}
			tracer().Errorf("cannot tokenize: %v", err)
			return tokens
		}
		token := tok.(*lexmachine.Token)
		tokens = append(tokens, v.strlist[token.Type])
	}
	return tokens
}

// compile builds a DFA recognizing all vocabulary strings, once.
func (v *Vocabulary) compile() (*lexmachine.Lexer, error) {
	v.once.Do(func() {
		lexer := lexmachine.NewLexer()
		for s := range v.ids {
			if s == "" {
				continue
			}
			typ := len(v.strlist)
			v.strlist = append(v.strlist, s)
			lexer.Add([]byte(escapeLiteral(s)), func(sc *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
				return sc.Token(typ, nil, m), nil
			})
		}
		if v.lexerr = lexer.Compile(); v.lexerr != nil {
			return
		}
		v.lexer = lexer
		tracer().Debugf("compiled DFA for %d vocabulary strings", len(v.strlist))
	})
	return v.lexer, v.lexerr
}

// escapeLiteral turns a string into a lexmachine pattern matching exactly this string.
func escapeLiteral(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x80 && !isAlnum(c) {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

package tags

import (
	"fmt"
	"strings"
	"sync"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// Item is an element of an authored alternative: either a plain word or a tag
// placeholder. For tags, Text holds the phrase between the angle brackets.
type Item struct {
	Text  string
	IsTag bool
}

func (it Item) String() string {
	if it.IsTag {
		return "<<" + it.Text + ">>"
	}
	return it.Text
}

// Epsilon is the marker for an empty alternative.
const Epsilon = "ε"

const (
	wordToken = iota
	tagToken
)

var splitter struct {
	once  sync.Once
	lexer *lexmachine.Lexer
	err   error
}

// A tag phrase may contain blanks and single '>'. Words never run into "<<",
// so tags are found inside words as well, as in "x<<y>>". A '<' which does not
// start a tag is a word piece of its own; SplitAlternative glues adjacent word
// pieces together again.
func splitLexer() (*lexmachine.Lexer, error) {
	splitter.once.Do(func() {
		lexer := lexmachine.NewLexer()
		lexer.Add([]byte(`<<([^>]|>[^>])*>>`), makeItem(tagToken))
		lexer.Add([]byte("([^ \t\n\r<]|<[^ \t\n\r<])+"), makeItem(wordToken))
		lexer.Add([]byte("<"), makeItem(wordToken))
		lexer.Add([]byte("( |\t|\n|\r)+"), skip)
		if err := lexer.Compile(); err != nil {
			tracer().Errorf("error compiling DFA for alternatives: %v", err)
			splitter.err = err
			return
		}
		splitter.lexer = lexer
	})
	return splitter.lexer, splitter.err
}

func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

func makeItem(kind int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(kind, string(m.Bytes), m), nil
	}
}

// SplitAlternative splits an authored alternative into words and tags. An empty
// alternative or the marker "ε" yields an empty list of items.
func SplitAlternative(alt string) ([]Item, error) {
	if s := strings.TrimSpace(alt); s == "" || s == Epsilon {
		return nil, nil
	}
	lexer, err := splitLexer()
	if err != nil {
		return nil, err
	}
	scanner, err := lexer.Scanner([]byte(alt))
	if err != nil {
		return nil, err
	}
	var items []Item
	wordEnd := -1 // end position of the last word piece
	for tok, err, eof := scanner.Next(); !eof; tok, err, eof = scanner.Next() {
		if err != nil {
			return nil, fmt.Errorf("cannot split alternative %q: %w", alt, err)
		}
		token := tok.(*lexmachine.Token)
		lexeme := string(token.Lexeme)
		if token.Type == tagToken {
			items = append(items, Item{Text: lexeme[2 : len(lexeme)-2], IsTag: true})
			wordEnd = -1
			continue
		}
		if token.TC == wordEnd { // glue to preceding word piece
			items[len(items)-1].Text += lexeme
		} else {
			items = append(items, Item{Text: lexeme})
		}
		wordEnd = token.TC + len(token.Lexeme)
	}
	words := items[:0]
	for _, it := range items {
		if it.IsTag || it.Text != Epsilon {
			words = append(words, it)
		}
	}
	return words, nil
}

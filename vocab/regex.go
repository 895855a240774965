package vocab

import (
	"fmt"
	"sort"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// RegexClass is a named class of vocabulary strings, defined by a pattern in
// lexmachine syntax. A string belongs to the class if the pattern matches it
// completely.
type RegexClass struct {
	Name    string
	Pattern string
	lexer   *lexmachine.Lexer
}

// NewRegexClass compiles a pattern into a DFA. Patterns matching the empty
// string are rejected.
func NewRegexClass(name, pattern string) (*RegexClass, error) {
	lexer := lexmachine.NewLexer()
	lexer.Add([]byte(pattern), func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(0, nil, m), nil
	})
	if err := lexer.Compile(); err != nil {
		return nil, fmt.Errorf("cannot compile regex class %s: %w", name, err)
	}
	return &RegexClass{Name: name, Pattern: pattern, lexer: lexer}, nil
}

// Matches is true if s as a whole matches the pattern of class c.
func (c *RegexClass) Matches(s string) bool {
	if s == "" {
		return false
	}
	scanner, err := c.lexer.Scanner([]byte(s))
	if err != nil {
		return false
	}
	tok, err, eof := scanner.Next()
	if err != nil || eof {
		return false
	}
	token := tok.(*lexmachine.Token)
	return token.TC == 0 && len(token.Lexeme) == len(s)
}

// Registry maps class names to regex classes.
type Registry struct {
	classes map[string]*RegexClass
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{classes: make(map[string]*RegexClass)}
}

// Register compiles and adds a class.
func (r *Registry) Register(name, pattern string) error {
	c, err := NewRegexClass(name, pattern)
	if err != nil {
		return err
	}
	r.Add(c)
	return nil
}

// Add puts a compiled class into the registry, replacing a class of the same name.
func (r *Registry) Add(c *RegexClass) *Registry {
	r.classes[c.Name] = c
	return r
}

// Lookup finds a class by name. It is safe to call Lookup on a nil registry.
func (r *Registry) Lookup(name string) (*RegexClass, bool) {
	if r == nil {
		return nil, false
	}
	c, ok := r.classes[name]
	return c, ok
}

// Names returns the names of all classes, sorted.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.classes))
	for name := range r.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClassPrefix is the conventional prefix of regex class names.
const ClassPrefix = "regex_"

// CommonClasses returns a registry of frequently used classes:
//
//     regex_alfanum   letters and digits
//     regex_letters   letters
//     regex_number    digits
//     regex_decimal   digits with an optional fraction, separated by '.' or ','
//     regex_var       identifiers
//
func CommonClasses() *Registry {
	r := NewRegistry()
	for _, c := range [][2]string{
		{"regex_alfanum", "[a-zA-Z0-9]+"},
		{"regex_letters", "[a-zA-Z]+"},
		{"regex_number", "[0-9]+"},
		{"regex_decimal", "[0-9]+([.,][0-9]+)?"},
		{"regex_var", "[a-zA-Z_][a-zA-Z0-9_]*"},
	} {
		if err := r.Register(c[0], c[1]); err != nil {
			panic(err) // patterns are constant
		}
	}
	return r
}

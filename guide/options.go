package guide

import (
	"io"

	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/tagll/vocab"
)

// Configuration keys for compile defaults.
const (
	ConfigEOSAlternative = "tagll.eos-alternative"
	ConfigMaxFactorDepth = "tagll.max-factor-depth"
)

// Option configures a compilation.
type Option func(o *options)

type options struct {
	regex       *vocab.Registry
	eosAlt      bool
	maxDepth    int
	diagnostics io.Writer
}

// defaults reads the configured defaults. Unset keys result in zero values,
// which select the built-in defaults.
func defaults() *options {
	return &options{
		eosAlt:   gconf.GetBool(ConfigEOSAlternative),
		maxDepth: gconf.GetInt(ConfigMaxFactorDepth),
	}
}

// WithRegexClasses sets the registry of regex classes terminals may refer to.
// Without it, every terminal has to match a vocabulary string exactly.
func WithRegexClasses(reg *vocab.Registry) Option {
	return func(o *options) {
		o.regex = reg
	}
}

// WithEOSAlternative sets or clears option EOSAlternative: the vocabulary
// string of the end-of-sequence token is added as an alternative of S*, thus
// allowing an empty generation.
func WithEOSAlternative(b bool) Option {
	return func(o *options) {
		o.eosAlt = b
	}
}

// WithMaxFactorDepth bounds nested factoring. n <= 0 selects ll.DefaultMaxDepth.
func WithMaxFactorDepth(n int) Option {
	return func(o *options) {
		o.maxDepth = n
	}
}

// WithDiagnostics writes a JSON dump of the parsing table to w after it has
// been built.
func WithDiagnostics(w io.Writer) Option {
	return func(o *options) {
		o.diagnostics = w
	}
}

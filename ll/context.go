package ll

import "fmt"

// DefaultMaxDepth is the default bound for nested factoring and derivation walks.
const DefaultMaxDepth = 64

// CompileContext holds the state of one compilation run: counters for
// synthetic names and memoized analysis results. A context is created per
// compilation and discarded afterwards; it must not be shared between
// concurrent compilations.
type CompileContext struct {
	MaxDepth int            // bound for recursive factoring
	children map[string]int // per-parent counters for synthetic names
	serial   int            // global counter
	analysis *LLAnalysis    // memoized analysis
	analyzed int            // grammar version of memoized analysis
}

// NewCompileContext creates a fresh context. maxDepth <= 0 selects DefaultMaxDepth.
func NewCompileContext(maxDepth int) *CompileContext {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &CompileContext{
		MaxDepth: maxDepth,
		children: make(map[string]int),
	}
}

// NextChild returns the next number in the sequence of children of parent,
// starting at 1.
func (ctx *CompileContext) NextChild(parent string) int {
	ctx.children[parent]++
	return ctx.children[parent]
}

// Next returns the next value of the context's global counter, starting at 1.
func (ctx *CompileContext) Next() int {
	ctx.serial++
	return ctx.serial
}

// FreshName returns name if no non-terminal of g is called so, otherwise a
// numbered variant of it.
func (ctx *CompileContext) FreshName(g *Grammar, name string) string {
	if _, taken := g.nonterms[name]; !taken {
		return name
	}
	for {
		candidate := fmt.Sprintf("%s'%d", name, ctx.Next())
		if _, taken := g.nonterms[candidate]; !taken {
			return candidate
		}
	}
}

// Analysis returns the grammar analysis for g, re-using the previous result
// if g has not been modified since.
func (ctx *CompileContext) Analysis(g *Grammar) *LLAnalysis {
	if ctx.analysis == nil || ctx.analysis.g != g || ctx.analyzed != g.version {
		ctx.analysis = Analysis(g)
		ctx.analyzed = g.version
	}
	return ctx.analysis
}

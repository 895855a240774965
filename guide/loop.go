package guide

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/npillmayer/tagll"
	"github.com/npillmayer/tagll/automaton"
)

// Guide accompanies the generation of one sequence. Before sampling a token,
// clients call Mask on the model's scores; after sampling they report the
// token with Put.
//
// A Guide is not safe for concurrent use.
type Guide struct {
	A      *automaton.Automaton
	eos    tagll.TokenID
	primed bool
}

// NewGuide creates a guide for a fresh sequence.
func (c *Compiled) NewGuide() *Guide {
	return &Guide{A: c.NewAutomaton(), eos: c.eos}
}

// Mask returns a copy of scores where every token invalid at this point of the
// sequence is set to negative infinity.
func (g *Guide) Mask(scores []float32) ([]float32, error) {
	return g.A.Mask(scores)
}

// Put reports the next token of the sequence. The first call to Put is
// expected to carry the prompt and is skipped. After the sequence has been
// completed, further tokens are ignored.
func (g *Guide) Put(id tagll.TokenID) error {
	if !g.primed {
		g.primed = true
		tracer().Debugf("skipping prompt")
		return nil
	}
	if g.Done() {
		tracer().Debugf("sequence complete, ignoring token %d", id)
		return nil
	}
	return g.A.Accept(id)
}

// Done is true if the sequence is complete.
func (g *Guide) Done() bool {
	return g.A.IsAccepting()
}

// --- Generation loop -------------------------------------------------------

// ErrTokenLimit is returned by Generate if a sequence is not complete after
// the maximum number of tokens.
var ErrTokenLimit = errors.New("token limit reached")

// MaskFunc masks the scores of invalid tokens.
type MaskFunc func(scores []float32) ([]float32, error)

// Step computes the next token of a sequence. It runs the model on the
// sequence so far, masks the scores with mask and samples a token.
type Step func(ctx context.Context, sequence []tagll.TokenID, mask MaskFunc) (tagll.TokenID, error)

// Generate calls step until the sequence is complete or maxTokens tokens have
// been generated. Cancellation of ctx is checked between steps. The tokens
// generated so far are returned in any case.
func Generate(ctx context.Context, g *Guide, step Step, maxTokens int) ([]tagll.TokenID, error) {
	g.primed = true
	var sequence []tagll.TokenID
	for !g.Done() {
		if err := ctx.Err(); err != nil {
			return sequence, err
		}
		if len(sequence) >= maxTokens {
			return sequence, ErrTokenLimit
		}
		id, err := step(ctx, sequence, g.Mask)
		if err != nil {
			return sequence, err
		}
		if err = g.A.Accept(id); err != nil {
			return sequence, fmt.Errorf("token %d at position %d: %w", id, len(sequence), err)
		}
		sequence = append(sequence, id)
		tracer().Debugf("generated %v", sequence)
	}
	return sequence, nil
}

// Greedy creates a step which picks the token with the highest masked score.
// forward computes the model's scores for a sequence.
func Greedy(forward func(ctx context.Context, sequence []tagll.TokenID) ([]float32, error)) Step {
	return func(ctx context.Context, sequence []tagll.TokenID, mask MaskFunc) (tagll.TokenID, error) {
		scores, err := forward(ctx, sequence)
		if err != nil {
			return 0, err
		}
		masked, err := mask(scores)
		if err != nil {
			return 0, err
		}
		best := -1
		for i, s := range masked {
			if best < 0 && !isNegInf(s) || best >= 0 && s > masked[best] {
				best = i
			}
		}
		if best < 0 {
			return 0, fmt.Errorf("no valid token among %d scores", len(scores))
		}
		return tagll.TokenID(best), nil
	}
}

func isNegInf(f float32) bool {
	return math.IsInf(float64(f), -1)
}

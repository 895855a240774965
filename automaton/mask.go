package automaton

import (
	"math"
)

// Mask returns a copy of a model's score vector, where every position not valid
// in the automaton's current state is set to negative infinity. Valid positions
// keep their score, so the ranking among them is preserved.
func (A *Automaton) Mask(scores []float32) ([]float32, error) {
	valid, err := A.ValidTokenIDs()
	if err != nil {
		return nil, err
	}
	masked := make([]float32, len(scores))
	negInf := float32(math.Inf(-1))
	for i := range masked {
		masked[i] = negInf
	}
	for _, id := range valid.IDs() {
		if int(id) >= 0 && int(id) < len(scores) {
			masked[id] = scores[id]
		}
	}
	return masked, nil
}

package bind

import (
	"fmt"
	"math"
)

// Normalize divides every weight by the total so the result sums to 1.
// The input is left untouched. A total that is not strictly positive and
// finite yields ErrNoContribution instead of NaN or Inf weights.
func Normalize(w Weights) (Weights, error) {
	sum := w.Sum()
	if !(sum > 0) || math.IsInf(sum, 0) {
		return nil, fmt.Errorf("bind: normalize %d weights summing to %g: %w", len(w), sum, ErrNoContribution)
	}
	out := make(Weights, len(w))
	for bone, v := range w {
		out[bone] = v / sum
	}
	return out, nil
}

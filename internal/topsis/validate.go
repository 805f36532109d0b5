package topsis

import (
	"fmt"
	"math"
)

// Validate checks every precondition of Compute without computing anything.
// Checks run in a fixed order and the first failure is returned.
func Validate(m Matrix, weights Weights, impacts Impacts) error {
	if len(m) == 0 {
		return invalid("matrix", -1, -1, ErrNoAlternatives)
	}

	cols := m.Criteria()
	if cols < MinCriteria {
		return invalid("matrix", -1, -1,
			fmt.Errorf("%w: got %d, need at least %d", ErrInsufficientCriteria, cols, MinCriteria))
	}
	for i, alt := range m {
		if len(alt.Values) != cols {
			return invalid("matrix", i, -1,
				fmt.Errorf("%w: %d values, expected %d", ErrDimensionMismatch, len(alt.Values), cols))
		}
	}
	if len(weights) != cols {
		return invalid("weights", -1, -1,
			fmt.Errorf("%w: %d weights for %d criteria", ErrDimensionMismatch, len(weights), cols))
	}
	if len(impacts) != cols {
		return invalid("impacts", -1, -1,
			fmt.Errorf("%w: %d impacts for %d criteria", ErrDimensionMismatch, len(impacts), cols))
	}

	for i, alt := range m {
		for j, v := range alt.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return invalid("matrix", i, j, ErrNonNumericData)
			}
		}
	}
	for j, w := range weights {
		if !(w > 0) || math.IsInf(w, 0) {
			return invalid("weights", -1, j, fmt.Errorf("%w: %v", ErrInvalidWeight, w))
		}
	}
	for j, imp := range impacts {
		if !imp.Valid() {
			return invalid("impacts", -1, j, fmt.Errorf("%w: %q", ErrInvalidImpact, string(imp)))
		}
	}

	spread := false
	for j := 0; j < cols; j++ {
		zero := true
		for i := range m {
			v := m[i].Values[j]
			if v != 0 {
				zero = false
			}
			if v != m[0].Values[j] {
				spread = true
			}
		}
		if zero {
			return invalid("matrix", -1, j, ErrDegenerateColumn)
		}
	}
	if !spread {
		return invalid("matrix", -1, -1, ErrDegenerateScore)
	}
	return nil
}

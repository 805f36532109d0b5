package topsis

import (
	"errors"
	"fmt"
)

var (
	// ErrNoAlternatives is returned for an empty decision matrix.
	ErrNoAlternatives = errors.New("topsis: decision matrix has no alternatives")

	// ErrInsufficientCriteria is returned when rows carry fewer than MinCriteria values.
	ErrInsufficientCriteria = errors.New("topsis: not enough criteria")

	// ErrDimensionMismatch covers ragged rows and weight or impact vectors whose
	// length differs from the number of criteria.
	ErrDimensionMismatch = errors.New("topsis: dimension mismatch")

	// ErrNonNumericData is returned for NaN or infinite criterion values.
	ErrNonNumericData = errors.New("topsis: criterion value is not a finite number")

	// ErrInvalidWeight is returned for zero, negative or non-finite weights.
	ErrInvalidWeight = errors.New("topsis: weight must be a positive finite number")

	// ErrInvalidImpact is returned for impacts other than Benefit and Cost.
	ErrInvalidImpact = errors.New("topsis: impact must be '+' or '-'")

	// ErrDegenerateColumn is returned when a criterion column is all zeros,
	// so its norm cannot be used as a divisor.
	ErrDegenerateColumn = errors.New("topsis: criterion column has zero norm")

	// ErrDegenerateScore is returned when an alternative coincides with both
	// ideal points and its score would be 0/0.
	ErrDegenerateScore = errors.New("topsis: score is undefined, all criteria have zero spread")
)

// ValidationError pinpoints which part of the input broke a constraint.
type ValidationError struct {
	// Field is one of "matrix", "weights" or "impacts".
	Field string
	// Row is the alternative index, or -1 when not row specific.
	Row int
	// Column is the criterion index, or -1 when not column specific.
	Column int
	Err    error
}

func (e *ValidationError) Error() string {
	switch {
	case e.Row >= 0 && e.Column >= 0:
		return fmt.Sprintf("%s[%d][%d]: %v", e.Field, e.Row, e.Column, e.Err)
	case e.Row >= 0:
		return fmt.Sprintf("%s row %d: %v", e.Field, e.Row, e.Err)
	case e.Column >= 0:
		return fmt.Sprintf("%s[%d]: %v", e.Field, e.Column, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(field string, row, col int, err error) *ValidationError {
	return &ValidationError{Field: field, Row: row, Column: col, Err: err}
}

// IsValidation reports whether err is one of the input validation failures,
// as opposed to an I/O or internal error from a caller.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrNoAlternatives, ErrInsufficientCriteria, ErrDimensionMismatch,
		ErrNonNumericData, ErrInvalidWeight, ErrInvalidImpact,
		ErrDegenerateColumn, ErrDegenerateScore,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

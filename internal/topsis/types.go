package topsis

import "fmt"

// MinCriteria is the smallest number of criteria a decision matrix may have.
// It matches the CSV contract of an identifier column plus at least two
// criterion columns.
const MinCriteria = 2

// DefaultTieTolerance is the absolute score difference under which two
// alternatives share a rank.
const DefaultTieTolerance = 1e-9

// Impact tells whether higher or lower values of a criterion are preferable.
type Impact string

const (
	Benefit Impact = "+"
	Cost    Impact = "-"
)

// ParseImpact maps a "+" or "-" token to its Impact.
func ParseImpact(s string) (Impact, error) {
	switch Impact(s) {
	case Benefit, Cost:
		return Impact(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidImpact, s)
	}
}

// Valid reports whether i is Benefit or Cost.
func (i Impact) Valid() bool {
	return i == Benefit || i == Cost
}

// Alternative is one row of the decision matrix.
type Alternative struct {
	ID     string    `json:"id"`
	Values []float64 `json:"values"`
}

// Matrix is an ordered set of alternatives sharing the same criteria.
type Matrix []Alternative

// Criteria returns the number of criteria of the first row, or 0 when empty.
func (m Matrix) Criteria() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0].Values)
}

// Weights holds one relative multiplier per criterion.
type Weights []float64

// Impacts holds one direction per criterion.
type Impacts []Impact

// Ranked is the outcome for a single alternative.
type Ranked struct {
	ID        string  `json:"id"`
	Score     float64 `json:"score"`
	Rank      int     `json:"rank"`
	DistBest  float64 `json:"dist_best"`
	DistWorst float64 `json:"dist_worst"`
}

// Result lists every alternative in input order together with the ideal
// points the scores were measured against.
type Result struct {
	Alternatives []Ranked  `json:"alternatives"`
	IdealBest    []float64 `json:"ideal_best"`
	IdealWorst   []float64 `json:"ideal_worst"`
}

// Scores returns the scores in input order.
func (r *Result) Scores() []float64 {
	out := make([]float64, len(r.Alternatives))
	for i, a := range r.Alternatives {
		out[i] = a.Score
	}
	return out
}

// Ranks returns the ranks in input order.
func (r *Result) Ranks() []int {
	out := make([]int, len(r.Alternatives))
	for i, a := range r.Alternatives {
		out[i] = a.Rank
	}
	return out
}

// Best returns the first alternative holding rank 1.
func (r *Result) Best() (Ranked, bool) {
	for _, a := range r.Alternatives {
		if a.Rank == 1 {
			return a, true
		}
	}
	return Ranked{}, false
}

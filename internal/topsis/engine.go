package topsis

import "math"

type options struct {
	tieTolerance float64
}

// Option tunes a Compute call.
type Option func(*options)

// WithTieTolerance sets the absolute score difference under which alternatives
// share a rank. Zero means exact equality. Negative values are treated as zero.
func WithTieTolerance(tol float64) Option {
	return func(o *options) {
		if tol < 0 || math.IsNaN(tol) {
			tol = 0
		}
		o.tieTolerance = tol
	}
}

// Compute scores and ranks every alternative of m. The inputs are not
// modified and the returned Result lists alternatives in input order.
func Compute(m Matrix, weights Weights, impacts Impacts, opts ...Option) (*Result, error) {
	o := options{tieTolerance: DefaultTieTolerance}
	for _, opt := range opts {
		opt(&o)
	}

	if err := Validate(m, weights, impacts); err != nil {
		return nil, err
	}

	// Arithmetic runs on weights scaled to a maximum of 1; diagnostics are
	// scaled back to caller units below.
	unit, wmax := unitWeights(weights)
	weighted := applyWeights(normalize(m), unit)
	best, worst := idealPoints(weighted, impacts)
	dBest, dWorst := distances(weighted, best, worst)

	scores, err := closeness(dBest, dWorst)
	if err != nil {
		return nil, err
	}
	ranks := rankScores(scores, o.tieTolerance)

	for _, v := range [][]float64{best, worst, dBest, dWorst} {
		rescale(v, wmax)
	}

	res := &Result{
		Alternatives: make([]Ranked, len(m)),
		IdealBest:    best,
		IdealWorst:   worst,
	}
	for i, alt := range m {
		res.Alternatives[i] = Ranked{
			ID:        alt.ID,
			Score:     scores[i],
			Rank:      ranks[i],
			DistBest:  dBest[i],
			DistWorst: dWorst[i],
		}
	}
	return res, nil
}

// normalize divides every value by the Euclidean norm of its column.
func normalize(m Matrix) [][]float64 {
	cols := m.Criteria()
	norms := make([]float64, cols)
	for j := range norms {
		norms[j] = columnNorm(m, j)
	}

	out := make([][]float64, len(m))
	for i, alt := range m {
		row := make([]float64, cols)
		for j, v := range alt.Values {
			row[j] = v / norms[j]
		}
		out[i] = row
	}
	return out
}

func columnNorm(m Matrix, j int) float64 {
	col := make([]float64, len(m))
	for i, alt := range m {
		col[i] = alt.Values[j]
	}
	return euclidean(col)
}

// euclidean is sqrt(Σ v²), computed on values scaled by the largest magnitude
// so neither overflow nor underflow of the squares changes the result.
func euclidean(v []float64) float64 {
	var scale float64
	for _, x := range v {
		if a := math.Abs(x); a > scale {
			scale = a
		}
	}
	if scale == 0 {
		return 0
	}
	var sum float64
	for _, x := range v {
		y := x / scale
		sum += y * y
	}
	return scale * math.Sqrt(sum)
}

// unitWeights divides every weight by the largest one, so each lies in (0, 1].
func unitWeights(weights Weights) (Weights, float64) {
	var wmax float64
	for _, w := range weights {
		wmax = math.Max(wmax, w)
	}
	unit := make(Weights, len(weights))
	for j, w := range weights {
		unit[j] = w / wmax
	}
	return unit, wmax
}

func rescale(v []float64, k float64) {
	for i := range v {
		v[i] *= k
	}
}

// applyWeights multiplies each column by its weight, in place.
func applyWeights(n [][]float64, weights Weights) [][]float64 {
	for i := range n {
		for j, w := range weights {
			n[i][j] *= w
		}
	}
	return n
}

// idealPoints returns the best and worst value per column. For Benefit
// columns the best is the maximum; for Cost columns it is the minimum.
func idealPoints(w [][]float64, impacts Impacts) (best, worst []float64) {
	best = make([]float64, len(impacts))
	worst = make([]float64, len(impacts))
	for j, imp := range impacts {
		lo, hi := w[0][j], w[0][j]
		for i := 1; i < len(w); i++ {
			lo = math.Min(lo, w[i][j])
			hi = math.Max(hi, w[i][j])
		}
		if imp == Cost {
			best[j], worst[j] = lo, hi
		} else {
			best[j], worst[j] = hi, lo
		}
	}
	return best, worst
}

// distances returns each row's Euclidean distance to best and to worst.
func distances(w [][]float64, best, worst []float64) (dBest, dWorst []float64) {
	dBest = make([]float64, len(w))
	dWorst = make([]float64, len(w))
	db := make([]float64, len(best))
	dw := make([]float64, len(worst))
	for i, row := range w {
		for j, v := range row {
			db[j] = v - best[j]
			dw[j] = v - worst[j]
		}
		dBest[i] = euclidean(db)
		dWorst[i] = euclidean(dw)
	}
	return dBest, dWorst
}

// closeness computes dist_worst / (dist_best + dist_worst) per row. Any score
// outside [0, 1], NaN included, is reported as undefined.
func closeness(dBest, dWorst []float64) ([]float64, error) {
	scores := make([]float64, len(dBest))
	for i := range dBest {
		denom := dBest[i] + dWorst[i]
		score := dWorst[i] / denom
		if denom == 0 || !(score >= 0 && score <= 1) {
			return nil, invalid("matrix", i, -1, ErrDegenerateScore)
		}
		scores[i] = score
	}
	return scores, nil
}

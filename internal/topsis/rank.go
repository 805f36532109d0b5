package topsis

import "sort"

// rankScores assigns competition ranks ("1224") by descending score.
// A score joins the current tie group when it is within tol of the group's
// first score, not of its latest member. Equal scores keep input order.
func rankScores(scores []float64, tol float64) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	ranks := make([]int, len(scores))
	leader := -1
	for pos, idx := range order {
		if leader >= 0 && scores[leader]-scores[idx] <= tol {
			ranks[idx] = ranks[leader]
			continue
		}
		leader = idx
		ranks[idx] = pos + 1
	}
	return ranks
}

// Order returns alternative indices sorted by rank, ties in input order.
func (r *Result) Order() []int {
	order := make([]int, len(r.Alternatives))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return r.Alternatives[order[a]].Rank < r.Alternatives[order[b]].Rank
	})
	return order
}

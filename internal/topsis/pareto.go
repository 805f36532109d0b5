package topsis

// ParetoFrontier returns the indices of the alternatives no other alternative
// dominates, in input order. a dominates b when a is at least as good on every
// criterion (higher for Benefit, lower for Cost) and strictly better on one.
// Inputs are assumed to have passed Validate.
func ParetoFrontier(m Matrix, impacts Impacts) []int {
	var frontier []int
	for i := range m {
		dominated := false
		for j := range m {
			if i != j && dominates(m[j].Values, m[i].Values, impacts) {
				dominated = true
				break
			}
		}
		if !dominated {
			frontier = append(frontier, i)
		}
	}
	return frontier
}

func dominates(a, b []float64, impacts Impacts) bool {
	strictly := false
	for k := range a {
		better, worse := a[k] > b[k], a[k] < b[k]
		if impacts[k] == Cost {
			better, worse = worse, better
		}
		if worse {
			return false
		}
		if better {
			strictly = true
		}
	}
	return strictly
}

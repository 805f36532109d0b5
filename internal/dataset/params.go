package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/MikeSquared-Agency/Topsis/internal/topsis"
)

func splitTokens(s string) []string {
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// ParseWeights parses a comma separated list such as "1,1,1,2,1".
func ParseWeights(s string) (topsis.Weights, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("%w: weights are empty", ErrParse)
	}
	tokens := splitTokens(s)
	weights := make(topsis.Weights, len(tokens))
	for i, tok := range tokens {
		w, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: weight %d (%q) is not numeric", ErrParse, i+1, tok)
		}
		weights[i] = w
	}
	return weights, nil
}

// ParseImpacts parses a comma separated list of "+" and "-" tokens.
func ParseImpacts(s string) (topsis.Impacts, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("%w: impacts are empty", ErrParse)
	}
	tokens := splitTokens(s)
	impacts := make(topsis.Impacts, len(tokens))
	for i, tok := range tokens {
		imp, err := topsis.ParseImpact(tok)
		if err != nil {
			return nil, fmt.Errorf("impact %d: %w", i+1, err)
		}
		impacts[i] = imp
	}
	return impacts, nil
}

// ParseParams parses both parameter strings and checks their counts against
// the number of criterion columns before looking at individual tokens.
func ParseParams(weights, impacts string, criteria int) (topsis.Weights, topsis.Impacts, error) {
	nw := len(strings.Split(weights, ","))
	ni := len(strings.Split(impacts, ","))
	if nw != criteria || ni != criteria {
		return nil, nil, fmt.Errorf("%w: number of weights (%d) and impacts (%d) must match number of criteria columns (%d)",
			topsis.ErrDimensionMismatch, nw, ni, criteria)
	}

	w, err := ParseWeights(weights)
	if err != nil {
		return nil, nil, err
	}
	imp, err := ParseImpacts(impacts)
	if err != nil {
		return nil, nil, err
	}
	return w, imp, nil
}

package api

import (
	"net/http"
	"sort"

	"github.com/MikeSquared-Agency/Topsis/internal/topsis"
)

type criterionExplain struct {
	Name       string  `json:"name"`
	Weight     float64 `json:"weight"`
	Impact     string  `json:"impact"`
	IdealBest  float64 `json:"ideal_best"`
	IdealWorst float64 `json:"ideal_worst"`
}

type explainResponse struct {
	RunID          string             `json:"run_id"`
	TieTolerance   float64            `json:"tie_tolerance"`
	Criteria       []criterionExplain `json:"criteria"`
	Ranking        []topsis.Ranked    `json:"ranking"`
	ParetoFrontier []string           `json:"pareto_frontier"`
}

// Explain returns the ideal points, each alternative's distances to them
// ordered by rank, and the Pareto frontier of the input.
// GET /api/v1/rankings/{id}/explain
func (h *RankingsHandler) Explain(w http.ResponseWriter, r *http.Request) {
	run, ok := h.lookup(w, r)
	if !ok {
		return
	}

	criteria := make([]criterionExplain, len(run.Criteria))
	for j, name := range run.Criteria {
		c := criterionExplain{Name: name}
		if j < len(run.Weights) {
			c.Weight = run.Weights[j]
		}
		if j < len(run.Impacts) {
			c.Impact = run.Impacts[j]
		}
		if j < len(run.IdealBest) {
			c.IdealBest = run.IdealBest[j]
		}
		if j < len(run.IdealWorst) {
			c.IdealWorst = run.IdealWorst[j]
		}
		criteria[j] = c
	}

	ranking := make([]topsis.Ranked, len(run.Alternatives))
	copy(ranking, run.Alternatives)
	sort.SliceStable(ranking, func(a, b int) bool { return ranking[a].Rank < ranking[b].Rank })

	writeResponse(w, r, http.StatusOK, explainResponse{
		RunID:          run.ID.String(),
		TieTolerance:   run.TieTolerance,
		Criteria:       criteria,
		Ranking:        ranking,
		ParetoFrontier: run.ParetoFrontier,
	})
}

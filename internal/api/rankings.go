package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Topsis/internal/dataset"
	"github.com/MikeSquared-Agency/Topsis/internal/ranking"
	"github.com/MikeSquared-Agency/Topsis/internal/store"
	"github.com/MikeSquared-Agency/Topsis/internal/topsis"
)

const defaultIDColumn = "id"

type RankingsHandler struct {
	svc      *ranking.Service
	validate *validator.Validate
}

func NewRankingsHandler(svc *ranking.Service) *RankingsHandler {
	return &RankingsHandler{svc: svc, validate: validator.New()}
}

type alternativeInput struct {
	ID     string    `json:"id" validate:"required"`
	Values []float64 `json:"values" validate:"required"`
}

type createRankingRequest struct {
	Name         string             `json:"name" validate:"max=255"`
	IDColumn     string             `json:"id_column"`
	Criteria     []string           `json:"criteria" validate:"required,dive,required"`
	Alternatives []alternativeInput `json:"alternatives" validate:"required,dive"`
	Weights      []float64          `json:"weights" validate:"required"`
	Impacts      []string           `json:"impacts" validate:"required"`
}

type runResponse struct {
	ID             string          `json:"run_id"`
	Name           string          `json:"name,omitempty"`
	Source         string          `json:"source"`
	Criteria       []string        `json:"criteria"`
	Weights        []float64       `json:"weights"`
	Impacts        []string        `json:"impacts"`
	Alternatives   []topsis.Ranked `json:"alternatives"`
	IdealBest      []float64       `json:"ideal_best"`
	IdealWorst     []float64       `json:"ideal_worst"`
	ParetoFrontier []string        `json:"pareto_frontier"`
	ResultURL      string          `json:"result_url"`
	CreatedAt      time.Time       `json:"created_at"`
}

func toRunResponse(run *store.Run) runResponse {
	return runResponse{
		ID:             run.ID.String(),
		Name:           run.Name,
		Source:         run.Source,
		Criteria:       run.Criteria,
		Weights:        run.Weights,
		Impacts:        run.Impacts,
		Alternatives:   run.Alternatives,
		IdealBest:      run.IdealBest,
		IdealWorst:     run.IdealWorst,
		ParetoFrontier: run.ParetoFrontier,
		ResultURL:      fmt.Sprintf("/api/v1/rankings/%s/result.csv", run.ID),
		CreatedAt:      run.CreatedAt,
	}
}

// runSummary is the list view: no per-alternative detail.
type runSummary struct {
	ID           string    `json:"run_id"`
	Name         string    `json:"name,omitempty"`
	Source       string    `json:"source"`
	Alternatives int       `json:"alternatives"`
	Criteria     int       `json:"criteria"`
	BestID       string    `json:"best_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Create ranks an inline decision matrix.
// POST /api/v1/rankings
func (h *RankingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRankingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("%s failed %s", verrs[0].Namespace(), verrs[0].Tag()))
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	impacts := make(topsis.Impacts, len(req.Impacts))
	for i, s := range req.Impacts {
		imp, err := topsis.ParseImpact(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "impacts must be + or -")
			return
		}
		impacts[i] = imp
	}

	m := make(topsis.Matrix, len(req.Alternatives))
	for i, a := range req.Alternatives {
		m[i] = topsis.Alternative{ID: a.ID, Values: a.Values}
	}
	idColumn := req.IDColumn
	if idColumn == "" {
		idColumn = defaultIDColumn
	}

	run, err := h.svc.Rank(r.Context(), ranking.Request{
		Name:    req.Name,
		Source:  store.SourceAPI,
		Table:   dataset.FromMatrix(idColumn, req.Criteria, m),
		Weights: req.Weights,
		Impacts: impacts,
	})
	if err != nil {
		writeRankError(w, err)
		return
	}
	writeResponse(w, r, http.StatusCreated, toRunResponse(run))
}

// List returns recent runs, newest first.
// GET /api/v1/rankings?limit=&source=
func (h *RankingsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := store.RunFilter{Source: r.URL.Query().Get("source")}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = n
	}

	runs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]runSummary, 0, len(runs))
	for _, run := range runs {
		s := runSummary{
			ID:           run.ID.String(),
			Name:         run.Name,
			Source:       run.Source,
			Alternatives: len(run.Alternatives),
			Criteria:     len(run.Criteria),
			CreatedAt:    run.CreatedAt,
		}
		for _, a := range run.Alternatives {
			if a.Rank == 1 {
				s.BestID = a.ID
				break
			}
		}
		out = append(out, s)
	}
	writeResponse(w, r, http.StatusOK, out)
}

// Get returns one run.
// GET /api/v1/rankings/{id}
func (h *RankingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	run, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeResponse(w, r, http.StatusOK, toRunResponse(run))
}

// Download returns the stored result table.
// GET /api/v1/rankings/{id}/result.csv
func (h *RankingsHandler) Download(w http.ResponseWriter, r *http.Request) {
	run, ok := h.lookup(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", run.ResultFilename()))
	w.Header().Set(RunIDHeader, run.ID.String())
	w.WriteHeader(http.StatusOK)
	w.Write(run.ResultCSV)
}

// lookup resolves the {id} URL parameter, writing the error response itself
// when the run cannot be returned.
func (h *RankingsHandler) lookup(w http.ResponseWriter, r *http.Request) (*store.Run, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid run id")
		return nil, false
	}
	run, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	if run == nil {
		writeError(w, http.StatusNotFound, "run not found")
		return nil, false
	}
	return run, true
}

package store

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Topsis/internal/topsis"
)

const (
	SourceUpload = "upload"
	SourceAPI    = "api"
)

// Run is one completed ranking together with the result table it produced.
type Run struct {
	ID     uuid.UUID `json:"run_id"`
	Name   string    `json:"name,omitempty"`
	Source string    `json:"source"`

	// Inputs
	Criteria     []string  `json:"criteria"`
	Weights      []float64 `json:"weights"`
	Impacts      []string  `json:"impacts"`
	TieTolerance float64   `json:"tie_tolerance"`

	// Outputs. ParetoFrontier lists the ids no other alternative dominates.
	Alternatives   []topsis.Ranked `json:"alternatives"`
	IdealBest      []float64       `json:"ideal_best"`
	IdealWorst     []float64       `json:"ideal_worst"`
	ParetoFrontier []string        `json:"pareto_frontier"`
	ResultCSV      []byte          `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// ResultFilename is the download name of the result table: "result_" plus
// the base name of the uploaded file.
func (r *Run) ResultFilename() string {
	base := filepath.Base(r.Name)
	if r.Name == "" || base == "." || base == string(filepath.Separator) {
		return "result.csv"
	}
	if !strings.HasSuffix(strings.ToLower(base), ".csv") {
		base += ".csv"
	}
	return "result_" + base
}

type RunFilter struct {
	Source string
	Limit  int
}

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

func (f RunFilter) limit() int {
	switch {
	case f.Limit <= 0:
		return DefaultListLimit
	case f.Limit > MaxListLimit:
		return MaxListLimit
	default:
		return f.Limit
	}
}

// Store persists ranking runs. GetRun returns (nil, nil) for unknown ids.
// ListRuns returns newest first.
type Store interface {
	SaveRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, id uuid.UUID) (*Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]*Run, error)

	Close() error
}

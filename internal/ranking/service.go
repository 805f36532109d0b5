// Package ranking runs a TOPSIS computation end to end: compute, serialize the
// result table, persist the run and announce it.
package ranking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/MikeSquared-Agency/Topsis/internal/config"
	"github.com/MikeSquared-Agency/Topsis/internal/dataset"
	"github.com/MikeSquared-Agency/Topsis/internal/events"
	"github.com/MikeSquared-Agency/Topsis/internal/metrics"
	"github.com/MikeSquared-Agency/Topsis/internal/store"
	"github.com/MikeSquared-Agency/Topsis/internal/topsis"
)

const tracerName = "github.com/MikeSquared-Agency/Topsis/internal/ranking"

// ErrNoTable is returned when a request carries no input table.
var ErrNoTable = errors.New("ranking: request has no input table")

// Request is one ranking job. Table holds the identifier column followed by
// the criterion columns, exactly as it will appear in the result file.
type Request struct {
	Name    string
	Source  string
	Table   *dataset.Table
	Weights topsis.Weights
	Impacts topsis.Impacts
}

type Service struct {
	store     store.Store
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	tracer    trace.Tracer

	tolerance float64
	precision int
	now       func() time.Time
}

// New builds a Service. publisher and m may be nil.
func New(s store.Store, publisher events.Publisher, m *metrics.Metrics, cfg config.RankingConfig, logger *slog.Logger) *Service {
	return &Service{
		store:     s,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
		tracer:    otel.Tracer(tracerName),
		tolerance: cfg.TieTolerance,
		precision: cfg.ScorePrecision,
		now:       time.Now,
	}
}

// Rank computes, stores and publishes one run. Input problems come back as
// errors satisfying topsis.IsValidation.
func (s *Service) Rank(ctx context.Context, req Request) (*store.Run, error) {
	start := s.now()
	id := uuid.New()

	ctx, span := s.tracer.Start(ctx, "ranking.Rank", trace.WithAttributes(
		attribute.String("topsis.run_id", id.String()),
		attribute.String("topsis.source", req.Source),
	))
	defer span.End()

	run, err := s.rank(ctx, id, req)
	if err != nil {
		status := metrics.StatusError
		if topsis.IsValidation(err) {
			status = metrics.StatusInvalid
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.metrics.ObserveRun(req.Source, status, 0, s.now().Sub(start))
		s.logger.Warn("ranking failed", "run_id", id, "source", req.Source, "name", req.Name, "error", err)

		s.publish(events.SubjectRunFailed(id.String()), events.RunFailedEvent{
			RunID:     id.String(),
			Source:    req.Source,
			Name:      req.Name,
			Error:     err.Error(),
			Invalid:   status == metrics.StatusInvalid,
			Timestamp: s.now().UTC(),
		})
		return nil, err
	}

	best := run.Alternatives[0]
	for _, a := range run.Alternatives {
		if a.Rank < best.Rank {
			best = a
		}
	}
	span.SetAttributes(
		attribute.Int("topsis.alternatives", len(run.Alternatives)),
		attribute.Int("topsis.criteria", len(run.Criteria)),
		attribute.String("topsis.best_id", best.ID),
	)
	s.metrics.ObserveRun(req.Source, metrics.StatusOK, len(run.Alternatives), s.now().Sub(start))
	s.logger.Info("ranking completed",
		"run_id", id,
		"source", req.Source,
		"name", req.Name,
		"alternatives", len(run.Alternatives),
		"best", best.ID,
	)

	s.publish(events.SubjectRunCompleted(id.String()), events.RunCompletedEvent{
		RunID:        id.String(),
		Source:       req.Source,
		Name:         req.Name,
		Alternatives: len(run.Alternatives),
		Criteria:     len(run.Criteria),
		BestID:       best.ID,
		BestScore:    best.Score,
		Timestamp:    run.CreatedAt,
	})
	return run, nil
}

func (s *Service) rank(ctx context.Context, id uuid.UUID, req Request) (*store.Run, error) {
	if req.Table == nil {
		return nil, ErrNoTable
	}
	m, err := req.Table.Matrix()
	if err != nil {
		return nil, err
	}

	res, err := topsis.Compute(m, req.Weights, req.Impacts, topsis.WithTieTolerance(s.tolerance))
	if err != nil {
		return nil, err
	}

	csv, err := dataset.EncodeResult(req.Table, res, s.precision)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}

	frontier := topsis.ParetoFrontier(m, req.Impacts)
	frontierIDs := make([]string, len(frontier))
	for i, idx := range frontier {
		frontierIDs[i] = m[idx].ID
	}

	impacts := make([]string, len(req.Impacts))
	for i, imp := range req.Impacts {
		impacts[i] = string(imp)
	}

	run := &store.Run{
		ID:             id,
		Name:           req.Name,
		Source:         req.Source,
		Criteria:       req.Table.Criteria(),
		Weights:        req.Weights,
		Impacts:        impacts,
		TieTolerance:   s.tolerance,
		Alternatives:   res.Alternatives,
		IdealBest:      res.IdealBest,
		IdealWorst:     res.IdealWorst,
		ParetoFrontier: frontierIDs,
		ResultCSV:      csv,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.store.SaveRun(ctx, run); err != nil {
		return nil, fmt.Errorf("save run: %w", err)
	}
	return run, nil
}

func (s *Service) publish(subject string, v interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(subject, v); err != nil {
		s.logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}

// Get returns a stored run, or nil when id is unknown.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*store.Run, error) {
	return s.store.GetRun(ctx, id)
}

func (s *Service) List(ctx context.Context, filter store.RunFilter) ([]*store.Run, error) {
	return s.store.ListRuns(ctx, filter)
}

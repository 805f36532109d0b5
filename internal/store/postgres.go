package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pool is the subset of *pgxpool.Pool the store needs.
type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

type PostgresStore struct {
	pool pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	p, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: p}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS topsis_runs (
	run_id          UUID PRIMARY KEY,
	name            TEXT NOT NULL DEFAULT '',
	source          TEXT NOT NULL,
	criteria        TEXT[] NOT NULL,
	weights         DOUBLE PRECISION[] NOT NULL,
	impacts         TEXT[] NOT NULL,
	tie_tolerance   DOUBLE PRECISION NOT NULL,
	alternatives    JSONB NOT NULL,
	ideal_best      DOUBLE PRECISION[] NOT NULL,
	ideal_worst     DOUBLE PRECISION[] NOT NULL,
	pareto_frontier TEXT[] NOT NULL DEFAULT '{}',
	result_csv      BYTEA NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS topsis_runs_created_at_idx ON topsis_runs (created_at DESC);`

// Migrate creates the runs table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate topsis_runs: %w", err)
	}
	return nil
}

const runColumns = `run_id, name, source, criteria, weights, impacts, tie_tolerance,
	alternatives, ideal_best, ideal_worst, pareto_frontier, result_csv, created_at`

func (s *PostgresStore) SaveRun(ctx context.Context, run *Run) error {
	alternativesJSON, err := json.Marshal(run.Alternatives)
	if err != nil {
		return fmt.Errorf("encode alternatives: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO topsis_runs (`+runColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		run.ID, run.Name, run.Source, run.Criteria, run.Weights, run.Impacts, run.TieTolerance,
		alternativesJSON, run.IdealBest, run.IdealWorst, run.ParetoFrontier, run.ResultCSV, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetRun(ctx context.Context, id uuid.UUID) (*Run, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+runColumns+` FROM topsis_runs WHERE run_id = $1`, id)
	r, err := scanRun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]*Run, error) {
	query := `SELECT ` + runColumns + ` FROM topsis_runs`
	args := []interface{}{}
	n := 0

	if filter.Source != "" {
		n++
		query += fmt.Sprintf(" WHERE source = $%d", n)
		args = append(args, filter.Source)
	}
	n++
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", n)
	args = append(args, filter.limit())

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func scanRun(row pgx.Row) (*Run, error) {
	r := &Run{}
	var alternativesJSON []byte
	err := row.Scan(
		&r.ID, &r.Name, &r.Source, &r.Criteria, &r.Weights, &r.Impacts, &r.TieTolerance,
		&alternativesJSON, &r.IdealBest, &r.IdealWorst, &r.ParetoFrontier, &r.ResultCSV, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(alternativesJSON, &r.Alternatives); err != nil {
		return nil, fmt.Errorf("decode alternatives for run %s: %w", r.ID, err)
	}
	return r, nil
}

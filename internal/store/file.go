package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
)

const runManifest = "run.json"

// FileStore keeps each run in its own directory under a results root:
//
//	<root>/<run id>/run.json
//	<root>/<run id>/result_<name>.csv
//
// run.json is written last, so a directory without it is ignored.
type FileStore struct {
	root string
}

func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create results dir: %w", err)
	}
	return &FileStore{root: root}, nil
}

func (s *FileStore) SaveRun(_ context.Context, run *Run) error {
	dir := filepath.Join(s.root, run.ID.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create run dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, run.ResultFilename()), run.ResultCSV, 0o644); err != nil {
		return fmt.Errorf("write result table: %w", err)
	}

	manifest, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, runManifest), manifest, 0o644); err != nil {
		return fmt.Errorf("write run manifest: %w", err)
	}
	return nil
}

func (s *FileStore) GetRun(_ context.Context, id uuid.UUID) (*Run, error) {
	run, err := s.readManifest(id.String())
	if err != nil || run == nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.root, id.String(), run.ResultFilename()))
	if err != nil {
		return nil, fmt.Errorf("read result table: %w", err)
	}
	run.ResultCSV = data
	return run, nil
}

func (s *FileStore) ListRuns(_ context.Context, filter RunFilter) ([]*Run, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("read results dir: %w", err)
	}

	var runs []*Run
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := uuid.Parse(e.Name()); err != nil {
			continue
		}
		run, err := s.readManifest(e.Name())
		if err != nil {
			return nil, err
		}
		if run == nil || (filter.Source != "" && run.Source != filter.Source) {
			continue
		}
		runs = append(runs, run)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
	if limit := filter.limit(); len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func (s *FileStore) readManifest(id string) (*Run, error) {
	data, err := os.ReadFile(filepath.Join(s.root, id, runManifest))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read run manifest: %w", err)
	}
	run := &Run{}
	if err := json.Unmarshal(data, run); err != nil {
		return nil, fmt.Errorf("decode run manifest %s: %w", id, err)
	}
	return run, nil
}

func (s *FileStore) Close() error { return nil }

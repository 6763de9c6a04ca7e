package memstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/bitext/internal/bitexterr"
	"github.com/cognicore/bitext/pkg/bitext/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu     sync.RWMutex
	runs   map[string]store.Run
	stages map[string]map[int]store.StageReport
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		runs:   make(map[string]store.Run),
		stages: make(map[string]map[int]store.StageReport),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// CreateRun records the start of a run.
func (s *Store) CreateRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return errors.New("memstore: run ID is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[r.ID]; ok {
		return fmt.Errorf("memstore: run %s already exists", r.ID)
	}
	if r.Status == "" {
		r.Status = store.StatusRunning
	}
	s.runs[r.ID] = r
	return nil
}

// FinishRun stores the outcome of a run.
func (s *Store) FinishRun(ctx context.Context, id string, res store.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.runs[id]
	if !ok {
		return fmt.Errorf("run %s: %w", id, bitexterr.ErrNotFound)
	}
	r.Status = res.Status
	r.Input = res.Input
	r.Output = res.Output
	r.Error = res.Error
	r.FinishedAt = res.FinishedAt
	s.runs[id] = r
	return nil
}

// GetRun loads a run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.runs[id]
	if !ok {
		return store.Run{}, fmt.Errorf("run %s: %w", id, bitexterr.ErrNotFound)
	}
	return r, nil
}

// ListRuns returns the most recent runs first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]store.Run, 0, len(s.runs))
	for _, r := range s.runs {
		runs = append(runs, r)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].ID > runs[j].ID })
	if len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// AddStageReport appends a stage outcome to a run.
func (s *Store) AddStageReport(ctx context.Context, runID string, sr store.StageReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[runID]; !ok {
		return fmt.Errorf("run %s: %w", runID, bitexterr.ErrNotFound)
	}
	if s.stages[runID] == nil {
		s.stages[runID] = make(map[int]store.StageReport)
	}
	s.stages[runID][sr.Position] = sr
	return nil
}

// StageReports lists the stages of a run in execution order.
func (s *Store) StageReports(ctx context.Context, runID string) ([]store.StageReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.StageReport, 0, len(s.stages[runID]))
	for _, sr := range s.stages[runID] {
		out = append(out, sr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

var _ store.Store = (*Store)(nil)

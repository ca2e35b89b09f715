package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/okian/nutriscreen/internal/domain/types"
	"github.com/okian/nutriscreen/pkg/metrics"
)

// MemoryStore is an in-memory Store. It is safe for concurrent use.
type MemoryStore struct {
	mu         sync.RWMutex
	records    map[string]types.Record
	maxRecords int
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{records: make(map[string]types.Record)}
	for _, opt := range opts {
		opt(s)
	}
	metrics.UpdateRepositoryRecords(0)
	return s
}

func (s *MemoryStore) Save(_ context.Context, rec types.Record) error { //nolint:gocritic // hugeParam: stored by value
	if rec.ScreeningID == "" {
		return ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[rec.ScreeningID]; !exists && s.maxRecords > 0 && len(s.records) >= s.maxRecords {
		metrics.RecordError("repository", "capacity")
		return fmt.Errorf("%w: %d records", ErrCapacity, s.maxRecords)
	}
	s.records[rec.ScreeningID] = rec
	metrics.UpdateRepositoryRecords(len(s.records))
	return nil
}

func (s *MemoryStore) Get(_ context.Context, screeningID string) (types.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[screeningID]
	if !ok {
		return types.Record{}, ErrNotFound
	}
	return rec, nil
}

func (s *MemoryStore) TopRisk(_ context.Context, n int) ([]types.Record, error) {
	if n <= 0 {
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	out := make([]types.Record, 0, len(s.records))
	for _, rec := range s.records {
		if rec.Result.Success {
			out = append(out, rec)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Result.Risk.Score, out[j].Result.Risk.Score
		if a != b {
			return a > b
		}
		return out[i].ScreeningID < out[j].ScreeningID
	})
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (s *MemoryStore) Stats(_ context.Context) types.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := types.NewStats()
	for _, rec := range s.records {
		st.Add(&rec.Result)
	}
	return st
}

func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

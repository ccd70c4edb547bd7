package memory

import (
	"context"
	"sort"
	"sync"

	"perf-governor/internal/domain"
	"perf-governor/internal/storage"
)

// VariantStatsStore is an in-memory implementation of storage.VariantStatsStore.
type VariantStatsStore struct {
	mu   sync.RWMutex
	data map[string][]*domain.VariantAggregateRow // keyed by engine_version
}

// NewVariantStatsStore creates an empty variant stats store.
func NewVariantStatsStore() *VariantStatsStore {
	return &VariantStatsStore{data: make(map[string][]*domain.VariantAggregateRow)}
}

// InsertBulk adds aggregate rows. Rows with an empty variant name are rejected.
func (s *VariantStatsStore) InsertBulk(_ context.Context, rows []*domain.VariantAggregateRow) error {
	if len(rows) == 0 {
		return nil
	}
	for _, r := range rows {
		if r == nil || r.FilterVariant == "" {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rows {
		copy := *r
		s.data[r.EngineVersion] = append(s.data[r.EngineVersion], &copy)
	}
	return nil
}

// ListByVersion retrieves rows for an engine version, ordered by variant ASC.
func (s *VariantStatsStore) ListByVersion(_ context.Context, engineVersion string) ([]*domain.VariantAggregateRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.data[engineVersion]
	out := make([]*domain.VariantAggregateRow, len(rows))
	for i, r := range rows {
		copy := *r
		out[i] = &copy
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].FilterVariant < out[j].FilterVariant
	})
	return out, nil
}

var _ storage.VariantStatsStore = (*VariantStatsStore)(nil)

package memory

import (
	"context"
	"sort"
	"sync"

	"perf-governor/internal/domain"
	"perf-governor/internal/storage"
)

// TickerStatsStore is an in-memory implementation of storage.TickerStatsStore.
type TickerStatsStore struct {
	mu   sync.RWMutex
	data map[string][]*domain.TickerStats // keyed by version|horizon
}

// NewTickerStatsStore creates an empty ticker stats store.
func NewTickerStatsStore() *TickerStatsStore {
	return &TickerStatsStore{data: make(map[string][]*domain.TickerStats)}
}

func statsKey(version string, horizon domain.Horizon) string {
	return version + "|" + string(horizon)
}

// Insert appends one stats row for (engine_version, horizon).
func (s *TickerStatsStore) Insert(_ context.Context, version string, horizon domain.Horizon, row *domain.TickerStats) error {
	if row == nil || row.Ticker == "" {
		return storage.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := *row
	s.data[statsKey(version, horizon)] = append(s.data[statsKey(version, horizon)], &copy)
	return nil
}

// ListByVersionHorizon retrieves stats for the pair, ordered by ticker ASC.
func (s *TickerStatsStore) ListByVersionHorizon(_ context.Context, version string, horizon domain.Horizon) ([]*domain.TickerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.data[statsKey(version, horizon)]
	out := make([]*domain.TickerStats, len(rows))
	for i, r := range rows {
		copy := *r
		out[i] = &copy
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Ticker < out[j].Ticker
	})
	return out, nil
}

var _ storage.TickerStatsStore = (*TickerStatsStore)(nil)

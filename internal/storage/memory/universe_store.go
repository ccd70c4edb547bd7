package memory

import (
	"context"
	"sort"
	"sync"

	"perf-governor/internal/storage"
)

// UniverseStore is an in-memory implementation of storage.UniverseStore.
// Membership is a real set guarded by one mutex, so Add/Remove are atomic:
// concurrent mutations of the same universe cannot lose each other.
type UniverseStore struct {
	mu   sync.RWMutex
	data map[string]map[string]struct{} // universe -> ticker set
}

// NewUniverseStore creates an empty universe store.
func NewUniverseStore() *UniverseStore {
	return &UniverseStore{data: make(map[string]map[string]struct{})}
}

// Members retrieves the ticker set of a universe, ordered by ticker ASC.
// An unknown universe is an empty set.
func (s *UniverseStore) Members(_ context.Context, universe string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := s.data[universe]
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out, nil
}

// Add inserts a ticker. No-op if already present.
func (s *UniverseStore) Add(_ context.Context, universe, ticker string) error {
	if universe == "" || ticker == "" {
		return storage.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.data[universe]
	if !ok {
		set = make(map[string]struct{})
		s.data[universe] = set
	}
	set[ticker] = struct{}{}
	return nil
}

// Remove deletes a ticker. No-op if absent.
func (s *UniverseStore) Remove(_ context.Context, universe, ticker string) error {
	if universe == "" || ticker == "" {
		return storage.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data[universe], ticker)
	return nil
}

var _ storage.UniverseStore = (*UniverseStore)(nil)

package memory

import (
	"context"
	"sort"
	"sync"

	"perf-governor/internal/domain"
	"perf-governor/internal/storage"
)

// SnapshotStore is an in-memory implementation of storage.SnapshotStore.
type SnapshotStore struct {
	mu   sync.RWMutex
	data map[string][]*domain.PortfolioSnapshot // keyed by identity string
}

// NewSnapshotStore creates an empty snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{data: make(map[string][]*domain.PortfolioSnapshot)}
}

// Insert appends one snapshot for an identity.
func (s *SnapshotStore) Insert(_ context.Context, id domain.EngineIdentity, snap *domain.PortfolioSnapshot) error {
	if snap == nil {
		return storage.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := *snap
	s.data[id.String()] = append(s.data[id.String()], &copy)
	return nil
}

// ListByEngine retrieves snapshots for an identity, ordered by timestamp ASC.
func (s *SnapshotStore) ListByEngine(_ context.Context, id domain.EngineIdentity) ([]*domain.PortfolioSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snaps := s.data[id.String()]
	out := make([]*domain.PortfolioSnapshot, len(snaps))
	for i, snap := range snaps {
		copy := *snap
		out[i] = &copy
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

var _ storage.SnapshotStore = (*SnapshotStore)(nil)

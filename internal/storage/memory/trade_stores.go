// Package memory provides in-memory store implementations, used by tests and
// the --use-memory server mode.
package memory

import (
	"context"
	"sync"

	"perf-governor/internal/domain"
	"perf-governor/internal/storage"
)

func engineKey(key, version string) string {
	return key + "@" + version
}

// LiveTradeStore is an in-memory implementation of storage.LiveTradeStore.
type LiveTradeStore struct {
	mu   sync.RWMutex
	data map[string][]*domain.LiveStockTradeRow
}

// NewLiveTradeStore creates an empty live trade store.
func NewLiveTradeStore() *LiveTradeStore {
	return &LiveTradeStore{data: make(map[string][]*domain.LiveStockTradeRow)}
}

// Insert appends a row for an engine.
func (s *LiveTradeStore) Insert(_ context.Context, key, version string, r *domain.LiveStockTradeRow) error {
	if r == nil {
		return storage.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := *r
	s.data[engineKey(key, version)] = append(s.data[engineKey(key, version)], &copy)
	return nil
}

// ListByEngine retrieves all rows for an engine key/version in insert order.
func (s *LiveTradeStore) ListByEngine(_ context.Context, key, version string) ([]*domain.LiveStockTradeRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := s.data[engineKey(key, version)]
	out := make([]*domain.LiveStockTradeRow, len(rows))
	for i, r := range rows {
		copy := *r
		out[i] = &copy
	}
	return out, nil
}

var _ storage.LiveTradeStore = (*LiveTradeStore)(nil)

// ShadowStockTradeStore is an in-memory implementation of
// storage.ShadowStockTradeStore.
type ShadowStockTradeStore struct {
	mu   sync.RWMutex
	data map[string][]*domain.ShadowStockTradeRow
}

// NewShadowStockTradeStore creates an empty shadow stock trade store.
func NewShadowStockTradeStore() *ShadowStockTradeStore {
	return &ShadowStockTradeStore{data: make(map[string][]*domain.ShadowStockTradeRow)}
}

// Insert appends a row for an engine.
func (s *ShadowStockTradeStore) Insert(_ context.Context, key, version string, r *domain.ShadowStockTradeRow) error {
	if r == nil {
		return storage.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := *r
	s.data[engineKey(key, version)] = append(s.data[engineKey(key, version)], &copy)
	return nil
}

// ListByEngine retrieves all rows for an engine key/version in insert order.
func (s *ShadowStockTradeStore) ListByEngine(_ context.Context, key, version string) ([]*domain.ShadowStockTradeRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := s.data[engineKey(key, version)]
	out := make([]*domain.ShadowStockTradeRow, len(rows))
	for i, r := range rows {
		copy := *r
		out[i] = &copy
	}
	return out, nil
}

var _ storage.ShadowStockTradeStore = (*ShadowStockTradeStore)(nil)

// ShadowCryptoTradeStore is an in-memory implementation of
// storage.ShadowCryptoTradeStore, holding trades and open positions.
type ShadowCryptoTradeStore struct {
	mu        sync.RWMutex
	trades    map[string][]*domain.ShadowCryptoTradeRow
	positions map[string][]*domain.CryptoPositionRow
}

// NewShadowCryptoTradeStore creates an empty shadow crypto trade store.
func NewShadowCryptoTradeStore() *ShadowCryptoTradeStore {
	return &ShadowCryptoTradeStore{
		trades:    make(map[string][]*domain.ShadowCryptoTradeRow),
		positions: make(map[string][]*domain.CryptoPositionRow),
	}
}

// Insert appends a trade row for an engine.
func (s *ShadowCryptoTradeStore) Insert(_ context.Context, key, version string, r *domain.ShadowCryptoTradeRow) error {
	if r == nil {
		return storage.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := *r
	s.trades[engineKey(key, version)] = append(s.trades[engineKey(key, version)], &copy)
	return nil
}

// InsertPosition appends an open position row for an engine.
func (s *ShadowCryptoTradeStore) InsertPosition(_ context.Context, key, version string, p *domain.CryptoPositionRow) error {
	if p == nil {
		return storage.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := *p
	s.positions[engineKey(key, version)] = append(s.positions[engineKey(key, version)], &copy)
	return nil
}

// ListByEngine retrieves all trade rows for an engine key/version in insert order.
func (s *ShadowCryptoTradeStore) ListByEngine(_ context.Context, key, version string) ([]*domain.ShadowCryptoTradeRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := s.trades[engineKey(key, version)]
	out := make([]*domain.ShadowCryptoTradeRow, len(rows))
	for i, r := range rows {
		copy := *r
		out[i] = &copy
	}
	return out, nil
}

// ListOpenPositions retrieves open positions for an engine key/version.
func (s *ShadowCryptoTradeStore) ListOpenPositions(_ context.Context, key, version string) ([]*domain.CryptoPositionRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := s.positions[engineKey(key, version)]
	out := make([]*domain.CryptoPositionRow, len(rows))
	for i, r := range rows {
		copy := *r
		out[i] = &copy
	}
	return out, nil
}

var _ storage.ShadowCryptoTradeStore = (*ShadowCryptoTradeStore)(nil)

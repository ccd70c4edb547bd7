package postgres

import (
	"context"
	"fmt"

	"perf-governor/internal/storage"
)

// UniverseStore implements storage.UniverseStore using PostgreSQL. The
// (universe, ticker) primary key plus ON CONFLICT DO NOTHING makes Add an
// atomic set insertion: concurrent promotions of different tickers on the
// same universe both land, and repeated promotions are no-ops.
type UniverseStore struct {
	pool *Pool
}

// NewUniverseStore creates a new UniverseStore.
func NewUniverseStore(pool *Pool) *UniverseStore {
	return &UniverseStore{pool: pool}
}

var _ storage.UniverseStore = (*UniverseStore)(nil)

// Members retrieves the ticker set of a universe, ordered by ticker ASC.
func (s *UniverseStore) Members(ctx context.Context, universe string) ([]string, error) {
	query := `
		SELECT ticker FROM universe_members
		WHERE universe = $1
		ORDER BY ticker ASC
	`

	rows, err := s.pool.Query(ctx, query, universe)
	if err != nil {
		return nil, fmt.Errorf("list universe members: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var ticker string
		if err := rows.Scan(&ticker); err != nil {
			return nil, fmt.Errorf("scan universe member: %w", err)
		}
		out = append(out, ticker)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate universe members: %w", err)
	}
	return out, nil
}

// Add inserts a ticker into a universe. No-op if already present.
func (s *UniverseStore) Add(ctx context.Context, universe, ticker string) error {
	if universe == "" || ticker == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO universe_members (universe, ticker)
		VALUES ($1, $2)
		ON CONFLICT (universe, ticker) DO NOTHING
	`

	if _, err := s.pool.Exec(ctx, query, universe, ticker); err != nil {
		return fmt.Errorf("add universe member: %w", err)
	}
	return nil
}

// Remove deletes a ticker from a universe. No-op if absent.
func (s *UniverseStore) Remove(ctx context.Context, universe, ticker string) error {
	if universe == "" || ticker == "" {
		return storage.ErrInvalidInput
	}

	query := `DELETE FROM universe_members WHERE universe = $1 AND ticker = $2`

	if _, err := s.pool.Exec(ctx, query, universe, ticker); err != nil {
		return fmt.Errorf("remove universe member: %w", err)
	}
	return nil
}

package postgres

import (
	"context"
	"fmt"

	"perf-governor/internal/domain"
	"perf-governor/internal/storage"
)

// LiveTradeStore implements storage.LiveTradeStore using PostgreSQL.
type LiveTradeStore struct {
	pool *Pool
}

// NewLiveTradeStore creates a new LiveTradeStore.
func NewLiveTradeStore(pool *Pool) *LiveTradeStore {
	return &LiveTradeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.LiveTradeStore = (*LiveTradeStore)(nil)

// Insert adds a trade row for an engine. Used by upstream writers and tests.
func (s *LiveTradeStore) Insert(ctx context.Context, engineKey, engineVersion string, r *domain.LiveStockTradeRow) error {
	query := `
		INSERT INTO live_trades (
			engine_key, engine_version, symbol, direction,
			fill_price, close_price, opened_at, closed_at, realized_usd, r_multiple
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := s.pool.Exec(ctx, query,
		engineKey, engineVersion, r.Symbol, r.Direction,
		r.FillPrice, r.ClosePrice, r.OpenedAt, r.ClosedAt, r.RealizedUSD, r.RMultiple,
	)
	if err != nil {
		return fmt.Errorf("insert live trade: %w", err)
	}
	return nil
}

// ListByEngine retrieves all rows for an engine key/version, opened_at ASC.
func (s *LiveTradeStore) ListByEngine(ctx context.Context, engineKey, engineVersion string) ([]*domain.LiveStockTradeRow, error) {
	query := `
		SELECT symbol, direction, fill_price, close_price, opened_at, closed_at, realized_usd, r_multiple
		FROM live_trades
		WHERE engine_key = $1 AND engine_version = $2
		ORDER BY opened_at ASC, symbol ASC
	`

	rows, err := s.pool.Query(ctx, query, engineKey, engineVersion)
	if err != nil {
		return nil, fmt.Errorf("list live trades: %w", err)
	}
	defer rows.Close()

	var out []*domain.LiveStockTradeRow
	for rows.Next() {
		r := &domain.LiveStockTradeRow{}
		if err := rows.Scan(&r.Symbol, &r.Direction, &r.FillPrice, &r.ClosePrice, &r.OpenedAt, &r.ClosedAt, &r.RealizedUSD, &r.RMultiple); err != nil {
			return nil, fmt.Errorf("scan live trade: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate live trades: %w", err)
	}
	return out, nil
}

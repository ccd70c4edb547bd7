package postgres

import (
	"context"
	"fmt"

	"perf-governor/internal/domain"
	"perf-governor/internal/storage"
)

// ShadowStockTradeStore implements storage.ShadowStockTradeStore using PostgreSQL.
type ShadowStockTradeStore struct {
	pool *Pool
}

// NewShadowStockTradeStore creates a new ShadowStockTradeStore.
func NewShadowStockTradeStore(pool *Pool) *ShadowStockTradeStore {
	return &ShadowStockTradeStore{pool: pool}
}

var _ storage.ShadowStockTradeStore = (*ShadowStockTradeStore)(nil)

// Insert adds a trade row for an engine. Used by upstream writers and tests.
func (s *ShadowStockTradeStore) Insert(ctx context.Context, engineKey, engineVersion string, r *domain.ShadowStockTradeRow) error {
	query := `
		INSERT INTO shadow_stock_trades (
			engine_key, engine_version, ticker, position_side,
			entry_px, exit_px, entered_at, exited_at, pnl_usd, pnl_r, unrealized_usd
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := s.pool.Exec(ctx, query,
		engineKey, engineVersion, r.Ticker, r.PositionSide,
		r.EntryPx, r.ExitPx, r.EnteredAt, r.ExitedAt, r.PnLUSD, r.PnLR, r.UnrealizedUSD,
	)
	if err != nil {
		return fmt.Errorf("insert shadow stock trade: %w", err)
	}
	return nil
}

// ListByEngine retrieves all rows for an engine key/version, entered_at ASC.
func (s *ShadowStockTradeStore) ListByEngine(ctx context.Context, engineKey, engineVersion string) ([]*domain.ShadowStockTradeRow, error) {
	query := `
		SELECT ticker, position_side, entry_px, exit_px, entered_at, exited_at, pnl_usd, pnl_r, unrealized_usd
		FROM shadow_stock_trades
		WHERE engine_key = $1 AND engine_version = $2
		ORDER BY entered_at ASC, ticker ASC
	`

	rows, err := s.pool.Query(ctx, query, engineKey, engineVersion)
	if err != nil {
		return nil, fmt.Errorf("list shadow stock trades: %w", err)
	}
	defer rows.Close()

	var out []*domain.ShadowStockTradeRow
	for rows.Next() {
		r := &domain.ShadowStockTradeRow{}
		if err := rows.Scan(&r.Ticker, &r.PositionSide, &r.EntryPx, &r.ExitPx, &r.EnteredAt, &r.ExitedAt, &r.PnLUSD, &r.PnLR, &r.UnrealizedUSD); err != nil {
			return nil, fmt.Errorf("scan shadow stock trade: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shadow stock trades: %w", err)
	}
	return out, nil
}

// ShadowCryptoTradeStore implements storage.ShadowCryptoTradeStore using PostgreSQL.
type ShadowCryptoTradeStore struct {
	pool *Pool
}

// NewShadowCryptoTradeStore creates a new ShadowCryptoTradeStore.
func NewShadowCryptoTradeStore(pool *Pool) *ShadowCryptoTradeStore {
	return &ShadowCryptoTradeStore{pool: pool}
}

var _ storage.ShadowCryptoTradeStore = (*ShadowCryptoTradeStore)(nil)

// Insert adds a trade row for an engine. Used by upstream writers and tests.
func (s *ShadowCryptoTradeStore) Insert(ctx context.Context, engineKey, engineVersion string, r *domain.ShadowCryptoTradeRow) error {
	query := `
		INSERT INTO shadow_crypto_trades (
			engine_key, engine_version, pair, order_side,
			entry_quote, exit_quote, open_time, close_time, pnl_quote, pnl_r
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := s.pool.Exec(ctx, query,
		engineKey, engineVersion, r.Pair, r.OrderSide,
		r.EntryQuote, r.ExitQuote, r.OpenTime, r.CloseTime, r.PnLQuote, r.PnLR,
	)
	if err != nil {
		return fmt.Errorf("insert shadow crypto trade: %w", err)
	}
	return nil
}

// InsertPosition adds an open position row for an engine.
func (s *ShadowCryptoTradeStore) InsertPosition(ctx context.Context, engineKey, engineVersion string, p *domain.CryptoPositionRow) error {
	query := `
		INSERT INTO crypto_positions (
			engine_key, engine_version, pair, order_side, entry_quote, mark_quote, unrealized_usd
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.pool.Exec(ctx, query,
		engineKey, engineVersion, p.Pair, p.OrderSide, p.EntryQuote, p.MarkQuote, p.UnrealizedUSD,
	)
	if err != nil {
		return fmt.Errorf("insert crypto position: %w", err)
	}
	return nil
}

// ListByEngine retrieves all rows for an engine key/version, open_time ASC.
func (s *ShadowCryptoTradeStore) ListByEngine(ctx context.Context, engineKey, engineVersion string) ([]*domain.ShadowCryptoTradeRow, error) {
	query := `
		SELECT pair, order_side, entry_quote, exit_quote, open_time, close_time, pnl_quote, pnl_r
		FROM shadow_crypto_trades
		WHERE engine_key = $1 AND engine_version = $2
		ORDER BY open_time ASC, pair ASC
	`

	rows, err := s.pool.Query(ctx, query, engineKey, engineVersion)
	if err != nil {
		return nil, fmt.Errorf("list shadow crypto trades: %w", err)
	}
	defer rows.Close()

	var out []*domain.ShadowCryptoTradeRow
	for rows.Next() {
		r := &domain.ShadowCryptoTradeRow{}
		if err := rows.Scan(&r.Pair, &r.OrderSide, &r.EntryQuote, &r.ExitQuote, &r.OpenTime, &r.CloseTime, &r.PnLQuote, &r.PnLR); err != nil {
			return nil, fmt.Errorf("scan shadow crypto trade: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shadow crypto trades: %w", err)
	}
	return out, nil
}

// ListOpenPositions retrieves open positions for an engine key/version.
func (s *ShadowCryptoTradeStore) ListOpenPositions(ctx context.Context, engineKey, engineVersion string) ([]*domain.CryptoPositionRow, error) {
	query := `
		SELECT pair, order_side, entry_quote, mark_quote, unrealized_usd
		FROM crypto_positions
		WHERE engine_key = $1 AND engine_version = $2
		ORDER BY pair ASC
	`

	rows, err := s.pool.Query(ctx, query, engineKey, engineVersion)
	if err != nil {
		return nil, fmt.Errorf("list crypto positions: %w", err)
	}
	defer rows.Close()

	var out []*domain.CryptoPositionRow
	for rows.Next() {
		p := &domain.CryptoPositionRow{}
		if err := rows.Scan(&p.Pair, &p.OrderSide, &p.EntryQuote, &p.MarkQuote, &p.UnrealizedUSD); err != nil {
			return nil, fmt.Errorf("scan crypto position: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate crypto positions: %w", err)
	}
	return out, nil
}

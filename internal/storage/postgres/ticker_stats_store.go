package postgres

import (
	"context"
	"fmt"

	"perf-governor/internal/domain"
	"perf-governor/internal/storage"
)

// TickerStatsStore implements storage.TickerStatsStore using PostgreSQL.
type TickerStatsStore struct {
	pool *Pool
}

// NewTickerStatsStore creates a new TickerStatsStore.
func NewTickerStatsStore(pool *Pool) *TickerStatsStore {
	return &TickerStatsStore{pool: pool}
}

var _ storage.TickerStatsStore = (*TickerStatsStore)(nil)

// Insert adds one stats row. Returns ErrDuplicateKey if the
// (engine_version, horizon, ticker) key exists.
func (s *TickerStatsStore) Insert(ctx context.Context, engineVersion string, horizon domain.Horizon, r *domain.TickerStats) error {
	query := `
		INSERT INTO ticker_stats (
			engine_version, horizon, ticker,
			trades, win_rate, expectancy_r, max_drawdown_pct, profit_factor, avg_confidence_14d
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.pool.Exec(ctx, query,
		engineVersion, string(horizon), r.Ticker,
		r.Trades, r.WinRate, r.ExpectancyR, r.MaxDrawdownPct, r.ProfitFactor, r.AvgConfidence14,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert ticker stats: %w", err)
	}
	return nil
}

// ListByVersionHorizon retrieves stats rows for (engine_version, horizon),
// ordered by ticker ASC.
func (s *TickerStatsStore) ListByVersionHorizon(ctx context.Context, engineVersion string, horizon domain.Horizon) ([]*domain.TickerStats, error) {
	query := `
		SELECT ticker, trades, win_rate, expectancy_r, max_drawdown_pct, profit_factor, avg_confidence_14d
		FROM ticker_stats
		WHERE engine_version = $1 AND horizon = $2
		ORDER BY ticker ASC
	`

	rows, err := s.pool.Query(ctx, query, engineVersion, string(horizon))
	if err != nil {
		return nil, fmt.Errorf("list ticker stats: %w", err)
	}
	defer rows.Close()

	var out []*domain.TickerStats
	for rows.Next() {
		r := &domain.TickerStats{}
		if err := rows.Scan(&r.Ticker, &r.Trades, &r.WinRate, &r.ExpectancyR, &r.MaxDrawdownPct, &r.ProfitFactor, &r.AvgConfidence14); err != nil {
			return nil, fmt.Errorf("scan ticker stats: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ticker stats: %w", err)
	}
	return out, nil
}

package clickhouse

import (
	"context"
	"fmt"

	"perf-governor/internal/domain"
	"perf-governor/internal/storage"
)

// VariantStatsStore implements storage.VariantStatsStore using ClickHouse.
type VariantStatsStore struct {
	conn *Conn
}

// NewVariantStatsStore creates a new VariantStatsStore.
func NewVariantStatsStore(conn *Conn) *VariantStatsStore {
	return &VariantStatsStore{conn: conn}
}

// Compile-time interface check.
var _ storage.VariantStatsStore = (*VariantStatsStore)(nil)

// InsertBulk adds aggregate rows in one batch.
func (s *VariantStatsStore) InsertBulk(ctx context.Context, rows []*domain.VariantAggregateRow) error {
	if len(rows) == 0 {
		return nil
	}
	for _, r := range rows {
		if r == nil || r.FilterVariant == "" {
			return storage.ErrInvalidInput
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO variant_aggregates (
			filter_variant, engine_version,
			avg_win_rate, avg_expectancy, avg_avg_rr, avg_total_return,
			avg_drawdown, avg_profit_factor, avg_sharpe,
			signals_per_ticker, trades_per_ticker
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare variant batch: %w", err)
	}

	for _, r := range rows {
		err := batch.Append(
			r.FilterVariant, r.EngineVersion,
			r.AvgWinRate, r.AvgExpectancy, r.AvgAvgRR, r.AvgTotalReturn,
			r.AvgDrawdown, r.AvgProfitFactor, r.AvgSharpe,
			r.SignalsPerTicker, r.TradesPerTicker,
		)
		if err != nil {
			return fmt.Errorf("append variant to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send variant batch: %w", err)
	}
	return nil
}

// ListByVersion retrieves aggregate rows for an engine version, ordered by
// filter_variant ASC.
func (s *VariantStatsStore) ListByVersion(ctx context.Context, engineVersion string) ([]*domain.VariantAggregateRow, error) {
	query := `
		SELECT filter_variant, engine_version,
			avg_win_rate, avg_expectancy, avg_avg_rr, avg_total_return,
			avg_drawdown, avg_profit_factor, avg_sharpe,
			signals_per_ticker, trades_per_ticker
		FROM variant_aggregates
		WHERE engine_version = ?
		ORDER BY filter_variant ASC
	`

	rows, err := s.conn.Query(ctx, query, engineVersion)
	if err != nil {
		return nil, fmt.Errorf("list variant aggregates: %w", err)
	}
	defer rows.Close()

	var out []*domain.VariantAggregateRow
	for rows.Next() {
		r := &domain.VariantAggregateRow{}
		err := rows.Scan(
			&r.FilterVariant, &r.EngineVersion,
			&r.AvgWinRate, &r.AvgExpectancy, &r.AvgAvgRR, &r.AvgTotalReturn,
			&r.AvgDrawdown, &r.AvgProfitFactor, &r.AvgSharpe,
			&r.SignalsPerTicker, &r.TradesPerTicker,
		)
		if err != nil {
			return nil, fmt.Errorf("scan variant aggregate: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate variant aggregates: %w", err)
	}
	return out, nil
}

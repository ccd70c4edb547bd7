package storage

import (
	"context"

	"perf-governor/internal/domain"
)

// The core consumes these interfaces read-only, except UniverseStore whose
// Add/Remove are the only writes the system performs.

// LiveTradeStore provides access to the primary live stock trade log.
type LiveTradeStore interface {
	// ListByEngine retrieves all rows for an engine key/version,
	// ordered by opened_at ASC.
	ListByEngine(ctx context.Context, engineKey, engineVersion string) ([]*domain.LiveStockTradeRow, error)
}

// ShadowStockTradeStore provides access to the shadow stock virtual trade log.
type ShadowStockTradeStore interface {
	// ListByEngine retrieves all rows for an engine key/version,
	// ordered by entered_at ASC. Open rows carry unrealized PnL.
	ListByEngine(ctx context.Context, engineKey, engineVersion string) ([]*domain.ShadowStockTradeRow, error)
}

// ShadowCryptoTradeStore provides access to the shadow crypto trade log and
// its separate open-positions table.
type ShadowCryptoTradeStore interface {
	// ListByEngine retrieves all rows for an engine key/version,
	// ordered by open_time ASC.
	ListByEngine(ctx context.Context, engineKey, engineVersion string) ([]*domain.ShadowCryptoTradeRow, error)

	// ListOpenPositions retrieves open positions for an engine key/version.
	ListOpenPositions(ctx context.Context, engineKey, engineVersion string) ([]*domain.CryptoPositionRow, error)
}

// SnapshotStore provides access to the portfolio equity time series.
type SnapshotStore interface {
	// ListByEngine retrieves snapshots for an identity, ordered by
	// timestamp ASC. May hold a single point for SHADOW stock engines.
	ListByEngine(ctx context.Context, id domain.EngineIdentity) ([]*domain.PortfolioSnapshot, error)

	// Insert appends one snapshot for an identity.
	Insert(ctx context.Context, id domain.EngineIdentity, s *domain.PortfolioSnapshot) error
}

// TickerStatsStore provides access to upstream per-ticker backtest statistics.
type TickerStatsStore interface {
	// ListByVersionHorizon retrieves stats rows for (engine_version, horizon),
	// ordered by ticker ASC.
	ListByVersionHorizon(ctx context.Context, engineVersion string, horizon domain.Horizon) ([]*domain.TickerStats, error)
}

// UniverseStore maps a universe name to its ticker set. Add and Remove are
// atomic set mutations at the storage layer; concurrent calls for different
// tickers on the same universe must both take effect.
type UniverseStore interface {
	// Members retrieves the ticker set of a universe, ordered by ticker ASC.
	// An unknown universe is an empty set, not an error.
	Members(ctx context.Context, universe string) ([]string, error)

	// Add inserts a ticker into a universe. No-op if already present.
	Add(ctx context.Context, universe, ticker string) error

	// Remove deletes a ticker from a universe. No-op if absent.
	Remove(ctx context.Context, universe, ticker string) error
}

// VariantStatsStore provides access to pre-aggregated variant statistics.
type VariantStatsStore interface {
	// ListByVersion retrieves aggregate rows for an engine version,
	// ordered by filter_variant ASC.
	ListByVersion(ctx context.Context, engineVersion string) ([]*domain.VariantAggregateRow, error)

	// InsertBulk adds aggregate rows produced by an upstream variant run.
	InsertBulk(ctx context.Context, rows []*domain.VariantAggregateRow) error
}

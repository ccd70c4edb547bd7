// Package normalize adapts the three raw trade/position record shapes into
// the canonical TradeRecord/PortfolioSnapshot model. It is the single place
// where per-source field names and side encodings are translated.
package normalize

import (
	"context"
	"fmt"

	"perf-governor/internal/domain"
	"perf-governor/internal/storage"
)

// ErrUnsupportedEngine is returned when no source shape exists for an
// identity's (run_mode, asset_class) combination.
var ErrUnsupportedEngine = fmt.Errorf("no record shape for engine identity")

// Source produces canonical records for one engine identity.
type Source interface {
	// Trades returns all trades, open and closed, in canonical form.
	Trades(ctx context.Context) ([]*domain.TradeRecord, error)

	// Snapshots returns the equity curve, ordered by timestamp ASC.
	Snapshots(ctx context.Context) ([]*domain.PortfolioSnapshot, error)

	// OpenUnrealizedPnL returns the summed unrealized PnL of open positions.
	OpenUnrealizedPnL(ctx context.Context) (float64, error)
}

// Stores groups the backing stores the dispatcher selects from.
type Stores struct {
	LiveTrades   storage.LiveTradeStore
	ShadowStock  storage.ShadowStockTradeStore
	ShadowCrypto storage.ShadowCryptoTradeStore
	Snapshots    storage.SnapshotStore
}

// ForIdentity selects the source implementation for an identity. Exactly one
// shape exists per supported (run_mode, asset_class) pair.
func ForIdentity(id domain.EngineIdentity, st Stores) (Source, error) {
	switch {
	case id.RunMode == domain.RunModePrimary && id.AssetClass == domain.AssetClassStock:
		return &liveStockSource{id: id, trades: st.LiveTrades, snapshots: st.Snapshots}, nil
	case id.RunMode == domain.RunModeShadow && id.AssetClass == domain.AssetClassStock:
		return &shadowStockSource{id: id, trades: st.ShadowStock, snapshots: st.Snapshots}, nil
	case id.RunMode == domain.RunModeShadow && id.AssetClass == domain.AssetClassCrypto:
		return &shadowCryptoSource{id: id, trades: st.ShadowCrypto, snapshots: st.Snapshots}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedEngine, id)
}

// loadSnapshots is shared by all sources: the snapshot store is keyed by the
// full identity regardless of shape.
func loadSnapshots(ctx context.Context, store storage.SnapshotStore, id domain.EngineIdentity) ([]*domain.PortfolioSnapshot, error) {
	snaps, err := store.ListByEngine(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list snapshots for %s: %w", id, err)
	}
	return snaps, nil
}

package normalize

import (
	"context"
	"fmt"
	"strings"

	"perf-governor/internal/domain"
	"perf-governor/internal/storage"
)

// shadowStockSource adapts the shadow stock virtual trade log. Side comes in
// as "long"/"short" and open rows carry their own unrealized PnL column.
type shadowStockSource struct {
	id        domain.EngineIdentity
	trades    storage.ShadowStockTradeStore
	snapshots storage.SnapshotStore
}

func (s *shadowStockSource) Trades(ctx context.Context) ([]*domain.TradeRecord, error) {
	rows, err := s.trades.ListByEngine(ctx, s.id.EngineKey, s.id.EngineVersion)
	if err != nil {
		return nil, fmt.Errorf("list shadow stock trades for %s: %w", s.id, err)
	}

	out := make([]*domain.TradeRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, &domain.TradeRecord{
			Ticker:             strings.ToUpper(r.Ticker),
			Side:               shadowStockSide(r.PositionSide),
			EntryPrice:         safeFloat(r.EntryPx),
			ExitPrice:          safeFloat(r.ExitPx),
			EntryTime:          r.EnteredAt,
			ExitTime:           r.ExitedAt,
			RealizedPnLDollars: safeFloat(r.PnLUSD),
			RealizedPnLR:       safeFloat(r.PnLR),
		})
	}
	return out, nil
}

func (s *shadowStockSource) Snapshots(ctx context.Context) ([]*domain.PortfolioSnapshot, error) {
	return loadSnapshots(ctx, s.snapshots, s.id)
}

// OpenUnrealizedPnL sums the unrealized column of rows still open.
func (s *shadowStockSource) OpenUnrealizedPnL(ctx context.Context) (float64, error) {
	rows, err := s.trades.ListByEngine(ctx, s.id.EngineKey, s.id.EngineVersion)
	if err != nil {
		return 0, fmt.Errorf("list shadow stock trades for %s: %w", s.id, err)
	}

	total := 0.0
	for _, r := range rows {
		if r.ExitedAt == nil {
			total += safeFloat(r.UnrealizedUSD)
		}
	}
	return total, nil
}

// shadowStockSide maps the shadow log's "long"/"short" encoding.
func shadowStockSide(side string) domain.Side {
	if strings.EqualFold(side, "short") {
		return domain.SideShort
	}
	return domain.SideLong
}

var _ Source = (*shadowStockSource)(nil)

package normalize

import (
	"context"
	"fmt"
	"strings"

	"perf-governor/internal/domain"
	"perf-governor/internal/storage"
)

// liveStockSource adapts the primary live stock trade log. Direction comes in
// as "buy"/"sell". Unrealized PnL is already marked into the broker equity
// snapshots, so open positions contribute nothing extra here.
type liveStockSource struct {
	id        domain.EngineIdentity
	trades    storage.LiveTradeStore
	snapshots storage.SnapshotStore
}

func (s *liveStockSource) Trades(ctx context.Context) ([]*domain.TradeRecord, error) {
	rows, err := s.trades.ListByEngine(ctx, s.id.EngineKey, s.id.EngineVersion)
	if err != nil {
		return nil, fmt.Errorf("list live trades for %s: %w", s.id, err)
	}

	out := make([]*domain.TradeRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, &domain.TradeRecord{
			Ticker:             strings.ToUpper(r.Symbol),
			Side:               liveSide(r.Direction),
			EntryPrice:         safeFloat(r.FillPrice),
			ExitPrice:          safeFloat(r.ClosePrice),
			EntryTime:          r.OpenedAt,
			ExitTime:           r.ClosedAt,
			RealizedPnLDollars: safeFloat(r.RealizedUSD),
			RealizedPnLR:       safeFloat(r.RMultiple),
		})
	}
	return out, nil
}

func (s *liveStockSource) Snapshots(ctx context.Context) ([]*domain.PortfolioSnapshot, error) {
	return loadSnapshots(ctx, s.snapshots, s.id)
}

func (s *liveStockSource) OpenUnrealizedPnL(context.Context) (float64, error) {
	return 0, nil
}

// liveSide maps the live log's "buy"/"sell" encoding to the canonical side.
func liveSide(direction string) domain.Side {
	if strings.EqualFold(direction, "sell") {
		return domain.SideShort
	}
	return domain.SideLong
}

var _ Source = (*liveStockSource)(nil)

package normalize

import (
	"context"
	"fmt"
	"strings"

	"perf-governor/internal/domain"
	"perf-governor/internal/storage"
)

// shadowCryptoSource adapts the shadow crypto trade log. Side comes in as
// "buy"/"sell". The log carries no unrealized column, so unrealized PnL is
// summed from the separate open-positions table.
type shadowCryptoSource struct {
	id        domain.EngineIdentity
	trades    storage.ShadowCryptoTradeStore
	snapshots storage.SnapshotStore
}

func (s *shadowCryptoSource) Trades(ctx context.Context) ([]*domain.TradeRecord, error) {
	rows, err := s.trades.ListByEngine(ctx, s.id.EngineKey, s.id.EngineVersion)
	if err != nil {
		return nil, fmt.Errorf("list shadow crypto trades for %s: %w", s.id, err)
	}

	out := make([]*domain.TradeRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, &domain.TradeRecord{
			Ticker:             strings.ToUpper(r.Pair),
			Side:               cryptoSide(r.OrderSide),
			EntryPrice:         safeFloat(r.EntryQuote),
			ExitPrice:          safeFloat(r.ExitQuote),
			EntryTime:          r.OpenTime,
			ExitTime:           r.CloseTime,
			RealizedPnLDollars: safeFloat(r.PnLQuote),
			RealizedPnLR:       safeFloat(r.PnLR),
		})
	}
	return out, nil
}

func (s *shadowCryptoSource) Snapshots(ctx context.Context) ([]*domain.PortfolioSnapshot, error) {
	return loadSnapshots(ctx, s.snapshots, s.id)
}

// OpenUnrealizedPnL sums the open-positions table for this engine.
func (s *shadowCryptoSource) OpenUnrealizedPnL(ctx context.Context) (float64, error) {
	positions, err := s.trades.ListOpenPositions(ctx, s.id.EngineKey, s.id.EngineVersion)
	if err != nil {
		return 0, fmt.Errorf("list crypto positions for %s: %w", s.id, err)
	}

	total := 0.0
	for _, p := range positions {
		total += safeFloat(p.UnrealizedUSD)
	}
	return total, nil
}

// cryptoSide maps the crypto log's "buy"/"sell" encoding.
func cryptoSide(side string) domain.Side {
	if strings.EqualFold(side, "sell") {
		return domain.SideShort
	}
	return domain.SideLong
}

var _ Source = (*shadowCryptoSource)(nil)

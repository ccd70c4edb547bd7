// Package metrics turns canonical trades and equity snapshots into one
// EngineMetrics record per engine identity.
package metrics

import (
	"context"
	"log"
	"sync"
	"time"

	"perf-governor/internal/domain"
	"perf-governor/internal/normalize"
)

// Aggregator computes EngineMetrics for a set of engine identities. The
// computation is stateless per engine; engines are aggregated in parallel
// with no shared mutable state.
type Aggregator struct {
	stores normalize.Stores
	cfg    Config
	logger *log.Logger

	// now is injectable for calendar-day tests.
	now func() time.Time
}

// NewAggregator creates a metrics aggregator over the given stores.
func NewAggregator(stores normalize.Stores, cfg Config, logger *log.Logger) *Aggregator {
	if logger == nil {
		logger = log.Default()
	}
	return &Aggregator{
		stores: stores,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// MetricsForEngines aggregates each identity independently. An engine whose
// backing fetch fails is logged and skipped; one broken engine never blanks
// the result for the others. Result order follows the input order.
func (a *Aggregator) MetricsForEngines(ctx context.Context, ids []domain.EngineIdentity) []*domain.EngineMetrics {
	results := make([]*domain.EngineMetrics, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id domain.EngineIdentity) {
			defer wg.Done()
			m, err := a.MetricsForEngine(ctx, id)
			if err != nil {
				a.logger.Printf("skipping engine %s: %v", id, err)
				return
			}
			results[i] = m
		}(i, id)
	}
	wg.Wait()

	out := make([]*domain.EngineMetrics, 0, len(ids))
	for _, m := range results {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}

// MetricsForEngine aggregates one identity. Returns an error only when a
// backing fetch fails; degraded individual fields still yield a complete
// EngineMetrics.
func (a *Aggregator) MetricsForEngine(ctx context.Context, id domain.EngineIdentity) (*domain.EngineMetrics, error) {
	source, err := normalize.ForIdentity(id, a.stores)
	if err != nil {
		return nil, err
	}

	trades, err := source.Trades(ctx)
	if err != nil {
		return nil, err
	}
	snapshots, err := source.Snapshots(ctx)
	if err != nil {
		return nil, err
	}
	unrealized, err := source.OpenUnrealizedPnL(ctx)
	if err != nil {
		return nil, err
	}

	return a.assemble(id, trades, snapshots, unrealized), nil
}

// assemble builds EngineMetrics from already-fetched canonical records.
func (a *Aggregator) assemble(id domain.EngineIdentity, trades []*domain.TradeRecord, snapshots []*domain.PortfolioSnapshot, unrealized float64) *domain.EngineMetrics {
	closed := make([]*domain.TradeRecord, 0, len(trades))
	for _, t := range trades {
		if t.Closed() {
			closed = append(closed, t)
		}
	}

	winners, losers := 0, 0
	realized := 0.0
	for _, t := range closed {
		if t.RealizedPnLDollars > 0 {
			winners++
		} else {
			losers++
		}
		realized += t.RealizedPnLDollars
	}

	curve := a.sanitizeCurve(id, snapshots)

	currentEquity := a.cfg.StartingEquity
	if len(curve) > 0 {
		currentEquity = curve[len(curve)-1].Equity
	}

	return &domain.EngineMetrics{
		Identity:       id,
		TotalTrades:    len(closed),
		Winners:        winners,
		Losers:         losers,
		WinRate:        computeWinRate(winners, len(closed)),
		TotalPnL:       realized + unrealized,
		TodaysPnL:      computeTodaysPnL(closed, a.now()),
		AvgR:           computeAvgR(closed),
		MaxDrawdownPct: computeMaxDrawdownPct(curve),
		CurrentEquity:  currentEquity,
		NetReturnPct:   computeNetReturnPct(currentEquity, a.cfg.StartingEquity),
		EquityCurve:    derefCurve(curve),
		RecentTrades:   recentTrades(closed, a.cfg.RecentTradeCap),
	}
}

// sanitizeCurve clamps negative equity to zero. Negative equity is an
// upstream data-quality violation; the clamp is logged so the pipeline issue
// stays visible.
func (a *Aggregator) sanitizeCurve(id domain.EngineIdentity, snapshots []*domain.PortfolioSnapshot) []*domain.PortfolioSnapshot {
	out := make([]*domain.PortfolioSnapshot, 0, len(snapshots))
	for _, s := range snapshots {
		if s.Equity < 0 {
			a.logger.Printf("warning: engine %s has negative equity %.2f at %s, clamping to 0", id, s.Equity, s.Timestamp.UTC().Format(time.RFC3339))
			clamped := *s
			clamped.Equity = 0
			out = append(out, &clamped)
			continue
		}
		out = append(out, s)
	}
	return out
}

func derefCurve(curve []*domain.PortfolioSnapshot) []domain.PortfolioSnapshot {
	out := make([]domain.PortfolioSnapshot, len(curve))
	for i, s := range curve {
		out[i] = *s
	}
	return out
}

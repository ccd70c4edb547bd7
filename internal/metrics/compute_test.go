package metrics

import (
	"math"
	"testing"
	"time"

	"perf-governor/internal/domain"
)

func closedTrade(ticker string, exit time.Time, pnl, r float64) *domain.TradeRecord {
	return &domain.TradeRecord{
		Ticker:             ticker,
		Side:               domain.SideLong,
		EntryTime:          exit.Add(-time.Hour),
		ExitTime:           &exit,
		RealizedPnLDollars: pnl,
		RealizedPnLR:       r,
	}
}

func curveOf(equities ...float64) []*domain.PortfolioSnapshot {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	out := make([]*domain.PortfolioSnapshot, len(equities))
	for i, e := range equities {
		out[i] = &domain.PortfolioSnapshot{
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Equity:    e,
		}
	}
	return out
}

func TestComputeWinRate(t *testing.T) {
	if got := computeWinRate(7, 10); math.Abs(got-0.70) > 1e-9 {
		t.Errorf("win rate = %v, want 0.70", got)
	}
	if got := computeWinRate(0, 0); got != 0 {
		t.Errorf("win rate with no trades = %v, want 0", got)
	}
}

func TestComputeAvgR(t *testing.T) {
	exit := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	trades := []*domain.TradeRecord{
		closedTrade("AAPL", exit, 100, 2.0),
		closedTrade("MSFT", exit, -50, -1.0),
		closedTrade("NVDA", exit, 30, 0.5),
	}
	if got, want := computeAvgR(trades), 0.5; math.Abs(got-want) > 1e-9 {
		t.Errorf("avg R = %v, want %v", got, want)
	}

	if got := computeAvgR(nil); got != 0 {
		t.Errorf("avg R with no trades = %v, want 0", got)
	}
}

func TestComputeMaxDrawdownPct(t *testing.T) {
	tests := []struct {
		name  string
		curve []*domain.PortfolioSnapshot
		want  float64
	}{
		{"monotonic rise has no drawdown", curveOf(100, 105, 110, 120), 0},
		{"drop from peak", curveOf(100, 120, 90, 110), 25},
		{"single point", curveOf(100), 0},
		{"empty curve", nil, 0},
		{"recovery does not erase the worst drawdown", curveOf(100, 80, 130, 117), 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computeMaxDrawdownPct(tt.curve)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("max drawdown = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeMaxDrawdownPct_ZeroPeakSkipped(t *testing.T) {
	// A zero starting point cannot produce a meaningful ratio; the walk
	// skips it instead of dividing by zero.
	got := computeMaxDrawdownPct(curveOf(0, 0, 100, 50))
	if math.Abs(got-50) > 1e-9 {
		t.Errorf("max drawdown = %v, want 50", got)
	}
}

func TestComputeTodaysPnL_UTCDayBoundary(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	beforeMidnight := time.Date(2026, 3, 1, 23, 59, 59, 0, time.UTC)
	afterMidnight := time.Date(2026, 3, 2, 0, 0, 1, 0, time.UTC)

	trades := []*domain.TradeRecord{
		closedTrade("AAPL", beforeMidnight, 500, 1.0),
		closedTrade("MSFT", afterMidnight, 120, 0.5),
		closedTrade("NVDA", now, -40, -0.3),
	}

	// Two seconds apart across midnight: only the exits on today's UTC
	// date count.
	if got, want := computeTodaysPnL(trades, now), 80.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("todays PnL = %v, want %v", got, want)
	}
}

func TestComputeTodaysPnL_NonUTCClock(t *testing.T) {
	// 2026-03-02 01:00 in UTC+3 is still 2026-03-01 in UTC.
	loc := time.FixedZone("UTC+3", 3*3600)
	now := time.Date(2026, 3, 2, 1, 0, 0, 0, loc)

	exit := time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC)
	trades := []*domain.TradeRecord{closedTrade("AAPL", exit, 250, 1.0)}

	if got, want := computeTodaysPnL(trades, now), 250.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("todays PnL = %v, want %v", got, want)
	}
}

func TestRecentTrades_OrderAndCap(t *testing.T) {
	early := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	late := time.Date(2026, 3, 1, 16, 0, 0, 0, time.UTC)

	trades := []*domain.TradeRecord{
		closedTrade("ZM", late, 10, 0.1),
		closedTrade("AAPL", early, 20, 0.2),
		closedTrade("AMD", late, 30, 0.3),
	}

	got := recentTrades(trades, 100)
	wantOrder := []string{"AMD", "ZM", "AAPL"}
	for i, want := range wantOrder {
		if got[i].Ticker != want {
			t.Errorf("recent[%d] = %s, want %s", i, got[i].Ticker, want)
		}
	}

	capped := recentTrades(trades, 2)
	if len(capped) != 2 {
		t.Fatalf("len(capped) = %d, want 2", len(capped))
	}
	if capped[0].Ticker != "AMD" || capped[1].Ticker != "ZM" {
		t.Errorf("capped = [%s %s], want [AMD ZM]", capped[0].Ticker, capped[1].Ticker)
	}

	// Input slice must not be reordered.
	if trades[0].Ticker != "ZM" {
		t.Errorf("input slice mutated, trades[0] = %s", trades[0].Ticker)
	}
}

func TestComputeNetReturnPct(t *testing.T) {
	if got, want := computeNetReturnPct(110_000, 100_000), 10.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("net return = %v, want %v", got, want)
	}
	if got := computeNetReturnPct(110_000, 0); got != 0 {
		t.Errorf("net return with zero starting equity = %v, want 0", got)
	}
}

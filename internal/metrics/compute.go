package metrics

import (
	"sort"
	"time"

	"perf-governor/internal/domain"
)

// computeWinRate calculates winners / total. Zero when there are no trades.
func computeWinRate(winners, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(winners) / float64(total)
}

// computeAvgR calculates the mean R-multiple over closed trades.
// Zero when there are no closed trades.
func computeAvgR(closed []*domain.TradeRecord) float64 {
	if len(closed) == 0 {
		return 0
	}
	sum := 0.0
	for _, t := range closed {
		sum += t.RealizedPnLR
	}
	return sum / float64(len(closed))
}

// computeMaxDrawdownPct walks the equity curve in chronological order,
// tracking the running peak; drawdown at each point is (peak-equity)/peak.
// Returns the worst drawdown seen, as a percentage. A curve with 0 or 1
// points has no drawdown; for most SHADOW stock engines only the latest
// snapshot is retained, so their drawdown is trivially zero. That is a known
// data-completeness limitation, not something to correct here.
func computeMaxDrawdownPct(curve []*domain.PortfolioSnapshot) float64 {
	if len(curve) < 2 {
		return 0
	}

	peak := curve[0].Equity
	maxDD := 0.0
	for _, p := range curve {
		if p.Equity > peak {
			peak = p.Equity
		}
		if peak <= 0 {
			continue
		}
		dd := (peak - p.Equity) / peak
		if dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD * 100
}

// utcDay formats a timestamp as its UTC calendar date.
func utcDay(ts time.Time) string {
	return ts.UTC().Format("2006-01-02")
}

// computeTodaysPnL sums realized PnL of trades whose exit falls on the
// current UTC calendar day. Date-string comparison, not elapsed-time
// windowing: exits two seconds apart across midnight land on different days.
func computeTodaysPnL(closed []*domain.TradeRecord, now time.Time) float64 {
	today := utcDay(now)
	sum := 0.0
	for _, t := range closed {
		if utcDay(*t.ExitTime) == today {
			sum += t.RealizedPnLDollars
		}
	}
	return sum
}

// recentTrades returns closed trades sorted by exit time descending,
// truncated to cap. Equal timestamps break ties by ticker ascending so the
// ordering is stable across runs.
func recentTrades(closed []*domain.TradeRecord, cap int) []*domain.TradeRecord {
	out := make([]*domain.TradeRecord, len(closed))
	copy(out, closed)
	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := *out[i].ExitTime, *out[j].ExitTime
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return out[i].Ticker < out[j].Ticker
	})
	if cap > 0 && len(out) > cap {
		out = out[:cap]
	}
	return out
}

// computeNetReturnPct calculates (current - starting) / starting * 100.
func computeNetReturnPct(currentEquity, startingEquity float64) float64 {
	if startingEquity == 0 {
		return 0
	}
	return (currentEquity - startingEquity) / startingEquity * 100
}

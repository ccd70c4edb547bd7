// Package scoring converts variant aggregate statistics into one composite
// score and produces a deterministic total ordering.
package scoring

import (
	"math"
	"sort"

	"perf-governor/internal/domain"
)

// Weights holds the composite-score coefficients. The drawdown weight is
// subtractive; the trade-count term is min(trades_per_ticker/TradesDivisor,
// TradesCap) so sample size can reward a variant but never dominate the
// quality terms. The divisor 30 and cap 0.05 are fixed by the formula.
type Weights struct {
	WinRate       float64
	Expectancy    float64
	AvgRR         float64
	Sharpe        float64
	Drawdown      float64
	TradesDivisor float64
	TradesCap     float64
}

// DefaultWeights is the production scoring formula.
var DefaultWeights = Weights{
	WinRate:       0.25,
	Expectancy:    0.25,
	AvgRR:         0.15,
	Sharpe:        0.2,
	Drawdown:      0.1,
	TradesDivisor: 30,
	TradesCap:     0.05,
}

// Score computes the composite score for one variant row. Nil aggregate
// fields contribute zero; a variant with incomplete data gets a lower score,
// it is never dropped from the ranking.
func Score(row *domain.VariantAggregateRow, w Weights) float64 {
	return orZero(row.AvgWinRate)*w.WinRate +
		orZero(row.AvgExpectancy)*w.Expectancy +
		orZero(row.AvgAvgRR)*w.AvgRR +
		orZero(row.AvgSharpe)*w.Sharpe -
		orZero(row.AvgDrawdown)*w.Drawdown +
		math.Min(orZero(row.TradesPerTicker)/w.TradesDivisor, w.TradesCap)
}

// Rank scores every row and sorts descending by score. Tied scores order by
// filter variant name ascending so the ranking is deterministic.
func Rank(rows []*domain.VariantAggregateRow, w Weights) []*domain.RankedVariantRow {
	ranked := make([]*domain.RankedVariantRow, len(rows))
	for i, row := range rows {
		ranked[i] = &domain.RankedVariantRow{
			VariantAggregateRow: *row,
			Score:               Score(row, w),
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].FilterVariant < ranked[j].FilterVariant
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

func orZero(f *float64) float64 {
	if f == nil || math.IsNaN(*f) || math.IsInf(*f, 0) {
		return 0
	}
	return *f
}

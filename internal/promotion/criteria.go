package promotion

import "perf-governor/internal/domain"

// DefaultCriteria holds the production thresholds per horizon. Shorter
// horizons demand more sample trades and tighter drawdown; longer horizons
// trade sample size for per-trade expectancy.
var DefaultCriteria = map[domain.Horizon]domain.PromotionCriteria{
	domain.HorizonDay: {
		MinExpectancyR: 0.10,
		MinWinRate:     0.45,
		MinTrades:      20,
		MaxDrawdownPct: 15,
	},
	domain.HorizonSwing: {
		MinExpectancyR: 0.15,
		MinWinRate:     0.40,
		MinTrades:      12,
		MaxDrawdownPct: 20,
	},
	domain.HorizonInvest: {
		MinExpectancyR: 0.25,
		MinWinRate:     0.35,
		MinTrades:      6,
		MaxDrawdownPct: 30,
	},
}

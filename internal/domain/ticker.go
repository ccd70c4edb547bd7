package domain

// Horizon is a trading style/time frame. Each horizon carries its own
// promotion thresholds over the same TickerStats shape.
type Horizon string

const (
	HorizonDay    Horizon = "day"
	HorizonSwing  Horizon = "swing"
	HorizonInvest Horizon = "invest"
)

// Horizons lists all supported horizons in a stable order.
var Horizons = []Horizon{HorizonDay, HorizonSwing, HorizonInvest}

// Valid reports whether h is a known horizon.
func (h Horizon) Valid() bool {
	switch h {
	case HorizonDay, HorizonSwing, HorizonInvest:
		return true
	}
	return false
}

// UniverseName returns the named universe holding the live-traded ticker set
// for this horizon, e.g. "performance_swing".
func (h Horizon) UniverseName() string {
	return "performance_" + string(h)
}

// TickerStats is one row of upstream backtest statistics per ticker per
// engine version/horizon. Consumed read-only; the core never recomputes it.
type TickerStats struct {
	Ticker          string
	Trades          int
	WinRate         float64
	ExpectancyR     float64
	MaxDrawdownPct  float64
	ProfitFactor    float64
	AvgConfidence14 *float64 // nullable: confidence model may not cover the ticker
}

// PromotionCriteria are the per-horizon thresholds a ticker must clear to be
// eligible for live execution.
type PromotionCriteria struct {
	MinExpectancyR float64
	MinWinRate     float64
	MinTrades      int
	MaxDrawdownPct float64
}

package domain

import "time"

// PortfolioSnapshot is one point of an engine's equity time series.
// PRIMARY engines retain a dense history (many snapshots per day); SHADOW
// stock engines frequently retain only the latest snapshot, which makes
// drawdown computed from their curve trivially zero. That asymmetry is real
// and preserved, not papered over.
type PortfolioSnapshot struct {
	Timestamp time.Time
	Equity    float64
}

// EngineMetrics is the aggregation output for one engine identity. It is
// derived, recomputed on every request, and never persisted by the core.
type EngineMetrics struct {
	Identity       EngineIdentity
	TotalTrades    int
	Winners        int
	Losers         int
	WinRate        float64
	TotalPnL       float64
	TodaysPnL      float64
	AvgR           float64
	MaxDrawdownPct float64
	CurrentEquity  float64
	NetReturnPct   float64
	EquityCurve    []PortfolioSnapshot
	RecentTrades   []*TradeRecord
}

package metrics

// DefaultStartingEquity is the assumed portfolio value for an engine that has
// no snapshots yet. Every engine portfolio is seeded with this amount.
const DefaultStartingEquity = 100_000.0

// DefaultRecentTradeCap bounds the recent-trades list on EngineMetrics.
const DefaultRecentTradeCap = 100

// Config holds the aggregation constants, hoisted here so they are passed
// explicitly instead of living as scattered literals.
type Config struct {
	StartingEquity float64
	RecentTradeCap int
}

// DefaultConfig returns the production configuration.
func DefaultConfig() Config {
	return Config{
		StartingEquity: DefaultStartingEquity,
		RecentTradeCap: DefaultRecentTradeCap,
	}
}

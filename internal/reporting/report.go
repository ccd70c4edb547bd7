package reporting

import (
	"time"

	"perf-governor/internal/domain"
)

// Report is the periodic performance/governance summary.
type Report struct {
	// Metadata
	RunID       string
	GeneratedAt time.Time

	// One row per engine identity that aggregated successfully.
	Engines []*domain.EngineMetrics

	// Promotion review per horizon, in domain.Horizons order.
	Promotion []PromotionSection

	// Variant ranking for the reported engine version.
	EngineVersion string
	Variants      []*domain.RankedVariantRow
}

// PromotionSection summarizes one horizon's classification.
type PromotionSection struct {
	Horizon    domain.Horizon
	Universe   []string
	Candidates []*domain.TickerStats
	RedFlags   []*domain.TickerStats
}

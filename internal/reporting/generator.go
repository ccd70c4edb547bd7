// Package reporting renders engine metrics, promotion reviews and variant
// rankings as markdown and CSV summaries.
package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"perf-governor/internal/domain"
	"perf-governor/internal/metrics"
	"perf-governor/internal/promotion"
	"perf-governor/internal/scoring"
	"perf-governor/internal/storage"
)

// Generator produces reports from the three pipelines.
type Generator struct {
	aggregator *metrics.Aggregator
	evaluator  *promotion.Evaluator
	variants   storage.VariantStatsStore
	weights    scoring.Weights

	// Injectable clock for deterministic output.
	now func() time.Time
}

// NewGenerator creates a report generator.
func NewGenerator(aggregator *metrics.Aggregator, evaluator *promotion.Evaluator, variants storage.VariantStatsStore) *Generator {
	return &Generator{
		aggregator: aggregator,
		evaluator:  evaluator,
		variants:   variants,
		weights:    scoring.DefaultWeights,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate produces a complete report for the given engines. Engine metrics
// degrade per engine; a failed universe read fails the whole report since a
// promotion review against a wrong universe is worse than no report.
func (g *Generator) Generate(ctx context.Context, ids []domain.EngineIdentity, engineVersion string) (*Report, error) {
	report := &Report{
		RunID:         uuid.NewString(),
		GeneratedAt:   g.now(),
		EngineVersion: engineVersion,
		Engines:       g.aggregator.MetricsForEngines(ctx, ids),
	}

	for _, horizon := range domain.Horizons {
		c, err := g.evaluator.Classify(ctx, engineVersion, horizon)
		if err != nil {
			return nil, fmt.Errorf("classify %s: %w", horizon, err)
		}
		report.Promotion = append(report.Promotion, PromotionSection{
			Horizon:    horizon,
			Universe:   c.Universe,
			Candidates: c.Candidates,
			RedFlags:   c.RedFlags,
		})
	}

	rows, err := g.variants.ListByVersion(ctx, engineVersion)
	if err != nil {
		return nil, fmt.Errorf("list variant aggregates: %w", err)
	}
	report.Variants = scoring.Rank(rows, g.weights)

	return report, nil
}

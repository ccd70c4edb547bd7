package domain

// VariantAggregateRow holds pre-aggregated statistics for one filter-variant /
// engine-version pair, averaged across all tested tickers upstream. Nullable
// fields are pointers; a nil field scores as zero rather than disqualifying
// the variant.
type VariantAggregateRow struct {
	FilterVariant    string
	EngineVersion    string
	AvgWinRate       *float64
	AvgExpectancy    *float64
	AvgAvgRR         *float64
	AvgTotalReturn   *float64
	AvgDrawdown      *float64
	AvgProfitFactor  *float64
	AvgSharpe        *float64
	SignalsPerTicker *float64
	TradesPerTicker  *float64
}

// RankedVariantRow is a variant with its composite score and 1-based rank.
type RankedVariantRow struct {
	VariantAggregateRow
	Score float64
	Rank  int
}

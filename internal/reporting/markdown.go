package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders the report as a Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	sb.WriteString("# Performance & Governance Report\n\n")
	sb.WriteString(fmt.Sprintf("Run: %s\n\n", r.RunID))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))

	// Engine metrics
	sb.WriteString("## Engines\n\n")
	if len(r.Engines) > 0 {
		sb.WriteString("| Engine | Mode | Class | Trades | Win Rate | Total PnL | Today | Avg R | Max DD % | Equity | Net Return % |\n")
		sb.WriteString("|--------|------|-------|--------|----------|-----------|-------|-------|----------|--------|--------------|\n")
		for _, m := range r.Engines {
			sb.WriteString(fmt.Sprintf("| %s %s | %s | %s | %d | %.2f%% | %.2f | %.2f | %.2f | %.2f | %.2f | %.2f |\n",
				m.Identity.EngineKey, m.Identity.EngineVersion, m.Identity.RunMode, m.Identity.AssetClass,
				m.TotalTrades, m.WinRate*100, m.TotalPnL, m.TodaysPnL, m.AvgR,
				m.MaxDrawdownPct, m.CurrentEquity, m.NetReturnPct))
		}
	} else {
		sb.WriteString("No engines aggregated.\n")
	}
	sb.WriteString("\n")

	// Promotion review
	sb.WriteString("## Promotion Review\n\n")
	for _, section := range r.Promotion {
		sb.WriteString(fmt.Sprintf("### %s (%s)\n\n", section.Horizon, section.Horizon.UniverseName()))
		sb.WriteString(fmt.Sprintf("Universe (%d): %s\n\n", len(section.Universe), strings.Join(section.Universe, ", ")))

		if len(section.Candidates) > 0 {
			sb.WriteString("Promotion candidates:\n\n")
			sb.WriteString("| Ticker | Trades | Win Rate | Expectancy R | Max DD % | Profit Factor |\n")
			sb.WriteString("|--------|--------|----------|--------------|----------|---------------|\n")
			for _, s := range section.Candidates {
				sb.WriteString(fmt.Sprintf("| %s | %d | %.2f%% | %.3f | %.2f | %.2f |\n",
					s.Ticker, s.Trades, s.WinRate*100, s.ExpectancyR, s.MaxDrawdownPct, s.ProfitFactor))
			}
			sb.WriteString("\n")
		}

		if len(section.RedFlags) > 0 {
			sb.WriteString("Red flags (demotion review):\n\n")
			sb.WriteString("| Ticker | Trades | Win Rate | Expectancy R | Max DD % | Profit Factor |\n")
			sb.WriteString("|--------|--------|----------|--------------|----------|---------------|\n")
			for _, s := range section.RedFlags {
				sb.WriteString(fmt.Sprintf("| %s | %d | %.2f%% | %.3f | %.2f | %.2f |\n",
					s.Ticker, s.Trades, s.WinRate*100, s.ExpectancyR, s.MaxDrawdownPct, s.ProfitFactor))
			}
			sb.WriteString("\n")
		}

		if len(section.Candidates) == 0 && len(section.RedFlags) == 0 {
			sb.WriteString("No candidates or red flags.\n\n")
		}
	}

	// Variant ranking
	sb.WriteString(fmt.Sprintf("## Variant Ranking (%s)\n\n", r.EngineVersion))
	if len(r.Variants) > 0 {
		sb.WriteString("| Rank | Variant | Score |\n")
		sb.WriteString("|------|---------|-------|\n")
		for _, v := range r.Variants {
			sb.WriteString(fmt.Sprintf("| %d | %s | %.4f |\n", v.Rank, v.FilterVariant, v.Score))
		}
	} else {
		sb.WriteString("No variant aggregates available.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

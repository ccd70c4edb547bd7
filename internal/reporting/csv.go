package reporting

import (
	"fmt"
	"strings"
)

// RenderEnginesCSV renders the per-engine metrics table as CSV.
func RenderEnginesCSV(r *Report) string {
	var sb strings.Builder
	sb.WriteString("engine_key,engine_version,run_mode,asset_class,total_trades,winners,losers,win_rate,total_pnl,todays_pnl,avg_r,max_drawdown_pct,current_equity,net_return_pct\n")
	for _, m := range r.Engines {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%d,%d,%d,%.6f,%.2f,%.2f,%.4f,%.4f,%.2f,%.4f\n",
			m.Identity.EngineKey, m.Identity.EngineVersion, m.Identity.RunMode, m.Identity.AssetClass,
			m.TotalTrades, m.Winners, m.Losers, m.WinRate, m.TotalPnL, m.TodaysPnL,
			m.AvgR, m.MaxDrawdownPct, m.CurrentEquity, m.NetReturnPct))
	}
	return sb.String()
}

// RenderVariantsCSV renders the ranked variant table as CSV.
func RenderVariantsCSV(r *Report) string {
	var sb strings.Builder
	sb.WriteString("rank,variant,engine_version,score,avg_win_rate,avg_expectancy,avg_avg_rr,avg_sharpe,avg_drawdown,trades_per_ticker\n")
	for _, v := range r.Variants {
		sb.WriteString(fmt.Sprintf("%d,%s,%s,%.6f,%s,%s,%s,%s,%s,%s\n",
			v.Rank, v.FilterVariant, v.EngineVersion, v.Score,
			csvFloat(v.AvgWinRate), csvFloat(v.AvgExpectancy),
			csvFloat(v.AvgAvgRR), csvFloat(v.AvgSharpe), csvFloat(v.AvgDrawdown),
			csvFloat(v.TradesPerTicker)))
	}
	return sb.String()
}

func csvFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return fmt.Sprintf("%.6f", *f)
}

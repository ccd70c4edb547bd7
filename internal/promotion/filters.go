package promotion

import (
	"strings"

	"perf-governor/internal/domain"
)

// Filtering helpers are pure predicate compositions over TickerStats lists.
// They never mutate state and never trigger promote/demote side effects.

// FilterByTicker keeps rows whose ticker contains the given substring,
// case-insensitively.
func FilterByTicker(stats []*domain.TickerStats, substr string) []*domain.TickerStats {
	needle := strings.ToUpper(strings.TrimSpace(substr))
	if needle == "" {
		return stats
	}
	var out []*domain.TickerStats
	for _, s := range stats {
		if strings.Contains(strings.ToUpper(s.Ticker), needle) {
			out = append(out, s)
		}
	}
	return out
}

// FilterByMinExpectancy keeps rows at or above the expectancy threshold.
func FilterByMinExpectancy(stats []*domain.TickerStats, minExpectancyR float64) []*domain.TickerStats {
	var out []*domain.TickerStats
	for _, s := range stats {
		if s.ExpectancyR >= minExpectancyR {
			out = append(out, s)
		}
	}
	return out
}

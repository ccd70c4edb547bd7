// Package promotion classifies per-ticker backtest statistics against
// per-horizon thresholds and governs the live-traded universe lists.
package promotion

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"perf-governor/internal/domain"
	"perf-governor/internal/storage"
)

// ErrUnknownHorizon is returned for a horizon with no criteria.
var ErrUnknownHorizon = fmt.Errorf("unknown horizon")

// Evaluator classifies TickerStats and executes universe mutations.
type Evaluator struct {
	criteria  map[domain.Horizon]domain.PromotionCriteria
	stats     storage.TickerStatsStore
	universes storage.UniverseStore
	logger    *log.Logger
}

// NewEvaluator creates an evaluator with the default per-horizon criteria.
func NewEvaluator(stats storage.TickerStatsStore, universes storage.UniverseStore, logger *log.Logger) *Evaluator {
	if logger == nil {
		logger = log.Default()
	}
	return &Evaluator{
		criteria:  DefaultCriteria,
		stats:     stats,
		universes: universes,
		logger:    logger,
	}
}

// WithCriteria overrides the threshold table. Used by tests.
func (e *Evaluator) WithCriteria(criteria map[domain.Horizon]domain.PromotionCriteria) *Evaluator {
	e.criteria = criteria
	return e
}

// meetsCriteria checks the four promotion thresholds.
func meetsCriteria(s *domain.TickerStats, c domain.PromotionCriteria) bool {
	return s.Trades >= c.MinTrades &&
		s.ExpectancyR >= c.MinExpectancyR &&
		s.WinRate >= c.MinWinRate &&
		s.MaxDrawdownPct <= c.MaxDrawdownPct
}

// IsPromotionCandidate reports whether a not-yet-promoted ticker clears all
// four thresholds. An already-promoted ticker is never a candidate.
func IsPromotionCandidate(s *domain.TickerStats, c domain.PromotionCriteria, promoted map[string]bool) bool {
	if promoted[strings.ToUpper(s.Ticker)] {
		return false
	}
	return meetsCriteria(s, c)
}

// IsRedFlag reports whether a currently-promoted ticker with enough trade
// history fails any threshold. Red flags signal demotion review; they do not
// demote automatically.
func IsRedFlag(s *domain.TickerStats, c domain.PromotionCriteria, promoted map[string]bool) bool {
	if !promoted[strings.ToUpper(s.Ticker)] {
		return false
	}
	if s.Trades < c.MinTrades {
		return false
	}
	return !meetsCriteria(s, c)
}

// Classification is the result of evaluating one (engine_version, horizon).
type Classification struct {
	Horizon    domain.Horizon
	Universe   []string
	Candidates []*domain.TickerStats
	RedFlags   []*domain.TickerStats
}

// Classify splits the horizon's TickerStats into promotion candidates and
// red flags against the current universe. A failed universe read propagates:
// classifying against a wrong or empty universe is dangerous, so this path
// fails loudly instead of degrading.
func (e *Evaluator) Classify(ctx context.Context, engineVersion string, horizon domain.Horizon) (*Classification, error) {
	criteria, ok := e.criteria[horizon]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownHorizon, horizon)
	}

	members, err := e.universeMembers(ctx, horizon)
	if err != nil {
		return nil, fmt.Errorf("read universe %s: %w", horizon.UniverseName(), err)
	}

	stats, err := e.stats.ListByVersionHorizon(ctx, engineVersion, horizon)
	if err != nil {
		return nil, fmt.Errorf("list ticker stats %s/%s: %w", engineVersion, horizon, err)
	}

	promoted := make(map[string]bool, len(members))
	for _, t := range members {
		promoted[t] = true
	}

	result := &Classification{Horizon: horizon, Universe: members}
	for _, s := range stats {
		switch {
		case IsPromotionCandidate(s, criteria, promoted):
			result.Candidates = append(result.Candidates, s)
		case IsRedFlag(s, criteria, promoted):
			result.RedFlags = append(result.RedFlags, s)
		}
	}
	return result, nil
}

// Promote adds a ticker to the horizon's universe. Tickers are normalized to
// uppercase; the storage-level set add makes repeat calls no-ops and keeps
// concurrent promotions of different tickers from losing each other.
func (e *Evaluator) Promote(ctx context.Context, ticker string, horizon domain.Horizon) error {
	if !horizon.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownHorizon, horizon)
	}
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return storage.ErrInvalidInput
	}
	if err := e.universes.Add(ctx, horizon.UniverseName(), ticker); err != nil {
		return fmt.Errorf("promote %s to %s: %w", ticker, horizon.UniverseName(), err)
	}
	e.logger.Printf("promoted %s to %s", ticker, horizon.UniverseName())
	return nil
}

// Demote removes a ticker from the horizon's universe. No-op if absent.
func (e *Evaluator) Demote(ctx context.Context, ticker string, horizon domain.Horizon) error {
	if !horizon.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownHorizon, horizon)
	}
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return storage.ErrInvalidInput
	}
	if err := e.universes.Remove(ctx, horizon.UniverseName(), ticker); err != nil {
		return fmt.Errorf("demote %s from %s: %w", ticker, horizon.UniverseName(), err)
	}
	e.logger.Printf("demoted %s from %s", ticker, horizon.UniverseName())
	return nil
}

// universeMembers reads the universe list. Members are uppercased and
// de-duplicated, with a warning when upstream data violates the set invariant.
func (e *Evaluator) universeMembers(ctx context.Context, horizon domain.Horizon) ([]string, error) {
	raw, err := e.universes.Members(ctx, horizon.UniverseName())
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(raw))
	members := make([]string, 0, len(raw))
	for _, t := range raw {
		upper := strings.ToUpper(strings.TrimSpace(t))
		if upper == "" {
			continue
		}
		if seen[upper] {
			e.logger.Printf("warning: duplicate ticker %s in universe %s, de-duplicating", upper, horizon.UniverseName())
			continue
		}
		seen[upper] = true
		members = append(members, upper)
	}
	sort.Strings(members)
	return members, nil
}

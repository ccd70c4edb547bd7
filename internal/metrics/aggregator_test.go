package metrics

import (
	"context"
	"fmt"
	"log"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"perf-governor/internal/domain"
	"perf-governor/internal/normalize"
	"perf-governor/internal/storage/memory"
)

var (
	testPrimary = domain.EngineIdentity{
		EngineKey:     "momentum",
		EngineVersion: "v2",
		RunMode:       domain.RunModePrimary,
		AssetClass:    domain.AssetClassStock,
	}
	testCrypto = domain.EngineIdentity{
		EngineKey:     "grid",
		EngineVersion: "v1",
		RunMode:       domain.RunModeShadow,
		AssetClass:    domain.AssetClassCrypto,
	}
)

func newTestStores() normalize.Stores {
	return normalize.Stores{
		LiveTrades:   memory.NewLiveTradeStore(),
		ShadowStock:  memory.NewShadowStockTradeStore(),
		ShadowCrypto: memory.NewShadowCryptoTradeStore(),
		Snapshots:    memory.NewSnapshotStore(),
	}
}

func newTestAggregator(st normalize.Stores) *Aggregator {
	a := NewAggregator(st, DefaultConfig(), log.New(testWriter{}, "", 0))
	a.now = func() time.Time { return time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC) }
	return a
}

// testWriter discards log output in tests.
type testWriter struct{}

func (testWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestMetricsForEngine_LiveStock(t *testing.T) {
	st := newTestStores()
	ctx := context.Background()

	opened := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	closed := opened.Add(time.Hour)

	rows := []*domain.LiveStockTradeRow{
		{Symbol: "AAPL", Direction: "buy", OpenedAt: opened, ClosedAt: &closed,
			RealizedUSD: decimal.NewFromFloat(400), RMultiple: decimal.NewFromFloat(2.0)},
		{Symbol: "MSFT", Direction: "sell", OpenedAt: opened, ClosedAt: &closed,
			RealizedUSD: decimal.NewFromFloat(-100), RMultiple: decimal.NewFromFloat(-1.0)},
		// Open trade: excluded from every closed-trade statistic.
		{Symbol: "NVDA", Direction: "buy", OpenedAt: opened},
	}
	for _, r := range rows {
		if err := st.LiveTrades.(*memory.LiveTradeStore).Insert(ctx, testPrimary.EngineKey, testPrimary.EngineVersion, r); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	snapStore := st.Snapshots.(*memory.SnapshotStore)
	for i, equity := range []float64{100_000, 100_400, 100_300} {
		err := snapStore.Insert(ctx, testPrimary, &domain.PortfolioSnapshot{
			Timestamp: opened.Add(time.Duration(i) * time.Hour),
			Equity:    equity,
		})
		if err != nil {
			t.Fatalf("insert snapshot: %v", err)
		}
	}

	a := newTestAggregator(st)
	m, err := a.MetricsForEngine(ctx, testPrimary)
	if err != nil {
		t.Fatalf("MetricsForEngine: %v", err)
	}

	if m.TotalTrades != 2 {
		t.Errorf("TotalTrades = %d, want 2", m.TotalTrades)
	}
	if m.Winners != 1 || m.Losers != 1 {
		t.Errorf("Winners/Losers = %d/%d, want 1/1", m.Winners, m.Losers)
	}
	if math.Abs(m.WinRate-0.5) > 1e-9 {
		t.Errorf("WinRate = %v, want 0.5", m.WinRate)
	}
	if math.Abs(m.TotalPnL-300) > 1e-9 {
		t.Errorf("TotalPnL = %v, want 300", m.TotalPnL)
	}
	if math.Abs(m.TodaysPnL-300) > 1e-9 {
		t.Errorf("TodaysPnL = %v, want 300", m.TodaysPnL)
	}
	if math.Abs(m.AvgR-0.5) > 1e-9 {
		t.Errorf("AvgR = %v, want 0.5", m.AvgR)
	}
	if math.Abs(m.CurrentEquity-100_300) > 1e-9 {
		t.Errorf("CurrentEquity = %v, want 100300", m.CurrentEquity)
	}
	if math.Abs(m.NetReturnPct-0.3) > 1e-9 {
		t.Errorf("NetReturnPct = %v, want 0.3", m.NetReturnPct)
	}
	if len(m.EquityCurve) != 3 {
		t.Errorf("len(EquityCurve) = %d, want 3", len(m.EquityCurve))
	}
	if len(m.RecentTrades) != 2 {
		t.Errorf("len(RecentTrades) = %d, want 2", len(m.RecentTrades))
	}
}

func TestMetricsForEngine_NoSnapshotsUsesStartingEquity(t *testing.T) {
	st := newTestStores()
	a := newTestAggregator(st)

	m, err := a.MetricsForEngine(context.Background(), testPrimary)
	if err != nil {
		t.Fatalf("MetricsForEngine: %v", err)
	}

	if m.CurrentEquity != DefaultStartingEquity {
		t.Errorf("CurrentEquity = %v, want %v", m.CurrentEquity, DefaultStartingEquity)
	}
	if m.NetReturnPct != 0 {
		t.Errorf("NetReturnPct = %v, want 0", m.NetReturnPct)
	}
	if m.MaxDrawdownPct != 0 {
		t.Errorf("MaxDrawdownPct = %v, want 0", m.MaxDrawdownPct)
	}
}

func TestMetricsForEngine_CryptoUnrealizedAddedToTotalPnL(t *testing.T) {
	st := newTestStores()
	ctx := context.Background()

	open := time.Date(2026, 3, 2, 1, 0, 0, 0, time.UTC)
	closeT := open.Add(2 * time.Hour)

	cryptoStore := st.ShadowCrypto.(*memory.ShadowCryptoTradeStore)
	err := cryptoStore.Insert(ctx, testCrypto.EngineKey, testCrypto.EngineVersion, &domain.ShadowCryptoTradeRow{
		Pair: "BTC-USD", OrderSide: "buy", OpenTime: open, CloseTime: &closeT,
		PnLQuote: decimal.NewFromFloat(150), PnLR: decimal.NewFromFloat(1.5),
	})
	if err != nil {
		t.Fatalf("insert trade: %v", err)
	}
	err = cryptoStore.InsertPosition(ctx, testCrypto.EngineKey, testCrypto.EngineVersion, &domain.CryptoPositionRow{
		Pair: "ETH-USD", OrderSide: "buy", UnrealizedUSD: decimal.NewFromFloat(-25),
	})
	if err != nil {
		t.Fatalf("insert position: %v", err)
	}

	a := newTestAggregator(st)
	m, err := a.MetricsForEngine(ctx, testCrypto)
	if err != nil {
		t.Fatalf("MetricsForEngine: %v", err)
	}

	if m.TotalTrades != 1 {
		t.Errorf("TotalTrades = %d, want 1", m.TotalTrades)
	}
	if math.Abs(m.TotalPnL-125) > 1e-9 {
		t.Errorf("TotalPnL = %v, want 125 (150 realized - 25 unrealized)", m.TotalPnL)
	}
}

func TestMetricsForEngine_NegativeEquityClamped(t *testing.T) {
	st := newTestStores()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	snapStore := st.Snapshots.(*memory.SnapshotStore)
	for i, equity := range []float64{100, -40, 60} {
		err := snapStore.Insert(ctx, testPrimary, &domain.PortfolioSnapshot{
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Equity:    equity,
		})
		if err != nil {
			t.Fatalf("insert snapshot: %v", err)
		}
	}

	a := newTestAggregator(st)
	m, err := a.MetricsForEngine(ctx, testPrimary)
	if err != nil {
		t.Fatalf("MetricsForEngine: %v", err)
	}

	if m.EquityCurve[1].Equity != 0 {
		t.Errorf("clamped equity = %v, want 0", m.EquityCurve[1].Equity)
	}
	// Peak 100 down to clamped 0 is a full drawdown.
	if math.Abs(m.MaxDrawdownPct-100) > 1e-9 {
		t.Errorf("MaxDrawdownPct = %v, want 100", m.MaxDrawdownPct)
	}
}

// failingLiveStore simulates a broken backing query.
type failingLiveStore struct{}

func (failingLiveStore) ListByEngine(context.Context, string, string) ([]*domain.LiveStockTradeRow, error) {
	return nil, fmt.Errorf("relation does not exist")
}

func TestMetricsForEngines_SkipsBrokenEngine(t *testing.T) {
	st := newTestStores()
	st.LiveTrades = failingLiveStore{}

	ctx := context.Background()
	cryptoStore := st.ShadowCrypto.(*memory.ShadowCryptoTradeStore)
	open := time.Date(2026, 3, 2, 1, 0, 0, 0, time.UTC)
	closeT := open.Add(time.Hour)
	err := cryptoStore.Insert(ctx, testCrypto.EngineKey, testCrypto.EngineVersion, &domain.ShadowCryptoTradeRow{
		Pair: "BTC-USD", OrderSide: "buy", OpenTime: open, CloseTime: &closeT,
		PnLQuote: decimal.NewFromFloat(50), PnLR: decimal.NewFromFloat(0.5),
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	a := newTestAggregator(st)
	results := a.MetricsForEngines(ctx, []domain.EngineIdentity{testPrimary, testCrypto})

	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1 (broken engine skipped)", len(results))
	}
	if results[0].Identity != testCrypto {
		t.Errorf("surviving identity = %s, want %s", results[0].Identity, testCrypto)
	}
}

func TestMetricsForEngines_PreservesInputOrder(t *testing.T) {
	st := newTestStores()
	a := newTestAggregator(st)

	ids := []domain.EngineIdentity{testCrypto, testPrimary}
	results := a.MetricsForEngines(context.Background(), ids)

	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	for i, id := range ids {
		if results[i].Identity != id {
			t.Errorf("results[%d].Identity = %s, want %s", i, results[i].Identity, id)
		}
	}
}

func TestMetricsForEngine_UnsupportedIdentity(t *testing.T) {
	st := newTestStores()
	a := newTestAggregator(st)

	// PRIMARY crypto has no raw record shape.
	_, err := a.MetricsForEngine(context.Background(), domain.EngineIdentity{
		EngineKey:     "grid",
		EngineVersion: "v1",
		RunMode:       domain.RunModePrimary,
		AssetClass:    domain.AssetClassCrypto,
	})
	if err == nil {
		t.Fatal("expected error for unsupported identity")
	}
}

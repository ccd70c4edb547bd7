package memory

import (
	"context"
	"errors"
	"testing"

	"perf-governor/internal/domain"
	"perf-governor/internal/storage"
)

func TestVariantStatsStore_InsertBulkAndList(t *testing.T) {
	store := NewVariantStatsStore()
	ctx := context.Background()

	wr := 0.55
	rows := []*domain.VariantAggregateRow{
		{FilterVariant: "loose-stop", EngineVersion: "v2", AvgWinRate: &wr},
		{FilterVariant: "baseline", EngineVersion: "v2"},
		{FilterVariant: "baseline", EngineVersion: "v1"},
	}
	if err := store.InsertBulk(ctx, rows); err != nil {
		t.Fatalf("InsertBulk: %v", err)
	}

	got, err := store.ListByVersion(ctx, "v2")
	if err != nil {
		t.Fatalf("ListByVersion: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].FilterVariant != "baseline" || got[1].FilterVariant != "loose-stop" {
		t.Errorf("order = [%s %s], want [baseline loose-stop]", got[0].FilterVariant, got[1].FilterVariant)
	}

	// Returned rows are copies; mutating them must not affect the store.
	*got[1].AvgWinRate = 0.99
	again, err := store.ListByVersion(ctx, "v2")
	if err != nil {
		t.Fatalf("ListByVersion: %v", err)
	}
	if *again[1].AvgWinRate != 0.55 {
		t.Errorf("store row mutated through returned copy: %v", *again[1].AvgWinRate)
	}
}

func TestVariantStatsStore_InsertBulkValidation(t *testing.T) {
	store := NewVariantStatsStore()
	ctx := context.Background()

	err := store.InsertBulk(ctx, []*domain.VariantAggregateRow{
		{FilterVariant: "baseline", EngineVersion: "v2"},
		{FilterVariant: "", EngineVersion: "v2"},
	})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}

	// The failed batch must not be partially applied.
	got, err := store.ListByVersion(ctx, "v2")
	if err != nil {
		t.Fatalf("ListByVersion: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0 after rejected batch", len(got))
	}

	if err := store.InsertBulk(ctx, nil); err != nil {
		t.Errorf("InsertBulk(nil) = %v, want nil", err)
	}
}

func TestTradeStores_CopiesAndEngineScoping(t *testing.T) {
	store := NewLiveTradeStore()
	ctx := context.Background()

	row := &domain.LiveStockTradeRow{Symbol: "AAPL", Direction: "buy"}
	if err := store.Insert(ctx, "momentum", "v2", row); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	// Mutating the inserted row must not affect the stored copy.
	row.Symbol = "MUTATED"
	got, err := store.ListByEngine(ctx, "momentum", "v2")
	if err != nil {
		t.Fatalf("ListByEngine: %v", err)
	}
	if len(got) != 1 || got[0].Symbol != "AAPL" {
		t.Errorf("stored row = %+v, want Symbol AAPL", got[0])
	}

	// Other engine versions see nothing.
	other, err := store.ListByEngine(ctx, "momentum", "v3")
	if err != nil {
		t.Fatalf("ListByEngine: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("other version rows = %d, want 0", len(other))
	}
}

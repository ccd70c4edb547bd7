package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// The three raw record shapes below mirror the upstream tables as written by
// the execution pipelines. Field names and side encodings differ per shape;
// translation into the canonical TradeRecord happens only in the normalizer.
// Money columns are NUMERIC upstream and surface here as decimal.Decimal.

// LiveStockTradeRow is one row of the primary live stock trade log.
// Direction is encoded as "buy"/"sell".
type LiveStockTradeRow struct {
	Symbol      string
	Direction   string // "buy" | "sell"
	FillPrice   decimal.Decimal
	ClosePrice  decimal.Decimal
	OpenedAt    time.Time
	ClosedAt    *time.Time
	RealizedUSD decimal.Decimal
	RMultiple   decimal.Decimal
}

// ShadowStockTradeRow is one row of the shadow stock engine's virtual trade
// log. Side is encoded as "long"/"short" and open rows carry their own
// unrealized PnL column.
type ShadowStockTradeRow struct {
	Ticker        string
	PositionSide  string // "long" | "short"
	EntryPx       decimal.Decimal
	ExitPx        decimal.Decimal
	EnteredAt     time.Time
	ExitedAt      *time.Time
	PnLUSD        decimal.Decimal
	PnLR          decimal.Decimal
	UnrealizedUSD decimal.Decimal // meaningful only while ExitedAt is nil
}

// ShadowCryptoTradeRow is one row of the shadow crypto engine's trade log.
// Side is encoded as "buy"/"sell" and the log carries no unrealized column;
// unrealized PnL comes from the open-positions source instead.
type ShadowCryptoTradeRow struct {
	Pair       string
	OrderSide  string // "buy" | "sell"
	EntryQuote decimal.Decimal
	ExitQuote  decimal.Decimal
	OpenTime   time.Time
	CloseTime  *time.Time
	PnLQuote   decimal.Decimal
	PnLR       decimal.Decimal
}

// CryptoPositionRow is one open position of a shadow crypto engine.
type CryptoPositionRow struct {
	Pair          string
	OrderSide     string // "buy" | "sell"
	EntryQuote    decimal.Decimal
	MarkQuote     decimal.Decimal
	UnrealizedUSD decimal.Decimal
}

package domain

import "time"

// Side is the canonical trade direction. Raw sources encode direction
// differently ("buy"/"sell", "long"/"short"); the normalizer maps them here.
type Side string

const (
	SideLong  Side = "LONG"
	SideShort Side = "SHORT"
)

// TradeRecord is the canonical trade shape all three raw sources normalize into.
// ExitTime == nil means the trade is still open: RealizedPnLDollars and
// RealizedPnLR are not meaningful until ExitTime is set, and open trades are
// excluded from realized-PnL aggregation.
type TradeRecord struct {
	Ticker             string
	Side               Side
	EntryPrice         float64
	ExitPrice          float64
	EntryTime          time.Time
	ExitTime           *time.Time
	RealizedPnLDollars float64
	RealizedPnLR       float64
}

// Closed reports whether the trade has an exit and therefore realized PnL.
func (t *TradeRecord) Closed() bool {
	return t.ExitTime != nil
}

// OpenPosition carries the unrealized PnL of a position that has not closed.
// For shadow crypto engines this is the only source of unrealized PnL.
type OpenPosition struct {
	Ticker        string
	Side          Side
	EntryPrice    float64
	CurrentPrice  float64
	UnrealizedPnL float64
}

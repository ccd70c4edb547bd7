package normalize

import (
	"math"

	"github.com/shopspring/decimal"
)

// safeFloat converts a NUMERIC column value to float64, coercing anything
// non-finite to 0. A garbled upstream value degrades one field, never the
// whole aggregation.
func safeFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

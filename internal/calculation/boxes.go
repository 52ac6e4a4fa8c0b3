package calculation

import (
	"github.com/rgehrsitz/lensquote/internal/domain"
	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// YearSupplyBoxes returns the boxes needed for a year. The sheet column holds the
// count doubled, so it is always halved.
func YearSupplyBoxes(row domain.PriceRow) decimal.Decimal {
	if row.BoxesPerYearSupply <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(row.BoxesPerYearSupply)).Div(two)
}

// Boxes applies the supply mode to a year-supply box count. Fractional results
// are kept as-is.
func Boxes(mode domain.SupplyMode, boxesForYear decimal.Decimal) decimal.Decimal {
	switch mode {
	case domain.SupplySixMonth:
		return boxesForYear.Div(two)
	case domain.SupplyOneBox:
		return decimal.NewFromInt(1)
	default:
		return boxesForYear
	}
}

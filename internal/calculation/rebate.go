package calculation

import (
	"strings"

	"github.com/rgehrsitz/lensquote/internal/domain"
	"github.com/shopspring/decimal"
)

// Rebate returns the manufacturer rebate for the right-eye row and the tier it
// came from. Negative sheet values are treated as zero.
func Rebate(row domain.PriceRow, newToBrand bool) (decimal.Decimal, string) {
	amount, tier := row.RebateForCurrentWearer, domain.RebateTierCurrent
	if newToBrand {
		amount, tier = row.RebateForNewWearer, domain.RebateTierNew
	}
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	return amount, tier
}

// RebateLabel describes what the rebate applies to, e.g. "Year supply of Oasys".
// An empty brand is shown as "(Brand)".
func RebateLabel(mode domain.SupplyMode, brand string) string {
	brand = strings.TrimSpace(brand)
	if brand == "" {
		brand = "(Brand)"
	}
	label := mode.Label()
	if strings.HasSuffix(label, " of") {
		return label + " " + brand
	}
	return label + " of " + brand
}

package calculation

import (
	"github.com/rgehrsitz/lensquote/internal/domain"
)

// ResolvePrice finds the price row for a manufacturer/brand pair. Both values are
// trimmed and compared case-sensitively. A miss is not an error: callers treat the
// eye as having no data yet.
func ResolvePrice(table *domain.PriceTable, manufacturer, brand string) (domain.PriceRow, bool) {
	return table.Lookup(manufacturer, brand)
}

// ResolveFee finds the fee row for a fitting type, returning a *domain.LookupError
// when the table has no such row.
func ResolveFee(table *domain.FeeTable, ft domain.FittingType) (domain.FeeRow, error) {
	row, ok := table.Lookup(ft)
	if !ok {
		return domain.FeeRow{}, &domain.LookupError{Table: "fitting fees", Key: string(ft)}
	}
	return row, nil
}

// resolveEye resolves a possibly-unset eye selection
func resolveEye(table *domain.PriceTable, sel *domain.EyeSelection) (domain.PriceRow, bool) {
	if !sel.Complete() {
		return domain.PriceRow{}, false
	}
	return ResolvePrice(table, sel.Manufacturer, sel.Brand)
}

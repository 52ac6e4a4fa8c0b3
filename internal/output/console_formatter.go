package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rgehrsitz/lensquote/internal/domain"
	"github.com/rgehrsitz/lensquote/internal/money"
)

// ConsoleFormatter prints the short quote summary
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(q *domain.Quote) ([]byte, error) {
	var buf bytes.Buffer
	r := q.Result

	fmt.Fprintln(&buf, "CONTACT LENS QUOTE")
	fmt.Fprintln(&buf, strings.Repeat("=", 40))
	if q.Patient != "" {
		fmt.Fprintf(&buf, "Patient: %s\n", q.Patient)
	}
	fmt.Fprintf(&buf, "Supply: %s\n", supplyName(r.Supply))
	fmt.Fprintf(&buf, "Boxes: %s\n", money.FormatBoxes(r.TotalBoxes()))
	fmt.Fprintf(&buf, "Out of pocket: %s\n", money.Format(r.FinalOOP))
	fmt.Fprintf(&buf, "Cost per box after rebate: %s\n", money.Format(r.FinalCostPerBox))
	if r.RebateAmount.IsPositive() {
		fmt.Fprintf(&buf, "Rebate: %s (%s)\n", money.Format(r.RebateAmount), r.RebateLabel)
	}
	for _, n := range Notes(q) {
		fmt.Fprintf(&buf, "! %s\n", n)
	}
	return buf.Bytes(), nil
}

func supplyName(m domain.SupplyMode) string {
	switch m {
	case domain.SupplySixMonth:
		return "6 month supply"
	case domain.SupplyOneBox:
		return "1 box"
	default:
		return "Year supply"
	}
}

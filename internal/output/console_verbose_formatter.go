package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rgehrsitz/lensquote/internal/domain"
)

// ConsoleVerboseFormatter prints every line of the quote, grouped by section
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(q *domain.Quote) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, "=================================================================")
	fmt.Fprintln(&buf, "CONTACT LENS QUOTE: DETAILED BREAKDOWN")
	fmt.Fprintln(&buf, "=================================================================")
	if q.Patient != "" {
		fmt.Fprintf(&buf, "Patient: %s\n", q.Patient)
	}
	writeSelection(&buf, &q.Selection)
	fmt.Fprintln(&buf)

	section := ""
	for _, li := range LineItems(q) {
		if li.Section != section {
			if section != "" {
				fmt.Fprintln(&buf)
			}
			section = li.Section
			fmt.Fprintln(&buf, strings.ToUpper(section))
			fmt.Fprintln(&buf, strings.Repeat("-", len(section)))
		}
		label := "  " + li.Label
		if li.Subtotal {
			label = "  " + strings.ToUpper(li.Label)
		}
		fmt.Fprintf(&buf, "%-52s %12s\n", label+":", li.Display)
	}

	if notes := Notes(q); len(notes) > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "NOTES:")
		for _, n := range notes {
			fmt.Fprintf(&buf, "• %s\n", n)
		}
	}
	return buf.Bytes(), nil
}

func writeSelection(buf *bytes.Buffer, sel *domain.SelectionState) {
	fmt.Fprintf(buf, "Patient status: %s\n", optional(sel.PatientStatus))
	fmt.Fprintf(buf, "Self pay:       %s\n", yesNo(sel.SelfPay))
	fmt.Fprintf(buf, "Fitting type:   %s\n", optional(sel.FittingType))
	fmt.Fprintf(buf, "Fee method:     %s\n", optional(sel.FeeMethod))
	fmt.Fprintf(buf, "New to brand:   %s\n", yesNo(sel.NewToBrand))
	fmt.Fprintf(buf, "Supply:         %s\n", supplyName(sel.SupplyModeOrDefault()))
}

func optional[T ~string](v *T) string {
	if v == nil {
		return "(not selected)"
	}
	return string(*v)
}

func yesNo(v *bool) string {
	switch {
	case v == nil:
		return "(not selected)"
	case *v:
		return "Yes"
	default:
		return "No"
	}
}

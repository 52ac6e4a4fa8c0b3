package compare

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/lensquote/internal/money"
	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing supply modes
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString("SUPPLY COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	if compSet.Patient != "" {
		sb.WriteString(fmt.Sprintf("Patient: %s\n", compSet.Patient))
	}
	sb.WriteString(fmt.Sprintf("Base Supply: %s\n", describe(compSet.BaseMode)))
	sb.WriteString("\n")

	nameWidth := 22
	numWidth := 13

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, "Supply",
		numWidth, "Boxes",
		numWidth, "Lenses",
		numWidth, "Out of Pocket",
		numWidth, "Per Box"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	if compSet.BaseResult != nil {
		sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))
	}

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&alt, nameWidth, numWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", 80) + "\n")

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("%s:\n", alt.Description))
			sb.WriteString(fmt.Sprintf("  Out of Pocket:  %s\n", tf.formatDelta(alt.OOPDiffFromBase)))
			sb.WriteString(fmt.Sprintf("  Cost per Box:   %s\n", tf.formatDelta(alt.CostPerBoxDiffFromBase)))
		}
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
	}

	return sb.String()
}

// formatRow formats a single supply mode row
func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := result.Description
	if isBase {
		name += " (base)"
	}
	return fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, money.FormatBoxes(result.TotalBoxes),
		numWidth, money.Format(result.ContactLensSubtotal),
		numWidth, money.Format(result.FinalOOP),
		numWidth, money.Format(result.FinalCostPerBox))
}

// formatDelta renders a signed difference; zero is "no change"
func (tf *TableFormatter) formatDelta(d decimal.Decimal) string {
	switch {
	case d.IsPositive():
		return "+" + money.Format(d)
	case d.IsNegative():
		return money.Format(d)
	}
	return "no change"
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a single-line summary of cost per box by supply
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	parts := []string{}
	for _, r := range compSet.All() {
		parts = append(parts, fmt.Sprintf("%s: %s/box", r.Description, money.Format(r.FinalCostPerBox)))
	}
	return strings.Join(parts, " | ")
}

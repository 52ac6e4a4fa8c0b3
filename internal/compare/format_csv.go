package compare

import (
	"encoding/csv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Supply",
		"Type",
		"Total Boxes",
		"Contact Lens Subtotal",
		"Rebate",
		"Final OOP",
		"Final Cost Per Box",
		"OOP Diff from Base",
		"Cost Per Box Diff from Base",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	write := func(r ComparisonResult, kind string) error {
		return writer.Write([]string{
			string(r.Mode),
			kind,
			r.TotalBoxes.String(),
			r.ContactLensSubtotal.StringFixed(2),
			r.Rebate.StringFixed(2),
			r.FinalOOP.StringFixed(2),
			r.FinalCostPerBox.StringFixed(2),
			r.OOPDiffFromBase.StringFixed(2),
			r.CostPerBoxDiffFromBase.StringFixed(2),
		})
	}

	if compSet.BaseResult != nil {
		if err := write(*compSet.BaseResult, "Base"); err != nil {
			return "", err
		}
	}
	for _, alt := range compSet.AlternativeResults {
		if err := write(alt, "Alternative"); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

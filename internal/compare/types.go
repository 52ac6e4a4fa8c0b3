package compare

import (
	"fmt"

	"github.com/rgehrsitz/lensquote/internal/domain"
	"github.com/rgehrsitz/lensquote/internal/money"
	"github.com/shopspring/decimal"
)

// ComparisonResult is one supply mode derived from the shared selection
type ComparisonResult struct {
	Mode        domain.SupplyMode     `json:"mode"`
	Description string                `json:"description"`
	Result      *domain.DerivedResult `json:"-"`

	// Key Metrics
	TotalBoxes          decimal.Decimal `json:"totalBoxes"`
	ContactLensSubtotal decimal.Decimal `json:"contactLensSubtotal"`
	Rebate              decimal.Decimal `json:"rebate"`
	FinalOOP            decimal.Decimal `json:"finalOOP"`
	FinalCostPerBox     decimal.Decimal `json:"finalCostPerBox"`

	// Comparison to Base
	OOPDiffFromBase        decimal.Decimal `json:"oopDiffFromBase"`
	CostPerBoxDiffFromBase decimal.Decimal `json:"costPerBoxDiffFromBase"`
}

// ComparisonSet is the base supply mode plus its alternatives
type ComparisonSet struct {
	BaseMode           domain.SupplyMode  `json:"baseMode"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	Patient            string             `json:"patient,omitempty"`
}

// All returns the base result followed by the alternatives
func (cs *ComparisonSet) All() []ComparisonResult {
	out := make([]ComparisonResult, 0, len(cs.AlternativeResults)+1)
	if cs.BaseResult != nil {
		out = append(out, *cs.BaseResult)
	}
	return append(out, cs.AlternativeResults...)
}

// MetricsCalculator extracts comparison metrics from derived results
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics computes the metrics of one derived result
func (mc *MetricsCalculator) CalculateMetrics(mode domain.SupplyMode, r *domain.DerivedResult) ComparisonResult {
	return ComparisonResult{
		Mode:                mode,
		Description:         describe(mode),
		Result:              r,
		TotalBoxes:          r.TotalBoxes(),
		ContactLensSubtotal: r.ContactLensSubtotal,
		Rebate:              r.RebateAmount,
		FinalOOP:            r.FinalOOP,
		FinalCostPerBox:     r.FinalCostPerBox,
	}
}

// CalculateComparison fills the differences from base
func (mc *MetricsCalculator) CalculateComparison(alt, base ComparisonResult) ComparisonResult {
	alt.OOPDiffFromBase = alt.FinalOOP.Sub(base.FinalOOP)
	alt.CostPerBoxDiffFromBase = alt.FinalCostPerBox.Sub(base.FinalCostPerBox)
	return alt
}

func describe(mode domain.SupplyMode) string {
	switch mode {
	case domain.SupplySixMonth:
		return "6 month supply"
	case domain.SupplyOneBox:
		return "1 box per eye"
	default:
		return "Year supply"
	}
}

// GenerateRecommendations names the supply mode with the lowest cost per box and
// the one with the lowest out-of-pocket total. Modes without boxes are skipped.
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	var cheapestBox, cheapestOOP *ComparisonResult
	all := compSet.All()
	for i := range all {
		r := &all[i]
		if !r.TotalBoxes.IsPositive() {
			continue
		}
		if cheapestBox == nil || r.FinalCostPerBox.LessThan(cheapestBox.FinalCostPerBox) {
			cheapestBox = r
		}
		if cheapestOOP == nil || r.FinalOOP.LessThan(cheapestOOP.FinalOOP) {
			cheapestOOP = r
		}
	}
	if cheapestBox == nil {
		return recommendations
	}

	recommendations = append(recommendations,
		fmt.Sprintf("Lowest cost per box: %s at %s per box", cheapestBox.Description, money.Format(cheapestBox.FinalCostPerBox)))
	recommendations = append(recommendations,
		fmt.Sprintf("Lowest out of pocket today: %s at %s", cheapestOOP.Description, money.Format(cheapestOOP.FinalOOP)))

	if compSet.BaseResult != nil && cheapestBox.Mode != compSet.BaseMode {
		saving := compSet.BaseResult.FinalCostPerBox.Sub(cheapestBox.FinalCostPerBox)
		if saving.IsPositive() {
			recommendations = append(recommendations,
				fmt.Sprintf("Switching to %s saves %s per box", cheapestBox.Description, money.Format(saving)))
		}
	}
	return recommendations
}

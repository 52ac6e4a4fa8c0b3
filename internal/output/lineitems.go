package output

import (
	"fmt"

	"github.com/rgehrsitz/lensquote/internal/domain"
	"github.com/rgehrsitz/lensquote/internal/money"
	"github.com/shopspring/decimal"
)

// Quote sections
const (
	SectionContactLenses = "Contact Lenses"
	SectionRebate        = "Rebate"
	SectionExam          = "Exam"
	SectionDeductions    = "Deductions"
	SectionTotals        = "Totals"
)

// Line item units
const (
	UnitUSD   = "usd"
	UnitBoxes = "boxes"
)

// LineItem is one labelled amount of a rendered quote
type LineItem struct {
	Section  string          `json:"section"`
	Label    string          `json:"label"`
	Amount   decimal.Decimal `json:"amount"`
	Unit     string          `json:"unit"`
	Display  string          `json:"display"`
	Subtotal bool            `json:"subtotal,omitempty"`
}

func item(section, label string, amount decimal.Decimal) LineItem {
	return LineItem{Section: section, Label: label, Amount: amount, Unit: UnitUSD, Display: money.Format(amount)}
}

func boxes(label string, amount decimal.Decimal) LineItem {
	return LineItem{Section: SectionContactLenses, Label: label, Amount: amount, Unit: UnitBoxes, Display: money.FormatBoxes(amount)}
}

func subtotal(section, label string, amount decimal.Decimal) LineItem {
	li := item(section, label, amount)
	li.Subtotal = true
	return li
}

func deduction(label string, amount decimal.Decimal) LineItem {
	return LineItem{Section: SectionDeductions, Label: label, Amount: amount, Unit: UnitUSD, Display: money.FormatDeduction(amount)}
}

// LineItems flattens a quote into display rows, in form order
func LineItems(q *domain.Quote) []LineItem {
	r := q.Result
	exam := q.Selection.Exam

	items := []LineItem{
		item(SectionContactLenses, "Price per box, right "+r.BrandLabel(domain.EyeRight), r.PriceRight),
		boxes("Boxes, right", r.BoxesRight),
		item(SectionContactLenses, "Price per box, left "+r.BrandLabel(domain.EyeLeft), r.PriceLeft),
		boxes("Boxes, left", r.BoxesLeft),
		subtotal(SectionContactLenses, "Contact lens subtotal", r.ContactLensSubtotal),
	}

	rebateLabel := r.RebateLabel
	if r.RebateTier != "" {
		rebateLabel += " (" + r.RebateTier + ")"
	}
	items = append(items, item(SectionRebate, rebateLabel, r.RebateAmount))

	fee := LineItem{Section: SectionExam, Label: "Fitting fee", Unit: UnitUSD, Display: "-"}
	if r.FittingFeeFinal != nil {
		fee.Amount = *r.FittingFeeFinal
		fee.Display = money.Format(fee.Amount)
	}
	items = append(items,
		item(SectionExam, "Exam copay", exam.ExamCopay),
		item(SectionExam, "Retinal image fee", exam.RetinalImageFee),
		item(SectionExam, "IR training fee", exam.IRTrainingFee),
		item(SectionExam, "Additional fees", exam.AdditionalFees),
		fee,
		subtotal(SectionExam, "Exam subtotal", r.ExamSubtotal),
		deduction("Contact lens allowance", exam.ContactLensAllowance),
		deduction("Additional savings", exam.AdditionalSavings),
		LineItem{Section: SectionDeductions, Label: "Deductions subtotal", Amount: r.DeductionsSubtotal,
			Unit: UnitUSD, Display: money.FormatDeduction(r.DeductionsSubtotal), Subtotal: true},
		subtotal(SectionTotals, "Final out of pocket", r.FinalOOP),
		subtotal(SectionTotals, "Final cost per box after rebate", r.FinalCostPerBox),
	)
	return items
}

// hiddenCredit reports the net credit per box that the cost-per-box floor hides
func hiddenCredit(r domain.DerivedResult) (decimal.Decimal, bool) {
	boxes := r.TotalBoxes()
	if r.Pending || !boxes.IsPositive() {
		return decimal.Zero, false
	}
	perBox := r.ContactLensSubtotal.Add(r.DeductionsSubtotal).Sub(r.RebateAmount).Div(boxes)
	if !perBox.IsNegative() {
		return decimal.Zero, false
	}
	return perBox.Neg().Round(2), true
}

// Notes lists the warnings that belong on every rendering of a quote
func Notes(q *domain.Quote) []string {
	notes := append([]string(nil), q.Notes...)
	if q.Result.Pending {
		notes = append(notes, "Pricing tables are not loaded; amounts are placeholders.")
	}
	if q.Stale {
		notes = append(notes, "Prices come from a cached copy of the pricing sheet.")
	}
	if q.Result.FeeError != "" {
		notes = append(notes, "Fitting fee unavailable: "+q.Result.FeeError)
	}
	if credit, ok := hiddenCredit(q.Result); ok {
		notes = append(notes, fmt.Sprintf("Rebate and deductions exceed the lens cost by %s; cost per box is shown as %s.",
			money.Format(credit), money.Format(decimal.Zero)))
	}
	return notes
}

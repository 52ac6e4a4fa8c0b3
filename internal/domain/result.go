package domain

import (
	"github.com/shopspring/decimal"
)

// Stage is one step of the fixed derivation pipeline. Stages run in declaration
// order and each reads the committed values of the stages before it.
type Stage int

const (
	StageBoxes Stage = iota
	StageContactLensSubtotal
	StageRebate
	StageFittingFee
	StageExamSubtotal
	StageDeductionsSubtotal
	StageFinalOOP
	StageFinalCostPerBox
)

// Stages lists the pipeline in execution order
var Stages = []Stage{
	StageBoxes,
	StageContactLensSubtotal,
	StageRebate,
	StageFittingFee,
	StageExamSubtotal,
	StageDeductionsSubtotal,
	StageFinalOOP,
	StageFinalCostPerBox,
}

func (s Stage) String() string {
	switch s {
	case StageBoxes:
		return "boxes"
	case StageContactLensSubtotal:
		return "contact-lens subtotal"
	case StageRebate:
		return "rebate"
	case StageFittingFee:
		return "fitting fee"
	case StageExamSubtotal:
		return "exam subtotal"
	case StageDeductionsSubtotal:
		return "deductions subtotal"
	case StageFinalOOP:
		return "final OOP"
	case StageFinalCostPerBox:
		return "final cost per box"
	default:
		return "unknown"
	}
}

// Rebate tier labels
const (
	RebateTierNew     = "New Wearer"
	RebateTierCurrent = "Current Wearer"
)

// DerivedResult is the full set of values computed from a selection and the tables.
// It is never persisted; recompute it instead.
type DerivedResult struct {
	// Pending is set while the tables are not loaded; every amount is zero
	Pending bool       `json:"pending"`
	Supply  SupplyMode `json:"supply"`

	RightResolved bool            `json:"rightResolved"`
	LeftResolved  bool            `json:"leftResolved"`
	BrandRight    string          `json:"brandRight,omitempty"`
	BrandLeft     string          `json:"brandLeft,omitempty"`
	PriceRight    decimal.Decimal `json:"priceRight"`
	PriceLeft     decimal.Decimal `json:"priceLeft"`
	BoxesRight    decimal.Decimal `json:"boxesRight"`
	BoxesLeft     decimal.Decimal `json:"boxesLeft"`

	RebateAmount decimal.Decimal `json:"rebateAmount"`
	RebateTier   string          `json:"rebateTier,omitempty"`
	RebateLabel  string          `json:"rebateLabel"`

	// FittingFeeBase and FittingFeeFinal are nil until the fee can be derived
	FittingFeeBase  *decimal.Decimal `json:"fittingFeeBase,omitempty"`
	FittingFeeFinal *decimal.Decimal `json:"fittingFeeFinal,omitempty"`
	FeeError        string           `json:"feeError,omitempty"`

	ExamSubtotal        decimal.Decimal `json:"examSubtotal"`
	ContactLensSubtotal decimal.Decimal `json:"contactLensSubtotal"`
	DeductionsSubtotal  decimal.Decimal `json:"deductionsSubtotal"`
	FinalOOP            decimal.Decimal `json:"finalOOP"`
	FinalCostPerBox     decimal.Decimal `json:"finalCostPerBox"`
}

// TotalBoxes returns boxes for both eyes
func (r DerivedResult) TotalBoxes() decimal.Decimal {
	return r.BoxesRight.Add(r.BoxesLeft)
}

// FittingFeeOrZero returns the final fitting fee, zero when absent
func (r DerivedResult) FittingFeeOrZero() decimal.Decimal {
	if r.FittingFeeFinal == nil {
		return decimal.Zero
	}
	return *r.FittingFeeFinal
}

// BrandLabel returns "(Brand)" for a resolved eye and "(Not selected)" otherwise
func (r DerivedResult) BrandLabel(eye Eye) string {
	brand, ok := r.BrandRight, r.RightResolved
	if eye == EyeLeft {
		brand, ok = r.BrandLeft, r.LeftResolved
	}
	if !ok || brand == "" {
		return "(Not selected)"
	}
	return "(" + brand + ")"
}

// Quote pairs a selection with the result derived from it
type Quote struct {
	Patient   string         `json:"patient,omitempty"`
	Selection SelectionState `json:"selection"`
	Result    DerivedResult  `json:"result"`
	Stale     bool           `json:"stale,omitempty"`
	Notes     []string       `json:"notes,omitempty"`
}

package calculation

import (
	"github.com/rgehrsitz/lensquote/internal/domain"
	"github.com/rgehrsitz/lensquote/internal/logging"
	"github.com/shopspring/decimal"
)

// Engine runs the fixed derivation pipeline over a selection and the loaded tables
type Engine struct {
	Logger logging.Logger
}

// NewEngine creates an engine with a no-op logger
func NewEngine() *Engine {
	return &Engine{Logger: logging.NopLogger{}}
}

// SetLogger sets the engine logger; nil restores the no-op logger
func (e *Engine) SetLogger(l logging.Logger) {
	e.Logger = logging.OrNop(l)
}

type stageFunc func(r *domain.DerivedResult, tables *domain.Tables, sel *domain.SelectionState)

var pipeline = map[domain.Stage]stageFunc{
	domain.StageBoxes:               deriveBoxes,
	domain.StageContactLensSubtotal: deriveContactLensSubtotal,
	domain.StageRebate:              deriveRebate,
	domain.StageFittingFee:          deriveFittingFee,
	domain.StageExamSubtotal:        deriveExamSubtotal,
	domain.StageDeductionsSubtotal:  deriveDeductionsSubtotal,
	domain.StageFinalOOP:            deriveFinalOOP,
	domain.StageFinalCostPerBox:     deriveFinalCostPerBox,
}

// Derive computes every result field from scratch
func (e *Engine) Derive(tables *domain.Tables, sel domain.SelectionState) domain.DerivedResult {
	return e.DeriveFrom(domain.StageBoxes, domain.DerivedResult{}, tables, sel)
}

// DeriveFrom re-runs the pipeline from stage to the end. Fields owned by earlier
// stages are taken from prior as committed values. A pending prior, or tables that
// are not loaded, forces a full run.
func (e *Engine) DeriveFrom(stage domain.Stage, prior domain.DerivedResult, tables *domain.Tables, sel domain.SelectionState) domain.DerivedResult {
	log := logging.OrNop(e.Logger)

	if !tables.Loaded() {
		log.Debugf("tables not loaded, result pending")
		return pendingResult(&sel)
	}
	if prior.Pending {
		stage = domain.StageBoxes
	}

	r := prior
	r.Pending = false
	for _, s := range domain.Stages {
		if s < stage {
			continue
		}
		log.Debugf("deriving %s", s)
		pipeline[s](&r, tables, &sel)
	}
	return r
}

func pendingResult(sel *domain.SelectionState) domain.DerivedResult {
	supply := sel.SupplyModeOrDefault()
	return domain.DerivedResult{
		Pending:     true,
		Supply:      supply,
		RebateLabel: RebateLabel(supply, ""),
	}
}

func deriveBoxes(r *domain.DerivedResult, tables *domain.Tables, sel *domain.SelectionState) {
	r.Supply = sel.SupplyModeOrDefault()

	right, ok := resolveEye(tables.Prices, sel.Right)
	r.RightResolved, r.BrandRight, r.PriceRight, r.BoxesRight = eyeValues(right, ok, r.Supply)

	left, ok := resolveEye(tables.Prices, sel.Left)
	r.LeftResolved, r.BrandLeft, r.PriceLeft, r.BoxesLeft = eyeValues(left, ok, r.Supply)
}

func eyeValues(row domain.PriceRow, ok bool, mode domain.SupplyMode) (bool, string, decimal.Decimal, decimal.Decimal) {
	if !ok {
		return false, "", decimal.Zero, decimal.Zero
	}
	return true, row.Brand, row.PricePerBox, Boxes(mode, YearSupplyBoxes(row))
}

func deriveContactLensSubtotal(r *domain.DerivedResult, _ *domain.Tables, _ *domain.SelectionState) {
	r.ContactLensSubtotal = ContactLensSubtotal(r.BoxesRight, r.PriceRight, r.BoxesLeft, r.PriceLeft)
}

func deriveRebate(r *domain.DerivedResult, tables *domain.Tables, sel *domain.SelectionState) {
	r.RebateLabel = RebateLabel(r.Supply, r.BrandRight)
	r.RebateAmount, r.RebateTier = decimal.Zero, ""

	if sel.NewToBrand == nil {
		return
	}
	row, ok := resolveEye(tables.Prices, sel.Right)
	if !ok {
		return
	}
	r.RebateAmount, r.RebateTier = Rebate(row, *sel.NewToBrand)
}

func deriveFittingFee(r *domain.DerivedResult, tables *domain.Tables, sel *domain.SelectionState) {
	r.FittingFeeBase, r.FittingFeeFinal, r.FeeError = nil, nil, ""

	base, err := BaseFittingFee(tables.Fees, sel)
	if err != nil {
		r.FeeError = err.Error()
		return
	}
	r.FittingFeeBase = base
	r.FittingFeeFinal = FinalFittingFee(base, sel.FeeMethod, sel.Manual)
}

func deriveExamSubtotal(r *domain.DerivedResult, _ *domain.Tables, sel *domain.SelectionState) {
	r.ExamSubtotal = ExamSubtotal(sel.Exam, r.FittingFeeFinal)
}

func deriveDeductionsSubtotal(r *domain.DerivedResult, _ *domain.Tables, sel *domain.SelectionState) {
	r.DeductionsSubtotal = DeductionsSubtotal(sel.Exam)
}

func deriveFinalOOP(r *domain.DerivedResult, _ *domain.Tables, _ *domain.SelectionState) {
	r.FinalOOP = FinalOOP(r.ExamSubtotal, r.ContactLensSubtotal, r.DeductionsSubtotal)
}

func deriveFinalCostPerBox(r *domain.DerivedResult, _ *domain.Tables, _ *domain.SelectionState) {
	r.FinalCostPerBox = FinalCostPerBox(r.ContactLensSubtotal, r.DeductionsSubtotal, r.RebateAmount, r.TotalBoxes())
}

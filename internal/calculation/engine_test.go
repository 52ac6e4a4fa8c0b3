package calculation

import (
	"fmt"
	"testing"

	"github.com/rgehrsitz/lensquote/internal/domain"
	"github.com/rgehrsitz/lensquote/internal/logging"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

func testTables(t *testing.T) *domain.Tables {
	t.Helper()

	prices := domain.NewPriceTable([]domain.PriceRow{
		{
			Manufacturer:           "Johnson & Johnson",
			Brand:                  "Acuvue Oasys",
			PricePerBox:            dec("29.99"),
			BoxesPerYearSupply:     16,
			RebateForNewWearer:     dec("100"),
			RebateForCurrentWearer: dec("50"),
		},
		{
			Manufacturer:           "Alcon",
			Brand:                  "Dailies Total1",
			PricePerBox:            dec("45"),
			BoxesPerYearSupply:     18,
			RebateForNewWearer:     dec("200"),
			RebateForCurrentWearer: dec("75"),
		},
	})
	fees, err := domain.NewFeeTable([]domain.FeeRow{
		{FittingType: domain.FittingSphere, SelfPayFee: dec("60"), InsuranceNewFee: dec("50"), InsuranceEstablishedFee: dec("30")},
		{FittingType: domain.FittingToric, SelfPayFee: dec("80"), InsuranceNewFee: dec("60"), InsuranceEstablishedFee: dec("40")},
		{FittingType: domain.FittingMultifocal, SelfPayFee: dec("120"), InsuranceNewFee: dec("90"), InsuranceEstablishedFee: dec("70")},
	})
	require.NoError(t, err)
	return &domain.Tables{Prices: prices, Fees: fees}
}

func oasys() *domain.EyeSelection {
	return &domain.EyeSelection{Manufacturer: "Johnson & Johnson", Brand: "Acuvue Oasys"}
}

func TestNewEngine(t *testing.T) {
	engine := NewEngine()

	assert.NotNil(t, engine, "Should create engine")
	assert.NotNil(t, engine.Logger, "Should initialize logger")
}

func TestEngine_SetLogger(t *testing.T) {
	engine := NewEngine()

	customLogger := &TestLogger{}
	engine.SetLogger(customLogger)
	assert.Equal(t, customLogger, engine.Logger, "Should set custom logger")

	engine.SetLogger(nil)
	assert.NotNil(t, engine.Logger, "Should not be nil")
	assert.IsType(t, logging.NopLogger{}, engine.Logger, "Should be no-op logger")
}

func TestEngine_Derive_Pending(t *testing.T) {
	engine := NewEngine()
	sel := domain.NewSelectionState()
	sel.Right = oasys()
	sel.Exam.ExamCopay = dec("20")

	result := engine.Derive(&domain.Tables{}, sel)

	assert.True(t, result.Pending, "Unloaded tables should give a pending result")
	assert.True(t, result.FinalOOP.IsZero())
	assert.True(t, result.BoxesRight.IsZero())
	assert.Nil(t, result.FittingFeeFinal)
	assert.Equal(t, "Year supply of (Brand)", result.RebateLabel)

	result = engine.Derive(nil, sel)
	assert.True(t, result.Pending, "Nil tables should give a pending result")
}

func TestEngine_Derive_YearSupplyScenario(t *testing.T) {
	engine := NewEngine()
	sel := domain.NewSelectionState()
	sel.Right = oasys()
	sel.NewToBrand = ptr(true)

	result := engine.Derive(testTables(t), sel)

	assert.False(t, result.Pending)
	assert.True(t, result.RightResolved)
	assert.True(t, result.BoxesRight.Equal(dec("8")), "16 doubled boxes should give 8, got %s", result.BoxesRight)
	assert.True(t, result.RebateAmount.Equal(dec("100")), "New wearer rebate expected, got %s", result.RebateAmount)
	assert.Equal(t, domain.RebateTierNew, result.RebateTier)
	assert.Equal(t, "Year supply of Acuvue Oasys", result.RebateLabel)
	assert.True(t, result.ContactLensSubtotal.Equal(dec("239.92")), "8 x 29.99, got %s", result.ContactLensSubtotal)

	// (239.92 - 100) / 8
	assert.True(t, result.FinalCostPerBox.Equal(dec("17.49")), "got %s", result.FinalCostPerBox)
}

func TestEngine_Derive_ToricInsuranceEstablished(t *testing.T) {
	engine := NewEngine()
	sel := domain.NewSelectionState()
	sel.FittingType = ptr(domain.FittingToric)
	sel.SelfPay = ptr(false)
	sel.PatientStatus = ptr(domain.PatientEstablished)

	result := engine.Derive(testTables(t), sel)

	require.NotNil(t, result.FittingFeeBase)
	assert.True(t, result.FittingFeeBase.Equal(dec("40")), "got %s", result.FittingFeeBase)
	require.NotNil(t, result.FittingFeeFinal)
	assert.True(t, result.FittingFeeFinal.Equal(dec("40")), "No method keeps the base fee")
	assert.True(t, result.ExamSubtotal.Equal(dec("40")), "Fitting fee is folded into the exam subtotal")

	sel.FeeMethod = ptr(domain.FeeMethodPercent)
	sel.Manual.DiscountPercent = dec("25")
	result = engine.Derive(testTables(t), sel)

	require.NotNil(t, result.FittingFeeFinal)
	assert.Equal(t, "30.00", result.FittingFeeFinal.StringFixed(2))
}

func TestEngine_Derive_FeeLookupMiss(t *testing.T) {
	tables := testTables(t)
	fees, err := domain.NewFeeTable([]domain.FeeRow{
		{FittingType: domain.FittingSphere, SelfPayFee: dec("60")},
	})
	require.NoError(t, err)
	tables.Fees = fees

	sel := domain.NewSelectionState()
	sel.Right = oasys()
	sel.FittingType = ptr(domain.FittingToric)
	sel.SelfPay = ptr(true)
	sel.PatientStatus = ptr(domain.PatientNew)

	result := NewEngine().Derive(tables, sel)

	assert.Nil(t, result.FittingFeeBase, "A fee miss leaves the fee absent")
	assert.Contains(t, result.FeeError, "Toric")
	assert.True(t, result.BoxesRight.Equal(dec("8")), "Other stages still derive")
}

func TestEngine_Derive_BothEyesUnset(t *testing.T) {
	sel := domain.NewSelectionState()
	sel.Exam.ContactLensAllowance = dec("-50")

	result := NewEngine().Derive(testTables(t), sel)

	assert.False(t, result.RightResolved)
	assert.False(t, result.LeftResolved)
	assert.True(t, result.ContactLensSubtotal.IsZero())
	assert.True(t, result.FinalCostPerBox.IsZero(), "Zero boxes must not divide")
	assert.Equal(t, "(Not selected)", result.BrandLabel(domain.EyeRight))
}

func TestEngine_Derive_UnknownBrandIsPlaceholder(t *testing.T) {
	sel := domain.NewSelectionState()
	sel.Right = &domain.EyeSelection{Manufacturer: "Nobody", Brand: "Nothing"}
	sel.NewToBrand = ptr(true)

	result := NewEngine().Derive(testTables(t), sel)

	assert.False(t, result.RightResolved)
	assert.True(t, result.BoxesRight.IsZero())
	assert.True(t, result.RebateAmount.IsZero())
}

func TestEngine_Derive_EyesIndependent(t *testing.T) {
	sel := domain.NewSelectionState()
	sel.Left = &domain.EyeSelection{Manufacturer: " Alcon ", Brand: "Dailies Total1 "}
	sel.Supply = domain.SupplySixMonth
	sel.NewToBrand = ptr(true)

	result := NewEngine().Derive(testTables(t), sel)

	assert.False(t, result.RightResolved)
	assert.True(t, result.LeftResolved, "Lookup trims whitespace")
	assert.True(t, result.BoxesLeft.Equal(dec("4.5")), "got %s", result.BoxesLeft)
	assert.True(t, result.RebateAmount.IsZero(), "Rebate follows the right eye only")
	assert.True(t, result.ContactLensSubtotal.Equal(dec("202.5")))
}

func TestEngine_Derive_Invariants(t *testing.T) {
	tables := testTables(t)
	engine := NewEngine()

	allowances := []string{"0", "50", "-50", "900"}
	for _, mode := range domain.SupplyModes {
		for _, method := range domain.FeeMethods {
			for _, allowance := range allowances {
				name := fmt.Sprintf("%s/%s/%s", mode, method, allowance)
				t.Run(name, func(t *testing.T) {
					sel := domain.NewSelectionState()
					sel.Supply = mode
					sel.Right = oasys()
					sel.Left = &domain.EyeSelection{Manufacturer: "Alcon", Brand: "Dailies Total1"}
					sel.NewToBrand = ptr(false)
					sel.FittingType = ptr(domain.FittingSphere)
					sel.SelfPay = ptr(true)
					sel.PatientStatus = ptr(domain.PatientNew)
					sel.FeeMethod = ptr(method)
					sel.Manual = domain.ManualInputs{CopayAmount: dec("10"), DiscountPercent: dec("10"), DiscountAmount: dec("5")}
					sel.Exam.ContactLensAllowance = dec(allowance)
					sel.Exam.AdditionalSavings = dec(allowance)
					sel.Exam.ExamCopay = dec("15")

					r := engine.Derive(tables, sel)

					assert.True(t, r.DeductionsSubtotal.LessThanOrEqual(decimal.Zero), "Deductions must be <= 0")
					assert.True(t, r.FinalOOP.Equal(r.ExamSubtotal.Add(r.ContactLensSubtotal).Add(r.DeductionsSubtotal)), "OOP identity")
					assert.False(t, r.FinalCostPerBox.IsNegative(), "Cost per box must not be negative")
					assert.True(t, r.ContactLensSubtotal.GreaterThanOrEqual(decimal.Zero))
				})
			}
		}
	}
}

func TestEngine_DeriveFrom_MatchesFullDerive(t *testing.T) {
	tables := testTables(t)
	engine := NewEngine()

	sel := domain.NewSelectionState()
	sel.Right = oasys()
	sel.NewToBrand = ptr(true)
	sel.FittingType = ptr(domain.FittingToric)
	sel.SelfPay = ptr(false)
	sel.PatientStatus = ptr(domain.PatientNew)
	prior := engine.Derive(tables, sel)

	sel.FeeMethod = ptr(domain.FeeMethodDollar)
	sel.Manual.DiscountAmount = dec("15")

	partial := engine.DeriveFrom(domain.StageFittingFee, prior, tables, sel)
	full := engine.Derive(tables, sel)

	assert.Equal(t, full, partial, "Partial recomputation should equal a full run")
	assert.True(t, partial.FittingFeeFinal.Equal(dec("45")))
}

func TestEngine_RoundTripClear(t *testing.T) {
	tables := testTables(t)
	engine := NewEngine()

	baseline := engine.Derive(tables, domain.NewSelectionState())

	sel := domain.NewSelectionState()
	sel.Right = oasys()
	sel.NewToBrand = ptr(true)
	set := engine.Derive(tables, sel)
	require.True(t, set.RebateAmount.IsPositive())

	sel.Right = nil
	sel.NewToBrand = nil
	cleared := engine.DeriveFrom(domain.StageBoxes, set, tables, sel)

	assert.Equal(t, baseline, cleared, "Clearing should leave no stale values")
}

// TestLogger is a simple logger for testing
type TestLogger struct {
	messages []string
}

func (tl *TestLogger) Debugf(format string, args ...any) {
	tl.messages = append(tl.messages, "DEBUG: "+fmt.Sprintf(format, args...))
}

func (tl *TestLogger) Infof(format string, args ...any) {
	tl.messages = append(tl.messages, "INFO: "+fmt.Sprintf(format, args...))
}

func (tl *TestLogger) Warnf(format string, args ...any) {
	tl.messages = append(tl.messages, "WARN: "+fmt.Sprintf(format, args...))
}

func (tl *TestLogger) Errorf(format string, args ...any) {
	tl.messages = append(tl.messages, "ERROR: "+fmt.Sprintf(format, args...))
}

func TestEngine_LogsStages(t *testing.T) {
	engine := NewEngine()
	logger := &TestLogger{}
	engine.SetLogger(logger)

	engine.DeriveFrom(domain.StageFinalOOP, domain.DerivedResult{}, testTables(t), domain.NewSelectionState())

	assert.Equal(t, []string{"DEBUG: deriving final OOP", "DEBUG: deriving final cost per box"}, logger.messages)
}

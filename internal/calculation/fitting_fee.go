package calculation

import (
	"github.com/rgehrsitz/lensquote/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// BaseFittingFee selects the base fee from the fee table. It returns (nil, nil)
// while any of fitting type, self-pay or patient status is unset, and a
// *domain.LookupError when the fitting type has no fee row.
func BaseFittingFee(table *domain.FeeTable, sel *domain.SelectionState) (*decimal.Decimal, error) {
	if sel.FittingType == nil || sel.SelfPay == nil || sel.PatientStatus == nil {
		return nil, nil
	}

	row, err := ResolveFee(table, *sel.FittingType)
	if err != nil {
		return nil, err
	}

	var base decimal.Decimal
	switch {
	case *sel.SelfPay:
		base = row.SelfPayFee
	case *sel.PatientStatus == domain.PatientNew:
		base = row.InsuranceNewFee
	default:
		base = row.InsuranceEstablishedFee
	}
	return &base, nil
}

// FinalFittingFee applies the fitting-fee method to a base fee. A nil base stays nil:
// the fee is absent rather than zero.
func FinalFittingFee(base *decimal.Decimal, method *domain.FeeMethod, manual domain.ManualInputs) *decimal.Decimal {
	if base == nil {
		return nil
	}

	final := *base
	if method != nil {
		switch *method {
		case domain.FeeMethodCopay:
			final = manual.CopayAmount
		case domain.FeeMethodPercent:
			final = base.Mul(decimal.NewFromInt(1).Sub(manual.DiscountPercent.Div(hundred)))
		case domain.FeeMethodDollar:
			final = base.Sub(manual.DiscountAmount)
		}
	}
	return &final
}

package calculation

import (
	"github.com/rgehrsitz/lensquote/internal/domain"
	"github.com/rgehrsitz/lensquote/internal/money"
	"github.com/shopspring/decimal"
)

// ExamSubtotal sums the exam lines. The final fitting fee is billed here as the
// contact-lens exam fee.
func ExamSubtotal(exam domain.ExamInputs, fittingFee *decimal.Decimal) decimal.Decimal {
	total := exam.ExamCopay.
		Add(exam.RetinalImageFee).
		Add(exam.IRTrainingFee).
		Add(exam.AdditionalFees)
	if fittingFee != nil {
		total = total.Add(*fittingFee)
	}
	return total
}

// ContactLensSubtotal is boxes times price for both eyes, floored at zero
func ContactLensSubtotal(boxesRight, priceRight, boxesLeft, priceLeft decimal.Decimal) decimal.Decimal {
	total := boxesRight.Mul(priceRight).Add(boxesLeft.Mul(priceLeft))
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// DeductionsSubtotal sums the allowance and savings, each forced non-positive
func DeductionsSubtotal(exam domain.ExamInputs) decimal.Decimal {
	return money.NonPositive(exam.ContactLensAllowance).Add(money.NonPositive(exam.AdditionalSavings))
}

// FinalOOP is exam + contact lenses + deductions
func FinalOOP(exam, contactLens, deductions decimal.Decimal) decimal.Decimal {
	return exam.Add(contactLens).Add(deductions)
}

// FinalCostPerBox spreads the net contact-lens cost over the total boxes.
// Zero boxes yields zero, and a net credit is reported as zero.
func FinalCostPerBox(contactLens, deductions, rebate, totalBoxes decimal.Decimal) decimal.Decimal {
	if !totalBoxes.IsPositive() {
		return decimal.Zero
	}
	perBox := contactLens.Add(deductions).Sub(rebate).Div(totalBoxes)
	if perBox.IsNegative() {
		return decimal.Zero
	}
	return perBox
}

package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// EyeSelection is a manufacturer/brand pair chosen for one eye
type EyeSelection struct {
	Manufacturer string `yaml:"manufacturer" json:"manufacturer"`
	Brand        string `yaml:"brand" json:"brand"`
}

// Complete reports whether both manufacturer and brand are chosen
func (e *EyeSelection) Complete() bool {
	return e != nil && strings.TrimSpace(e.Manufacturer) != "" && strings.TrimSpace(e.Brand) != ""
}

// ManualInputs holds the values typed next to the fitting-fee method buttons.
// Values of inactive methods are kept but unused.
type ManualInputs struct {
	CopayAmount     decimal.Decimal `json:"copayAmount"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
}

// ExamInputs holds the exam-detail and deduction amounts.
// ContactLensAllowance and AdditionalSavings are stored as non-positive values.
type ExamInputs struct {
	ExamCopay            decimal.Decimal `json:"examCopay"`
	RetinalImageFee      decimal.Decimal `json:"retinalImageFee"`
	IRTrainingFee        decimal.Decimal `json:"irTrainingFee"`
	AdditionalFees       decimal.Decimal `json:"additionalFees"`
	ContactLensAllowance decimal.Decimal `json:"contactLensAllowance"`
	AdditionalSavings    decimal.Decimal `json:"additionalSavings"`
}

// SelectionState is everything the operator has chosen or typed in a session.
// Nil pointers mean "not selected yet".
type SelectionState struct {
	PatientStatus *PatientStatus `json:"patientStatus,omitempty"`
	SelfPay       *bool          `json:"selfPay,omitempty"`
	FittingType   *FittingType   `json:"fittingType,omitempty"`
	NewToBrand    *bool          `json:"newToBrand,omitempty"`
	Supply        SupplyMode     `json:"supply"`
	FeeMethod     *FeeMethod     `json:"feeMethod,omitempty"`
	Manual        ManualInputs   `json:"manual"`
	Right         *EyeSelection  `json:"right,omitempty"`
	Left          *EyeSelection  `json:"left,omitempty"`
	Exam          ExamInputs     `json:"exam"`
}

// NewSelectionState returns the all-unset state with the Year supply default
func NewSelectionState() SelectionState {
	return SelectionState{Supply: SupplyYear}
}

// Clone returns a deep copy
func (s SelectionState) Clone() SelectionState {
	c := s
	if s.PatientStatus != nil {
		v := *s.PatientStatus
		c.PatientStatus = &v
	}
	if s.SelfPay != nil {
		v := *s.SelfPay
		c.SelfPay = &v
	}
	if s.FittingType != nil {
		v := *s.FittingType
		c.FittingType = &v
	}
	if s.NewToBrand != nil {
		v := *s.NewToBrand
		c.NewToBrand = &v
	}
	if s.FeeMethod != nil {
		v := *s.FeeMethod
		c.FeeMethod = &v
	}
	if s.Right != nil {
		v := *s.Right
		c.Right = &v
	}
	if s.Left != nil {
		v := *s.Left
		c.Left = &v
	}
	return c
}

// EyeSelection returns the selection for an eye, nil when unset
func (s *SelectionState) EyeSelection(eye Eye) *EyeSelection {
	if eye == EyeLeft {
		return s.Left
	}
	return s.Right
}

// SupplyModeOrDefault returns the supply mode, treating the zero value as Year
func (s SelectionState) SupplyModeOrDefault() SupplyMode {
	if s.Supply == "" {
		return SupplyYear
	}
	return s.Supply
}

// Field names a discrete selection that can be unset
type Field string

const (
	FieldPatientStatus Field = "patient"
	FieldSelfPay       Field = "self_pay"
	FieldFittingType   Field = "fitting_type"
	FieldNewToBrand    Field = "new_to_brand"
	FieldSupply        Field = "supply"
	FieldFeeMethod     Field = "fee_method"
	FieldRightEye      Field = "right_eye"
	FieldLeftEye       Field = "left_eye"
)

// ParseField parses a discrete field name
func ParseField(s string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FieldPatientStatus, FieldSelfPay, FieldFittingType, FieldNewToBrand,
		FieldSupply, FieldFeeMethod, FieldRightEye, FieldLeftEye:
		return f, nil
	}
	return "", &ValidationError{Field: "field", Message: fmt.Sprintf("unknown field %q", s)}
}

// NumericField names a free-form numeric input
type NumericField string

const (
	InputCopayAmount          NumericField = "copay_amount"
	InputDiscountPercent      NumericField = "discount_percent"
	InputDiscountAmount       NumericField = "discount_amount"
	InputExamCopay            NumericField = "exam_copay"
	InputRetinalImage         NumericField = "retinal_image"
	InputIRTraining           NumericField = "ir_training"
	InputAdditionalFees       NumericField = "additional_fees"
	InputContactLensAllowance NumericField = "contact_lens_allowance"
	InputAdditionalSavings    NumericField = "additional_savings"
)

// NumericFields lists the numeric inputs in form order
var NumericFields = []NumericField{
	InputExamCopay, InputRetinalImage, InputIRTraining, InputAdditionalFees,
	InputCopayAmount, InputDiscountPercent, InputDiscountAmount,
	InputContactLensAllowance, InputAdditionalSavings,
}

// ParseNumericField parses a numeric input name
func ParseNumericField(s string) (NumericField, error) {
	f := NumericField(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range NumericFields {
		if f == known {
			return f, nil
		}
	}
	return "", &ValidationError{Field: "input", Message: fmt.Sprintf("unknown numeric input %q", s)}
}

// Deduction reports whether the input is stored as a non-positive magnitude
func (f NumericField) Deduction() bool {
	return f == InputContactLensAllowance || f == InputAdditionalSavings
}

// Manual reports whether the input belongs to the fitting-fee method group
func (f NumericField) Manual() bool {
	return f == InputCopayAmount || f == InputDiscountPercent || f == InputDiscountAmount
}

// NumericValue returns the stored value of a numeric input
func (s *SelectionState) NumericValue(f NumericField) decimal.Decimal {
	switch f {
	case InputCopayAmount:
		return s.Manual.CopayAmount
	case InputDiscountPercent:
		return s.Manual.DiscountPercent
	case InputDiscountAmount:
		return s.Manual.DiscountAmount
	case InputExamCopay:
		return s.Exam.ExamCopay
	case InputRetinalImage:
		return s.Exam.RetinalImageFee
	case InputIRTraining:
		return s.Exam.IRTrainingFee
	case InputAdditionalFees:
		return s.Exam.AdditionalFees
	case InputContactLensAllowance:
		return s.Exam.ContactLensAllowance
	case InputAdditionalSavings:
		return s.Exam.AdditionalSavings
	}
	return decimal.Zero
}

// SetNumericValue stores a numeric input as given; callers coerce first
func (s *SelectionState) SetNumericValue(f NumericField, v decimal.Decimal) {
	switch f {
	case InputCopayAmount:
		s.Manual.CopayAmount = v
	case InputDiscountPercent:
		s.Manual.DiscountPercent = v
	case InputDiscountAmount:
		s.Manual.DiscountAmount = v
	case InputExamCopay:
		s.Exam.ExamCopay = v
	case InputRetinalImage:
		s.Exam.RetinalImageFee = v
	case InputIRTraining:
		s.Exam.IRTrainingFee = v
	case InputAdditionalFees:
		s.Exam.AdditionalFees = v
	case InputContactLensAllowance:
		s.Exam.ContactLensAllowance = v
	case InputAdditionalSavings:
		s.Exam.AdditionalSavings = v
	}
}

package session

import (
	"fmt"

	"github.com/rgehrsitz/lensquote/internal/domain"
	"github.com/rgehrsitz/lensquote/internal/money"
)

// Command is one discrete mutation of the selection state. Each command declares the
// earliest pipeline stage it can affect; the session re-derives from that stage on.
type Command interface {
	// Name returns the registry identifier (e.g. "set_supply")
	Name() string

	// Invalidates returns the first stage whose output may change
	Invalidates() domain.Stage

	// Apply mutates the selection in place
	Apply(sel *domain.SelectionState) error
}

// CommandError wraps a failure to apply a command
type CommandError struct {
	Command string
	Reason  string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("command %s: %s: %v", e.Command, e.Reason, e.Err)
	}
	return fmt.Sprintf("command %s: %s", e.Command, e.Reason)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// SetEye selects a manufacturer and brand for one eye
type SetEye struct {
	Eye          domain.Eye
	Manufacturer string
	Brand        string
}

func (c SetEye) Name() string              { return "set_eye" }
func (c SetEye) Invalidates() domain.Stage { return domain.StageBoxes }
func (c SetEye) Apply(sel *domain.SelectionState) error {
	e := &domain.EyeSelection{Manufacturer: c.Manufacturer, Brand: c.Brand}
	if c.Eye == domain.EyeLeft {
		sel.Left = e
	} else {
		sel.Right = e
	}
	return nil
}

// ClearEye unsets one eye
type ClearEye struct {
	Eye domain.Eye
}

func (c ClearEye) Name() string              { return "clear_eye" }
func (c ClearEye) Invalidates() domain.Stage { return domain.StageBoxes }
func (c ClearEye) Apply(sel *domain.SelectionState) error {
	if c.Eye == domain.EyeLeft {
		sel.Left = nil
	} else {
		sel.Right = nil
	}
	return nil
}

// CopyRightToLeft copies the right-eye selection onto the left eye
type CopyRightToLeft struct{}

func (CopyRightToLeft) Name() string              { return "copy_right_to_left" }
func (CopyRightToLeft) Invalidates() domain.Stage { return domain.StageBoxes }
func (CopyRightToLeft) Apply(sel *domain.SelectionState) error {
	if !sel.Right.Complete() {
		return &domain.ValidationError{Field: "right_eye", Message: "select a manufacturer and brand for the right eye first"}
	}
	left := *sel.Right
	sel.Left = &left
	return nil
}

// SetSupplyMode picks the supply duration
type SetSupplyMode struct {
	Mode domain.SupplyMode
}

func (c SetSupplyMode) Name() string              { return "set_supply" }
func (c SetSupplyMode) Invalidates() domain.Stage { return domain.StageBoxes }
func (c SetSupplyMode) Apply(sel *domain.SelectionState) error {
	sel.Supply = c.Mode
	return nil
}

// ClearSupply unsets both eyes and returns the supply mode to a year
type ClearSupply struct{}

func (ClearSupply) Name() string              { return "clear_supply" }
func (ClearSupply) Invalidates() domain.Stage { return domain.StageBoxes }
func (ClearSupply) Apply(sel *domain.SelectionState) error {
	sel.Right, sel.Left = nil, nil
	sel.Supply = domain.SupplyYear
	return nil
}

// SetFittingType picks the fitting-fee row
type SetFittingType struct {
	Type domain.FittingType
}

func (c SetFittingType) Name() string              { return "set_fitting_type" }
func (c SetFittingType) Invalidates() domain.Stage { return domain.StageFittingFee }
func (c SetFittingType) Apply(sel *domain.SelectionState) error {
	ft := c.Type
	sel.FittingType = &ft
	return nil
}

// SetSelfPay sets the self-pay toggle
type SetSelfPay struct {
	SelfPay bool
}

func (c SetSelfPay) Name() string              { return "set_self_pay" }
func (c SetSelfPay) Invalidates() domain.Stage { return domain.StageFittingFee }
func (c SetSelfPay) Apply(sel *domain.SelectionState) error {
	v := c.SelfPay
	sel.SelfPay = &v
	return nil
}

// SetPatientStatus sets new vs established
type SetPatientStatus struct {
	Status domain.PatientStatus
}

func (c SetPatientStatus) Name() string              { return "set_patient" }
func (c SetPatientStatus) Invalidates() domain.Stage { return domain.StageFittingFee }
func (c SetPatientStatus) Apply(sel *domain.SelectionState) error {
	v := c.Status
	sel.PatientStatus = &v
	return nil
}

// SetNewToBrand sets the rebate tier toggle
type SetNewToBrand struct {
	NewToBrand bool
}

func (c SetNewToBrand) Name() string              { return "set_new_to_brand" }
func (c SetNewToBrand) Invalidates() domain.Stage { return domain.StageRebate }
func (c SetNewToBrand) Apply(sel *domain.SelectionState) error {
	v := c.NewToBrand
	sel.NewToBrand = &v
	return nil
}

// SetFeeMethod selects the fitting-fee method. Only one method is active at a
// time; inputs of the other methods are kept but unused.
type SetFeeMethod struct {
	Method domain.FeeMethod
}

func (c SetFeeMethod) Name() string              { return "set_fee_method" }
func (c SetFeeMethod) Invalidates() domain.Stage { return domain.StageFittingFee }
func (c SetFeeMethod) Apply(sel *domain.SelectionState) error {
	m := c.Method
	sel.FeeMethod = &m
	return nil
}

// SetManualInput stores a fitting-fee method amount from raw operator text
type SetManualInput struct {
	Field domain.NumericField
	Raw   string
}

func (c SetManualInput) Name() string              { return "set_manual_input" }
func (c SetManualInput) Invalidates() domain.Stage { return domain.StageFittingFee }
func (c SetManualInput) Apply(sel *domain.SelectionState) error {
	if !c.Field.Manual() {
		return &CommandError{Command: c.Name(), Reason: fmt.Sprintf("%s is not a fitting fee input", c.Field)}
	}
	sel.SetNumericValue(c.Field, money.Parse(c.Raw))
	return nil
}

// SetExamInput stores an exam or deduction amount from raw operator text.
// Deductions are coerced to non-positive at entry.
type SetExamInput struct {
	Field domain.NumericField
	Raw   string
}

func (c SetExamInput) Name() string { return "set_exam_input" }

func (c SetExamInput) Invalidates() domain.Stage {
	if c.Field.Deduction() {
		return domain.StageDeductionsSubtotal
	}
	return domain.StageExamSubtotal
}

func (c SetExamInput) Apply(sel *domain.SelectionState) error {
	if c.Field.Manual() {
		return &CommandError{Command: c.Name(), Reason: fmt.Sprintf("%s is a fitting fee input", c.Field)}
	}
	v := money.Parse(c.Raw)
	if c.Field.Deduction() {
		v = money.NonPositive(v)
	}
	sel.SetNumericValue(c.Field, v)
	return nil
}

// Unset returns one discrete field to its not-selected state
type Unset struct {
	Field domain.Field
}

func (c Unset) Name() string { return "unset" }

func (c Unset) Invalidates() domain.Stage {
	switch c.Field {
	case domain.FieldNewToBrand:
		return domain.StageRebate
	case domain.FieldPatientStatus, domain.FieldSelfPay, domain.FieldFittingType, domain.FieldFeeMethod:
		return domain.StageFittingFee
	default:
		return domain.StageBoxes
	}
}

func (c Unset) Apply(sel *domain.SelectionState) error {
	switch c.Field {
	case domain.FieldPatientStatus:
		sel.PatientStatus = nil
	case domain.FieldSelfPay:
		sel.SelfPay = nil
	case domain.FieldFittingType:
		sel.FittingType = nil
	case domain.FieldNewToBrand:
		sel.NewToBrand = nil
	case domain.FieldSupply:
		sel.Supply = domain.SupplyYear
	case domain.FieldFeeMethod:
		sel.FeeMethod = nil
	case domain.FieldRightEye:
		sel.Right = nil
	case domain.FieldLeftEye:
		sel.Left = nil
	default:
		return &CommandError{Command: c.Name(), Reason: fmt.Sprintf("unknown field %q", c.Field)}
	}
	return nil
}

// ClearAll resets every selection and input
type ClearAll struct{}

func (ClearAll) Name() string              { return "clear_all" }
func (ClearAll) Invalidates() domain.Stage { return domain.StageBoxes }
func (ClearAll) Apply(sel *domain.SelectionState) error {
	*sel = domain.NewSelectionState()
	return nil
}

package domain

import (
	"fmt"
	"strings"
)

// FittingType identifies a row of the fitting-fee table
type FittingType string

const (
	FittingSphere     FittingType = "Sphere"
	FittingToric      FittingType = "Toric"
	FittingMultifocal FittingType = "MF/Mono" // multifocal or monovision
)

// FittingTypes lists every fitting type in display order
var FittingTypes = []FittingType{FittingSphere, FittingToric, FittingMultifocal}

// ParseFittingType accepts the sheet spelling plus a few operator-friendly aliases
func ParseFittingType(s string) (FittingType, error) {
	switch normalizeOption(s) {
	case "sphere", "spherical":
		return FittingSphere, nil
	case "toric":
		return FittingToric, nil
	case "mf/mono", "mfmono", "multifocal", "monovision", "multifocalormonovision":
		return FittingMultifocal, nil
	}
	return "", &ValidationError{Field: "fitting_type", Message: fmt.Sprintf("unknown fitting type %q", s)}
}

// SupplyMode is the duration basis that governs how many boxes are billed
type SupplyMode string

const (
	SupplyYear     SupplyMode = "year"
	SupplySixMonth SupplyMode = "six"
	SupplyOneBox   SupplyMode = "one"
)

// SupplyModes lists the supply modes in display order
var SupplyModes = []SupplyMode{SupplyYear, SupplySixMonth, SupplyOneBox}

// ParseSupplyMode parses a supply mode; the empty string maps to the Year default
func ParseSupplyMode(s string) (SupplyMode, error) {
	switch normalizeOption(s) {
	case "", "year", "yearsupply", "12", "12month":
		return SupplyYear, nil
	case "six", "6", "6month", "sixmonth", "halfyear":
		return SupplySixMonth, nil
	case "one", "1", "onebox", "1box", "box":
		return SupplyOneBox, nil
	}
	return "", &ValidationError{Field: "supply", Message: fmt.Sprintf("unknown supply mode %q", s)}
}

// Label returns the supply description used in the rebate line
func (m SupplyMode) Label() string {
	switch m {
	case SupplySixMonth:
		return "6 month supply"
	case SupplyOneBox:
		return "1 box of"
	default:
		return "Year supply"
	}
}

// FeeMethod selects how the base fitting fee is adjusted
type FeeMethod string

const (
	FeeMethodNone    FeeMethod = "none"
	FeeMethodCopay   FeeMethod = "copay"
	FeeMethodPercent FeeMethod = "percent"
	FeeMethodDollar  FeeMethod = "dollar"
)

// FeeMethods lists the selectable fitting-fee methods
var FeeMethods = []FeeMethod{FeeMethodCopay, FeeMethodPercent, FeeMethodDollar, FeeMethodNone}

// ParseFeeMethod parses a fitting-fee method name
func ParseFeeMethod(s string) (FeeMethod, error) {
	switch normalizeOption(s) {
	case "none", "":
		return FeeMethodNone, nil
	case "copay":
		return FeeMethodCopay, nil
	case "percent", "percentdiscount", "%":
		return FeeMethodPercent, nil
	case "dollar", "dollardiscount", "$", "amount":
		return FeeMethodDollar, nil
	}
	return "", &ValidationError{Field: "fee_method", Message: fmt.Sprintf("unknown fitting fee method %q", s)}
}

// PatientStatus distinguishes new from established patients for insurance fees
type PatientStatus string

const (
	PatientNew         PatientStatus = "new"
	PatientEstablished PatientStatus = "established"
)

// ParsePatientStatus parses "new" / "est" / "established"
func ParsePatientStatus(s string) (PatientStatus, error) {
	switch normalizeOption(s) {
	case "new":
		return PatientNew, nil
	case "est", "established":
		return PatientEstablished, nil
	}
	return "", &ValidationError{Field: "patient", Message: fmt.Sprintf("unknown patient status %q", s)}
}

// Eye identifies the right (OD) or left (OS) eye
type Eye string

const (
	EyeRight Eye = "right"
	EyeLeft  Eye = "left"
)

// ParseEye parses an eye name
func ParseEye(s string) (Eye, error) {
	switch normalizeOption(s) {
	case "right", "od", "r":
		return EyeRight, nil
	case "left", "os", "l":
		return EyeLeft, nil
	}
	return "", &ValidationError{Field: "eye", Message: fmt.Sprintf("unknown eye %q", s)}
}

// ParseYesNo parses the toggle values used by the front desk ("Yes"/"No")
func ParseYesNo(field, s string) (bool, error) {
	switch normalizeOption(s) {
	case "yes", "y", "true", "1":
		return true, nil
	case "no", "n", "false", "0":
		return false, nil
	}
	return false, &ValidationError{Field: field, Message: fmt.Sprintf("expected yes or no, got %q", s)}
}

func normalizeOption(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "_", "")
	return strings.ReplaceAll(s, "-", "")
}

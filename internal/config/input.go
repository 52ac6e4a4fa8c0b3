package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/rgehrsitz/lensquote/internal/domain"
	"github.com/rgehrsitz/lensquote/internal/session"
	"gopkg.in/yaml.v3"
)

// EyeInput is a manufacturer/brand pair in a quote file
type EyeInput struct {
	Manufacturer string `yaml:"manufacturer"`
	Brand        string `yaml:"brand"`
}

// SelectionInput holds the discrete choices of a quote file, as text
type SelectionInput struct {
	PatientStatus   string    `yaml:"patient_status"`
	SelfPay         string    `yaml:"self_pay"`
	FittingType     string    `yaml:"fitting_type"`
	NewToBrand      string    `yaml:"new_to_brand"`
	Supply          string    `yaml:"supply"`
	FeeMethod       string    `yaml:"fee_method"`
	RightEye        *EyeInput `yaml:"right_eye"`
	LeftEye         *EyeInput `yaml:"left_eye"`
	CopyRightToLeft bool      `yaml:"copy_right_to_left"`
}

// TablesInput carries inline tables for offline quoting
type TablesInput struct {
	Prices      []domain.PriceRow `yaml:"prices"`
	FittingFees []domain.FeeRow   `yaml:"fitting_fees"`
}

// QuoteFile is a quote described in YAML
type QuoteFile struct {
	Patient   string            `yaml:"patient"`
	Selection SelectionInput    `yaml:"selection"`
	Inputs    map[string]string `yaml:"inputs"` // numeric input name -> raw text
	Tables    *TablesInput      `yaml:"tables"`
}

// InputParser handles parsing of quote files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a quote file from YAML
func (ip *InputParser) LoadFromFile(filename string) (*QuoteFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes and validates quote file contents
func (ip *InputParser) Parse(data []byte) (*QuoteFile, error) {
	var q QuoteFile
	if err := yaml.Unmarshal(data, &q); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateQuote(&q); err != nil {
		return nil, fmt.Errorf("quote validation failed: %w", err)
	}
	return &q, nil
}

// ValidateQuote validates every section of a quote file
func (ip *InputParser) ValidateQuote(q *QuoteFile) error {
	if _, err := q.Commands(); err != nil {
		return fmt.Errorf("selection validation failed: %w", err)
	}
	if q.Tables != nil {
		if err := ip.validateTables(q.Tables); err != nil {
			return fmt.Errorf("tables validation failed: %w", err)
		}
	}
	return nil
}

func (ip *InputParser) validateTables(t *TablesInput) error {
	for i, row := range t.Prices {
		if strings.TrimSpace(row.Manufacturer) == "" || strings.TrimSpace(row.Brand) == "" {
			return fmt.Errorf("price row %d: manufacturer and brand are required", i)
		}
		if row.PricePerBox.IsNegative() || row.RebateForNewWearer.IsNegative() || row.RebateForCurrentWearer.IsNegative() {
			return fmt.Errorf("price row %d (%s): amounts cannot be negative", i, row.Brand)
		}
		if row.BoxesPerYearSupply < 0 {
			return fmt.Errorf("price row %d (%s): boxes per year supply cannot be negative", i, row.Brand)
		}
	}
	for i, row := range t.FittingFees {
		if _, err := domain.ParseFittingType(string(row.FittingType)); err != nil {
			return fmt.Errorf("fitting fee row %d: %w", i, err)
		}
		if row.SelfPayFee.IsNegative() || row.InsuranceNewFee.IsNegative() || row.InsuranceEstablishedFee.IsNegative() {
			return fmt.Errorf("fitting fee row %d (%s): fees cannot be negative", i, row.FittingType)
		}
	}
	if _, err := t.Build(); err != nil {
		return err
	}
	return nil
}

// Build converts the inline tables into domain tables. Fitting type aliases are
// accepted.
func (t *TablesInput) Build() (*domain.Tables, error) {
	fees := make([]domain.FeeRow, len(t.FittingFees))
	for i, row := range t.FittingFees {
		ft, err := domain.ParseFittingType(string(row.FittingType))
		if err != nil {
			return nil, err
		}
		row.FittingType = ft
		fees[i] = row
	}
	feeTable, err := domain.NewFeeTable(fees)
	if err != nil {
		return nil, err
	}
	return &domain.Tables{Prices: domain.NewPriceTable(t.Prices), Fees: feeTable}, nil
}

// Commands translates the quote into session commands, in form order
func (q *QuoteFile) Commands() ([]session.Command, error) {
	var cmds []session.Command
	s := q.Selection

	if s.RightEye != nil {
		cmds = append(cmds, session.SetEye{Eye: domain.EyeRight, Manufacturer: s.RightEye.Manufacturer, Brand: s.RightEye.Brand})
	}
	if s.CopyRightToLeft {
		if s.LeftEye != nil {
			return nil, &domain.ValidationError{Field: "left_eye", Message: "cannot be combined with copy_right_to_left"}
		}
		cmds = append(cmds, session.CopyRightToLeft{})
	} else if s.LeftEye != nil {
		cmds = append(cmds, session.SetEye{Eye: domain.EyeLeft, Manufacturer: s.LeftEye.Manufacturer, Brand: s.LeftEye.Brand})
	}

	if s.Supply != "" {
		mode, err := domain.ParseSupplyMode(s.Supply)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, session.SetSupplyMode{Mode: mode})
	}
	if s.PatientStatus != "" {
		status, err := domain.ParsePatientStatus(s.PatientStatus)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, session.SetPatientStatus{Status: status})
	}
	if s.SelfPay != "" {
		v, err := domain.ParseYesNo("self_pay", s.SelfPay)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, session.SetSelfPay{SelfPay: v})
	}
	if s.FittingType != "" {
		ft, err := domain.ParseFittingType(s.FittingType)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, session.SetFittingType{Type: ft})
	}
	if s.NewToBrand != "" {
		v, err := domain.ParseYesNo("new_to_brand", s.NewToBrand)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, session.SetNewToBrand{NewToBrand: v})
	}
	if s.FeeMethod != "" {
		m, err := domain.ParseFeeMethod(s.FeeMethod)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, session.SetFeeMethod{Method: m})
	}

	for _, field := range domain.NumericFields {
		raw, ok := q.Inputs[string(field)]
		if !ok {
			continue
		}
		if field.Manual() {
			cmds = append(cmds, session.SetManualInput{Field: field, Raw: raw})
		} else {
			cmds = append(cmds, session.SetExamInput{Field: field, Raw: raw})
		}
	}
	for name := range q.Inputs {
		if _, err := domain.ParseNumericField(name); err != nil {
			return nil, err
		}
	}

	return cmds, nil
}

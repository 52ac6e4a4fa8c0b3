package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/lensquote/internal/domain"
	"github.com/rgehrsitz/lensquote/internal/money"
	"github.com/rgehrsitz/lensquote/internal/session"
	"github.com/rgehrsitz/lensquote/internal/tui/components"
	"github.com/rgehrsitz/lensquote/internal/tui/tuimsg"
	"github.com/rgehrsitz/lensquote/internal/tui/tuistyles"
)

// formRow identifies one row of the quote form. Amount rows follow the option
// rows, one per domain.NumericFields entry.
type formRow int

const (
	rowPatient formRow = iota
	rowSelfPay
	rowFittingType
	rowNewToBrand
	rowSupply
	rowFeeMethod
	rowRightManufacturer
	rowRightBrand
	rowLeftManufacturer
	rowLeftBrand
	rowFirstAmount
)

var rowLabels = map[formRow]string{
	rowPatient:           "Patient",
	rowSelfPay:           "Self pay",
	rowFittingType:       "Fitting type",
	rowNewToBrand:        "New to brand",
	rowSupply:            "Supply",
	rowFeeMethod:         "Fitting fee method",
	rowRightManufacturer: "Right eye manufacturer",
	rowRightBrand:        "Right eye brand",
	rowLeftManufacturer:  "Left eye manufacturer",
	rowLeftBrand:         "Left eye brand",
}

var amountLabels = map[domain.NumericField]string{
	domain.InputExamCopay:            "Exam copay",
	domain.InputRetinalImage:         "Retinal image fee",
	domain.InputIRTraining:           "IR training fee",
	domain.InputAdditionalFees:       "Additional fees",
	domain.InputCopayAmount:          "Fitting copay",
	domain.InputDiscountPercent:      "Fitting discount %",
	domain.InputDiscountAmount:       "Fitting discount $",
	domain.InputContactLensAllowance: "Contact lens allowance",
	domain.InputAdditionalSavings:    "Additional savings",
}

// manualMethod maps each fitting-fee input to the method that uses it
var manualMethod = map[domain.NumericField]domain.FeeMethod{
	domain.InputCopayAmount:     domain.FeeMethodCopay,
	domain.InputDiscountPercent: domain.FeeMethodPercent,
	domain.InputDiscountAmount:  domain.FeeMethodDollar,
}

const formLabelWidth = 24

// QuoteFormModel is the data-entry scene: every selection and input of a quote
type QuoteFormModel struct {
	tables *domain.Tables
	quote  domain.Quote
	cursor formRow

	editing bool
	input   textinput.Model

	width  int
	height int
}

// NewQuoteFormModel creates an empty form
func NewQuoteFormModel() *QuoteFormModel {
	ti := textinput.New()
	ti.Placeholder = "e.g., 25.00"
	ti.CharLimit = 12
	ti.Width = 14
	ti.Cursor.SetMode(cursor.CursorStatic)

	return &QuoteFormModel{
		quote: domain.Quote{Selection: domain.NewSelectionState()},
		input: ti,
	}
}

// SetTables updates the catalog the option rows are drawn from
func (m *QuoteFormModel) SetTables(tables *domain.Tables) {
	m.tables = tables
}

// SetQuote shows the latest selection and result
func (m *QuoteFormModel) SetQuote(q domain.Quote) {
	m.quote = q
}

// SetSize updates the scene dimensions
func (m *QuoteFormModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Editing reports whether an amount is being typed; global shortcuts are off
func (m *QuoteFormModel) Editing() bool {
	return m.editing
}

func (m *QuoteFormModel) rowCount() int {
	return int(rowFirstAmount) + len(domain.NumericFields)
}

func (m *QuoteFormModel) amountField(row formRow) (domain.NumericField, bool) {
	i := int(row - rowFirstAmount)
	if i < 0 || i >= len(domain.NumericFields) {
		return "", false
	}
	return domain.NumericFields[i], true
}

// Update handles messages for the form
func (m *QuoteFormModel) Update(msg tea.Msg) (*QuoteFormModel, tea.Cmd) {
	if m.editing {
		return m.updateEditing(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("up", "k"))):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("down", "j", "tab"))):
		if int(m.cursor) < m.rowCount()-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("left", "h"))):
		return m, m.stepOption(-1)

	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("right", "l", " "))):
		return m, m.stepOption(1)

	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("enter"))):
		if field, ok := m.amountField(m.cursor); ok {
			m.editing = true
			m.input.SetValue(m.amountText(field, false))
			m.input.CursorEnd()
			return m, m.input.Focus()
		}
		return m, m.stepOption(1)

	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("backspace", "delete", "x"))):
		return m, m.clearRow()

	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("c"))):
		return m, sendCommand(session.CopyRightToLeft{})

	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("X"))):
		return m, sendCommand(session.ClearAll{})
	}
	return m, nil
}

// updateEditing handles amount entry
func (m *QuoteFormModel) updateEditing(msg tea.Msg) (*QuoteFormModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEnter:
			m.editing = false
			m.input.Blur()
			field, _ := m.amountField(m.cursor)
			raw := m.input.Value()
			if field.Manual() {
				return m, sendCommand(session.SetManualInput{Field: field, Raw: raw})
			}
			return m, sendCommand(session.SetExamInput{Field: field, Raw: raw})

		case tea.KeyEsc:
			m.editing = false
			m.input.Blur()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func sendCommand(c session.Command) tea.Cmd {
	return func() tea.Msg {
		return tuimsg.CommandMsg{Command: c}
	}
}

// stepOption moves the focused option row to its next or previous choice
func (m *QuoteFormModel) stepOption(delta int) tea.Cmd {
	if _, ok := m.amountField(m.cursor); ok {
		return nil
	}
	row := m.optionRow(m.cursor)
	next, ok := row.Step(delta)
	if !ok {
		return nil
	}
	c, err := m.commandFor(m.cursor, next.Value)
	if err != nil {
		return func() tea.Msg { return tuimsg.ErrorMsg{Err: err} }
	}
	return sendCommand(c)
}

// clearRow returns the focused row to its unset state
func (m *QuoteFormModel) clearRow() tea.Cmd {
	if field, ok := m.amountField(m.cursor); ok {
		if field.Manual() {
			return sendCommand(session.SetManualInput{Field: field, Raw: ""})
		}
		return sendCommand(session.SetExamInput{Field: field, Raw: ""})
	}

	sel := m.quote.Selection
	switch m.cursor {
	case rowPatient:
		return sendCommand(session.Unset{Field: domain.FieldPatientStatus})
	case rowSelfPay:
		return sendCommand(session.Unset{Field: domain.FieldSelfPay})
	case rowFittingType:
		return sendCommand(session.Unset{Field: domain.FieldFittingType})
	case rowNewToBrand:
		return sendCommand(session.Unset{Field: domain.FieldNewToBrand})
	case rowSupply:
		return sendCommand(session.Unset{Field: domain.FieldSupply})
	case rowFeeMethod:
		return sendCommand(session.Unset{Field: domain.FieldFeeMethod})
	case rowRightManufacturer:
		return sendCommand(session.ClearEye{Eye: domain.EyeRight})
	case rowLeftManufacturer:
		return sendCommand(session.ClearEye{Eye: domain.EyeLeft})
	case rowRightBrand, rowLeftBrand:
		eye := eyeOf(m.cursor)
		if e := sel.EyeSelection(eye); e != nil {
			return sendCommand(session.SetEye{Eye: eye, Manufacturer: e.Manufacturer})
		}
	}
	return nil
}

func eyeOf(row formRow) domain.Eye {
	if row == rowLeftManufacturer || row == rowLeftBrand {
		return domain.EyeLeft
	}
	return domain.EyeRight
}

// commandFor builds the command that sets row to value
func (m *QuoteFormModel) commandFor(row formRow, value string) (session.Command, error) {
	switch row {
	case rowPatient:
		status, err := domain.ParsePatientStatus(value)
		return session.SetPatientStatus{Status: status}, err
	case rowSelfPay:
		v, err := domain.ParseYesNo("self_pay", value)
		return session.SetSelfPay{SelfPay: v}, err
	case rowFittingType:
		ft, err := domain.ParseFittingType(value)
		return session.SetFittingType{Type: ft}, err
	case rowNewToBrand:
		v, err := domain.ParseYesNo("new_to_brand", value)
		return session.SetNewToBrand{NewToBrand: v}, err
	case rowSupply:
		mode, err := domain.ParseSupplyMode(value)
		return session.SetSupplyMode{Mode: mode}, err
	case rowFeeMethod:
		method, err := domain.ParseFeeMethod(value)
		return session.SetFeeMethod{Method: method}, err
	case rowRightManufacturer, rowLeftManufacturer:
		return session.SetEye{Eye: eyeOf(row), Manufacturer: value}, nil
	case rowRightBrand, rowLeftBrand:
		eye := eyeOf(row)
		e := m.quote.Selection.EyeSelection(eye)
		if e == nil || e.Manufacturer == "" {
			return nil, &domain.ValidationError{Field: string(eye) + "_eye", Message: "select a manufacturer first"}
		}
		return session.SetEye{Eye: eye, Manufacturer: e.Manufacturer, Brand: value}, nil
	}
	return nil, fmt.Errorf("row %d has no options", row)
}

func yesNoOptions() []components.Option {
	return []components.Option{{Value: "yes", Label: "Yes"}, {Value: "no", Label: "No"}}
}

func yesNoValue(b *bool) string {
	if b == nil {
		return ""
	}
	if *b {
		return "yes"
	}
	return "no"
}

func namesToOptions(names []string) []components.Option {
	out := make([]components.Option, len(names))
	for i, n := range names {
		out[i] = components.Option{Value: n, Label: n}
	}
	return out
}

// optionRow describes an option row from the current selection and tables
func (m *QuoteFormModel) optionRow(row formRow) components.OptionRow {
	sel := m.quote.Selection
	r := components.OptionRow{
		Label:      rowLabels[row],
		Focused:    row == m.cursor,
		LabelWidth: formLabelWidth,
	}

	switch row {
	case rowPatient:
		r.Options = []components.Option{
			{Value: string(domain.PatientNew), Label: "New"},
			{Value: string(domain.PatientEstablished), Label: "Established"},
		}
		if sel.PatientStatus != nil {
			r.Chosen = string(*sel.PatientStatus)
		}
	case rowSelfPay:
		r.Options = yesNoOptions()
		r.Chosen = yesNoValue(sel.SelfPay)
	case rowFittingType:
		for _, ft := range domain.FittingTypes {
			r.Options = append(r.Options, components.Option{Value: string(ft), Label: string(ft)})
		}
		if sel.FittingType != nil {
			r.Chosen = string(*sel.FittingType)
		}
	case rowNewToBrand:
		r.Options = yesNoOptions()
		r.Chosen = yesNoValue(sel.NewToBrand)
	case rowSupply:
		for _, mode := range domain.SupplyModes {
			r.Options = append(r.Options, components.Option{Value: string(mode), Label: supplyLabel(mode)})
		}
		r.Chosen = string(sel.SupplyModeOrDefault())
	case rowFeeMethod:
		r.Options = []components.Option{
			{Value: string(domain.FeeMethodCopay), Label: "Copay"},
			{Value: string(domain.FeeMethodPercent), Label: "% off"},
			{Value: string(domain.FeeMethodDollar), Label: "$ off"},
			{Value: string(domain.FeeMethodNone), Label: "None"},
		}
		if sel.FeeMethod != nil {
			r.Chosen = string(*sel.FeeMethod)
		}
	case rowRightManufacturer, rowLeftManufacturer:
		if m.tables.Loaded() {
			r.Options = namesToOptions(m.tables.Prices.Manufacturers())
		}
		if e := sel.EyeSelection(eyeOf(row)); e != nil {
			r.Chosen = e.Manufacturer
		}
	case rowRightBrand, rowLeftBrand:
		e := sel.EyeSelection(eyeOf(row))
		if e != nil && m.tables.Loaded() {
			r.Options = namesToOptions(m.tables.Prices.Brands(e.Manufacturer))
		}
		if e != nil {
			r.Chosen = e.Brand
		}
	}
	return r
}

func supplyLabel(mode domain.SupplyMode) string {
	switch mode {
	case domain.SupplySixMonth:
		return "6 months"
	case domain.SupplyOneBox:
		return "1 box"
	}
	return "Year"
}

// amountText renders a stored amount; plain is the editable form
func (m *QuoteFormModel) amountText(field domain.NumericField, pretty bool) string {
	v := m.quote.Selection.NumericValue(field)
	if !pretty {
		if v.IsZero() {
			return ""
		}
		return v.String()
	}
	switch {
	case field == domain.InputDiscountPercent:
		return money.FormatPercent(v)
	case field.Deduction():
		return money.FormatDeduction(v)
	}
	return money.Format(v)
}

func (m *QuoteFormModel) renderAmountRow(row formRow) string {
	field, _ := m.amountField(row)
	cursor := "  "
	labelStyle := tuistyles.UnselectedItemStyle
	if row == m.cursor {
		cursor = "▸ "
		labelStyle = tuistyles.SelectedItemStyle
	}
	label := labelStyle.Render(fmt.Sprintf("%-*s", formLabelWidth, amountLabels[field]))

	var value string
	if m.editing && row == m.cursor {
		value = m.input.View()
	} else {
		value = tuistyles.MetricValueStyle.Render(m.amountText(field, true))
	}

	line := cursor + label + value
	if method, ok := manualMethod[field]; ok {
		sel := m.quote.Selection
		if sel.FeeMethod == nil || *sel.FeeMethod != method {
			line += tuistyles.OptionStyle.Render("  (inactive)")
		}
	}
	return line
}

// View renders the form
func (m *QuoteFormModel) View() string {
	var content strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary)
	content.WriteString(titleStyle.Render("Contact Lens Quote"))
	content.WriteString("\n")

	subtleStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
	if !m.tables.Loaded() {
		content.WriteString(tuistyles.WarningStyle.Render("Price tables are not loaded; totals stay at zero."))
	} else {
		content.WriteString(subtleStyle.Render("↑/↓ move • ←/→ choose • Enter edit amount • x clear • c copy right to left • X clear all"))
	}
	content.WriteString("\n")

	sections := []struct {
		title string
		from  formRow
		to    formRow
	}{
		{"Patient", rowPatient, rowFeeMethod},
		{"Lenses", rowRightManufacturer, rowLeftBrand},
	}
	for _, s := range sections {
		content.WriteString(tuistyles.SectionStyle.Render(s.title))
		content.WriteString("\n")
		for row := s.from; row <= s.to; row++ {
			content.WriteString(m.optionRow(row).Render())
			content.WriteString("\n")
		}
	}

	content.WriteString(tuistyles.SectionStyle.Render("Amounts"))
	content.WriteString("\n")
	for row := rowFirstAmount; int(row) < m.rowCount(); row++ {
		content.WriteString(m.renderAmountRow(row))
		content.WriteString("\n")
	}

	r := m.quote.Result
	summary := components.MetricGrid([]*components.MetricCard{
		components.NewMetricCard("Out of pocket", r.FinalOOP).WithHighlight(),
		components.NewMetricCard("Cost per box after rebate", r.FinalCostPerBox),
		components.NewMetricCard("Boxes", r.TotalBoxes()).WithValue(money.FormatBoxes(r.TotalBoxes())),
	}, 3)

	return lipgloss.JoinVertical(lipgloss.Left, content.String(), summary)
}

package scenes

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/lensquote/internal/compare"
	"github.com/rgehrsitz/lensquote/internal/domain"
	"github.com/rgehrsitz/lensquote/internal/tui/tuistyles"
)

// CompareModel shows the current selection under every supply mode
type CompareModel struct {
	engine  *compare.CompareEngine
	tables  *domain.Tables
	sel     domain.SelectionState
	patient string

	result *compare.ComparisonSet
	err    error
	width  int
	height int
}

// NewCompareModel creates a new compare scene model
func NewCompareModel(engine *compare.CompareEngine) *CompareModel {
	if engine == nil {
		engine = compare.NewCompareEngine(nil)
	}
	return &CompareModel{engine: engine}
}

// SetTables updates the tables the comparison derives against
func (m *CompareModel) SetTables(tables *domain.Tables) {
	m.tables = tables
	m.refresh()
}

// SetQuote re-runs the comparison for a new selection
func (m *CompareModel) SetQuote(q domain.Quote) {
	m.sel = q.Selection
	m.patient = q.Patient
	m.refresh()
}

func (m *CompareModel) refresh() {
	m.result, m.err = m.engine.Compare(m.tables, m.sel, compare.CompareOptions{Patient: m.patient})
}

// Result returns the latest comparison, nil when it could not be derived
func (m *CompareModel) Result() *compare.ComparisonSet {
	return m.result
}

// SetSize updates the model dimensions
func (m *CompareModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the compare scene
func (m *CompareModel) Update(msg tea.Msg) (*CompareModel, tea.Cmd) {
	return m, nil
}

// View renders the comparison table with the best supply highlighted
func (m *CompareModel) View() string {
	var content strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary)
	content.WriteString(titleStyle.Render("Supply Comparison"))
	content.WriteString("\n\n")

	if m.err != nil || m.result == nil {
		msg := "Nothing to compare yet."
		if m.err != nil {
			msg = m.err.Error()
		}
		content.WriteString(tuistyles.WarningStyle.Render(msg))
		return tuistyles.BorderStyle.Render(content.String())
	}

	header := fmt.Sprintf("%-22s %8s %13s %13s %13s", "Supply", "Boxes", "Lenses", "Out of Pocket", "Per Box")
	content.WriteString(tuistyles.TableHeaderStyle.Render(header))
	content.WriteString("\n")

	best := cheapestPerBox(m.result)
	for _, r := range m.result.All() {
		name := r.Description
		if r.Mode == m.result.BaseMode {
			name += " (current)"
		}
		line := fmt.Sprintf("%-22s %8s %13s %13s %13s",
			name,
			r.TotalBoxes.String(),
			tuistyles.FormatCurrency(r.ContactLensSubtotal),
			tuistyles.FormatCurrency(r.FinalOOP),
			tuistyles.FormatCurrency(r.FinalCostPerBox))
		if r.Mode == best {
			content.WriteString(tuistyles.TableHighlightStyle.Render(line + "  ★"))
		} else {
			content.WriteString(tuistyles.TableCellStyle.Render(line))
		}
		content.WriteString("\n")
	}

	if len(m.result.Recommendations) > 0 {
		content.WriteString("\n")
		for _, rec := range m.result.Recommendations {
			content.WriteString(tuistyles.InfoStyle.Render("• " + rec))
			content.WriteString("\n")
		}
	}
	return content.String()
}

func cheapestPerBox(cs *compare.ComparisonSet) domain.SupplyMode {
	var best *compare.ComparisonResult
	all := cs.All()
	for i := range all {
		r := &all[i]
		if !r.TotalBoxes.IsPositive() {
			continue
		}
		if best == nil || r.FinalCostPerBox.LessThan(best.FinalCostPerBox) {
			best = r
		}
	}
	if best == nil {
		return ""
	}
	return best.Mode
}

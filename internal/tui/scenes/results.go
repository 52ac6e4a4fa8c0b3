package scenes

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/lensquote/internal/domain"
	"github.com/rgehrsitz/lensquote/internal/output"
	"github.com/rgehrsitz/lensquote/internal/tui/tuistyles"
)

// ResultsModel shows the itemized quote
type ResultsModel struct {
	quote  *domain.Quote
	width  int
	height int
}

// NewResultsModel creates a new results scene model
func NewResultsModel() *ResultsModel {
	return &ResultsModel{}
}

// SetQuote updates the quote to display
func (m *ResultsModel) SetQuote(q domain.Quote) {
	m.quote = &q
}

// SetSize updates the scene dimensions
func (m *ResultsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the results scene
func (m *ResultsModel) Update(msg tea.Msg) (*ResultsModel, tea.Cmd) {
	// Results scene is read-only
	return m, nil
}

// View renders the itemized quote grouped by section
func (m *ResultsModel) View() string {
	if m.quote == nil {
		return renderNoResultsState()
	}

	var content strings.Builder
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary)
	content.WriteString(titleStyle.Render("Quote Breakdown"))
	content.WriteString("\n")

	section := ""
	for _, li := range output.LineItems(m.quote) {
		if li.Section != section {
			section = li.Section
			content.WriteString(tuistyles.SectionStyle.Render(strings.ToUpper(section)))
			content.WriteString("\n")
		}
		content.WriteString(renderLineItem(li))
		content.WriteString("\n")
	}

	if notes := output.Notes(m.quote); len(notes) > 0 {
		content.WriteString("\n")
		for _, n := range notes {
			content.WriteString(tuistyles.WarningStyle.Render("! " + n))
			content.WriteString("\n")
		}
	}

	content.WriteString("\n")
	content.WriteString(renderResultsHelp())
	return content.String()
}

func renderLineItem(li output.LineItem) string {
	label := fmt.Sprintf("  %-44s", li.Label)
	value := fmt.Sprintf("%12s", li.Display)
	if li.Subtotal {
		return tuistyles.MetricValueStyle.Render(label) + tuistyles.TableHighlightStyle.Render(value)
	}
	return tuistyles.TableCellStyle.Render(label) + tuistyles.AmountStyle(li.Amount).Render(value)
}

// renderNoResultsState renders empty state
func renderNoResultsState() string {
	return `No quote to display.

Load the price tables and fill in the form first.

Press 1 to go to the form.`
}

func renderResultsHelp() string {
	return tuistyles.HelpKeyStyle.Render("e") + tuistyles.HelpDescStyle.Render(" export HTML  ") +
		tuistyles.HelpKeyStyle.Render("1") + tuistyles.HelpDescStyle.Render(" back to form")
}

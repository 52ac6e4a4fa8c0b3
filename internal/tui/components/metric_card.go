package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/lensquote/internal/tui/tuistyles"
)

// MetricCard displays one quote total with its label and an optional note
type MetricCard struct {
	Label     string
	Amount    decimal.Decimal
	Value     string // overrides the formatted amount when set
	Note      string
	Highlight bool
	Width     int
}

// NewMetricCard creates a card for an amount
func NewMetricCard(label string, amount decimal.Decimal) *MetricCard {
	return &MetricCard{
		Label:  label,
		Amount: amount,
		Width:  26,
	}
}

// WithValue shows text instead of the amount, e.g. a box count
func (m *MetricCard) WithValue(value string) *MetricCard {
	m.Value = value
	return m
}

// WithNote adds a muted line under the value
func (m *MetricCard) WithNote(note string) *MetricCard {
	m.Note = note
	return m
}

// WithHighlight draws the card with the active border
func (m *MetricCard) WithHighlight() *MetricCard {
	m.Highlight = true
	return m
}

// WithWidth sets the card width
func (m *MetricCard) WithWidth(width int) *MetricCard {
	m.Width = width
	return m
}

func (m *MetricCard) valueText() string {
	if m.Value != "" {
		return tuistyles.MetricValueStyle.Render(m.Value)
	}
	return tuistyles.AmountStyle(m.Amount).Render(tuistyles.FormatCurrency(m.Amount))
}

// Render returns the styled metric card
func (m *MetricCard) Render() string {
	content := tuistyles.MetricLabelStyle.Render(m.Label) + "\n" + m.valueText()
	if m.Note != "" {
		content += "\n" + tuistyles.MetricLabelStyle.Italic(true).Render(m.Note)
	}

	border := tuistyles.ColorBorder
	if m.Highlight {
		border = tuistyles.ColorPrimary
	}
	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(m.Width)

	return cardStyle.Render(content)
}

// RenderCompact returns a single "Label: value" line without border
func (m *MetricCard) RenderCompact() string {
	return tuistyles.MetricLabelStyle.Render(m.Label+":") + " " + m.valueText()
}

// MetricGrid renders cards in rows of the given width
func MetricGrid(cards []*MetricCard, columns int) string {
	if len(cards) == 0 {
		return ""
	}
	if columns < 1 {
		columns = 1
	}

	rows := []string{}
	currentRow := []string{}
	for i, card := range cards {
		currentRow = append(currentRow, card.Render())
		if (i+1)%columns == 0 || i == len(cards)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, currentRow...))
			currentRow = []string{}
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

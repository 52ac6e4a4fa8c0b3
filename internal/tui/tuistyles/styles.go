// Package tuistyles holds the shared lipgloss palette and styles for the TUI.
// It lives apart from package tui so scenes and components can import it
// without a cycle.
package tuistyles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/lensquote/internal/money"
)

// Colors
var (
	ColorPrimary   = lipgloss.Color("#2E86AB")
	ColorSecondary = lipgloss.Color("#A23B72")
	ColorAccent    = lipgloss.Color("#F18F01")
	ColorSuccess   = lipgloss.Color("#3BB273")
	ColorDanger    = lipgloss.Color("#E84855")
	ColorInfo      = lipgloss.Color("#7DCFB6")

	ColorForeground = lipgloss.Color("#ECEFF4")
	ColorMuted      = lipgloss.Color("#6C7A89")
	ColorBorder     = lipgloss.Color("#4C566A")
)

// Base styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true).
			Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorForeground).
			Background(lipgloss.Color("#2E3440")).
			Padding(0, 1)

	StatusKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)

	ActiveBorderStyle = BorderStyle.
				BorderForeground(ColorPrimary)

	SelectedItemStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPrimary)

	UnselectedItemStyle = lipgloss.NewStyle().
				Foreground(ColorForeground)

	OptionChosenStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorAccent)

	OptionStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	MetricLabelStyle = lipgloss.NewStyle().
				Foreground(ColorMuted)

	MetricValueStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorForeground)

	MetricPositiveStyle = lipgloss.NewStyle().
				Foreground(ColorSuccess)

	MetricNegativeStyle = lipgloss.NewStyle().
				Foreground(ColorDanger)

	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary).
			MarginTop(1)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorDanger).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPrimary).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(ColorBorder)

	TableCellStyle = lipgloss.NewStyle().
			Foreground(ColorForeground)

	TableHighlightStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorSuccess)
)

// AmountStyle colors credits green and charges in the default foreground
func AmountStyle(d decimal.Decimal) lipgloss.Style {
	if d.IsNegative() {
		return MetricPositiveStyle
	}
	return MetricValueStyle
}

// DeltaStyle colors a difference; savings are good
func DeltaStyle(d decimal.Decimal) lipgloss.Style {
	switch {
	case d.IsNegative():
		return MetricPositiveStyle
	case d.IsPositive():
		return MetricNegativeStyle
	}
	return MetricLabelStyle
}

// FormatCurrency formats an amount the way the printed quote does
func FormatCurrency(d decimal.Decimal) string {
	return money.Format(d)
}

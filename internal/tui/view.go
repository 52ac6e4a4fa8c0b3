package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the current state of the application
func (m Model) View() string {
	if m.loading {
		return m.renderLoading()
	}

	if m.err != nil {
		return m.renderError()
	}

	var content string
	switch m.currentScene {
	case SceneForm:
		content = m.formModel.View()
	case SceneResults:
		content = m.resultsModel.View()
	case SceneCompare:
		content = m.compareModel.View()
	case SceneHelp:
		content = m.renderHelp()
	default:
		content = "Unknown scene"
	}

	return m.renderApp(content)
}

// renderApp wraps content with title bar and status bar
func (m Model) renderApp(content string) string {
	contentContainer := lipgloss.NewStyle().
		Height(max(0, m.height-5)).
		Render(content)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		contentContainer,
		m.renderStatusLine(),
		m.renderStatusBar(),
	)
}

// renderTitleBar renders the application title and breadcrumb
func (m Model) renderTitleBar() string {
	title := TitleStyle.Render("Lens Quote")

	crumb := m.currentScene.String()
	if m.patient != "" {
		crumb = fmt.Sprintf("%s / %s", crumb, m.patient)
	}
	if id := m.session.Identity(); id != "" {
		crumb += " · " + id
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, SubtitleStyle.Render(crumb))
}

func (m Model) renderStatusLine() string {
	if m.status == "" {
		return ""
	}
	return InfoStyle.Render(m.status)
}

// renderStatusBar renders the bottom status bar with keyboard shortcuts
func (m Model) renderStatusBar() string {
	shortcuts := []string{
		formatShortcut("1", "quote"),
		formatShortcut("2", "breakdown"),
		formatShortcut("3", "compare"),
		formatShortcut("e", "export"),
		formatShortcut("L", "reload"),
		formatShortcut("?", "help"),
		formatShortcut("q", "quit"),
	}
	statusText := strings.Join(shortcuts, " • ")

	if q := m.session.Quote(); q.Stale {
		statusText += "  " + WarningStyle.Render("cached prices")
	}
	return StatusBarStyle.Width(m.width).Render(statusText)
}

// formatShortcut formats a keyboard shortcut with key and description
func formatShortcut(key, desc string) string {
	return StatusKeyStyle.Render(key) + " " + desc
}

// renderLoading renders a loading message
func (m Model) renderLoading() string {
	message := m.loadingMessage
	if message == "" {
		message = "Loading..."
	}
	return m.renderApp(BorderStyle.Render("⠋ " + message))
}

// renderError renders an error message
func (m Model) renderError() string {
	content := ErrorStyle.Render(
		fmt.Sprintf("Error: %s\n\nPress any key to continue...", m.err.Error()),
	)
	return m.renderApp(content)
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	helpText := `
LENS QUOTE - Contact Lens Pricing

KEYBOARD SHORTCUTS:
  1        Quote form
  2        Itemized breakdown
  3        Compare supply options
  e        Export the quote as HTML
  L        Reload price tables
  ?        Show this help
  ESC      Go back
  q/Ctrl+C Quit

QUOTE FORM:
  ↑/↓      Move between rows
  ←/→      Choose an option
  Enter    Edit an amount (Enter saves, ESC cancels)
  x        Clear the row
  c        Copy the right eye to the left eye
  X        Clear the whole quote
`
	return BorderStyle.Render(helpText)
}

package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/lensquote/internal/tui/tuimsg"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.formModel.SetSize(msg.Width, msg.Height)
		m.resultsModel.SetSize(msg.Width, msg.Height)
		m.compareModel.SetSize(msg.Width, msg.Height)
		return m, nil

	case NavigateMsg:
		m.previousScene = m.currentScene
		m.currentScene = msg.Scene
		return m, nil

	case tuimsg.ErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil

	case tuimsg.TablesLoadedMsg:
		m.loading = false
		m.formModel.SetTables(msg.Tables)
		m.compareModel.SetTables(msg.Tables)
		m.refreshQuote()
		m.status = fmt.Sprintf("Loaded %d products", msg.Tables.Prices.Len())
		if msg.Tables.Stale {
			m.status += " from the cached copy"
		}
		return m, nil

	case tuimsg.ReloadTablesMsg:
		m.loading = true
		m.loadingMessage = "Fetching price tables..."
		return m, loadTablesCmd(m.session, m.loader)

	case tuimsg.CommandMsg:
		if _, err := m.session.Execute(msg.Command); err != nil {
			m.status = err.Error()
		} else {
			m.status = ""
		}
		m.refreshQuote()
		return m, nil

	case tuimsg.ExportMsg:
		return m, exportCmd(m.quote(), msg.Format)

	case tuimsg.ExportCompleteMsg:
		if msg.Err != nil {
			m.status = "Export failed: " + msg.Err.Error()
		} else {
			m.status = "Saved " + msg.Path
		}
		return m, nil
	}

	// Delegate to scene-specific update handlers
	return m.updateCurrentScene(msg)
}

func navigate(s Scene) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Scene: s}
	}
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.err != nil {
		// Any key dismisses the error
		m.err = nil
		return m, nil
	}

	// Typing an amount: only ctrl+c escapes the form
	if m.currentScene == SceneForm && m.formModel.Editing() {
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m.updateCurrentScene(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "?":
		return m, navigate(SceneHelp)

	case "esc":
		if m.currentScene != SceneForm {
			if m.previousScene != m.currentScene {
				return m, navigate(m.previousScene)
			}
			return m, navigate(SceneForm)
		}

	case "1":
		return m, navigate(SceneForm)

	case "2":
		return m, navigate(SceneResults)

	case "3":
		return m, navigate(SceneCompare)

	case "e":
		return m, func() tea.Msg { return tuimsg.ExportMsg{Format: "html"} }

	case "L":
		return m, func() tea.Msg { return tuimsg.ReloadTablesMsg{} }
	}

	return m.updateCurrentScene(msg)
}

// updateCurrentScene delegates updates to the current scene's model
func (m Model) updateCurrentScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentScene {
	case SceneForm:
		m.formModel, cmd = m.formModel.Update(msg)
	case SceneResults:
		m.resultsModel, cmd = m.resultsModel.Update(msg)
	case SceneCompare:
		m.compareModel, cmd = m.compareModel.Update(msg)
	}
	return m, cmd
}

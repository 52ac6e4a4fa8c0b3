// Package tui is the interactive front-desk quote screen, built on Bubble Tea.
// The root model owns the session; scenes only send commands.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/lensquote/internal/domain"
	"github.com/rgehrsitz/lensquote/internal/output"
	"github.com/rgehrsitz/lensquote/internal/session"
	"github.com/rgehrsitz/lensquote/internal/tui/scenes"
	"github.com/rgehrsitz/lensquote/internal/tui/tuimsg"
)

// loadTimeout bounds one table fetch
const loadTimeout = 30 * time.Second

// Model represents the entire application state
type Model struct {
	// Navigation
	currentScene  Scene
	previousScene Scene

	// Terminal dimensions
	width  int
	height int

	session *session.Session
	loader  session.TableLoader
	patient string

	formModel    *scenes.QuoteFormModel
	resultsModel *scenes.ResultsModel
	compareModel *scenes.CompareModel

	// status is the last non-fatal message, e.g. a rejected command
	status string

	// Error state
	err error

	// Loading state
	loading        bool
	loadingMessage string
}

// NewModel creates the application model for a signed-in session
func NewModel(sess *session.Session, loader session.TableLoader, patient string) Model {
	m := Model{
		currentScene: SceneForm,
		session:      sess,
		loader:       loader,
		patient:      patient,
		formModel:    scenes.NewQuoteFormModel(),
		resultsModel: scenes.NewResultsModel(),
		compareModel: scenes.NewCompareModel(nil),
		width:        100,
		height:       40,
	}
	m.refreshQuote()
	return m
}

// Init starts the first table load
func (m Model) Init() tea.Cmd {
	return loadTablesCmd(m.session, m.loader)
}

// loadTablesCmd returns a command that fetches the tables into the session
func loadTablesCmd(sess *session.Session, loader session.TableLoader) tea.Cmd {
	return func() tea.Msg {
		if loader == nil {
			return tuimsg.ErrorMsg{Err: domain.ErrTablesNotLoaded}
		}
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		if err := sess.LoadFrom(ctx, loader); err != nil {
			return tuimsg.ErrorMsg{Err: err}
		}
		return tuimsg.TablesLoadedMsg{Tables: sess.Tables()}
	}
}

// exportCmd writes the quote with the named formatter into the working directory
func exportCmd(q domain.Quote, format string) tea.Cmd {
	return func() tea.Msg {
		f := output.GetFormatterByName(format)
		if f == nil {
			return tuimsg.ExportCompleteMsg{Err: &domain.ValidationError{Field: "format", Message: "unknown format " + format}}
		}
		path, err := output.WriteFormatted(f, &q, output.Extension(format))
		return tuimsg.ExportCompleteMsg{Path: path, Err: err}
	}
}

// quote returns the session quote with the patient name attached
func (m Model) quote() domain.Quote {
	q := m.session.Quote()
	q.Patient = m.patient
	return q
}

// refreshQuote pushes the current quote to every scene
func (m *Model) refreshQuote() {
	q := m.quote()
	m.formModel.SetQuote(q)
	m.resultsModel.SetQuote(q)
	m.compareModel.SetQuote(q)
}

// Package tuimsg holds the messages scenes send to the root model
package tuimsg

import (
	"github.com/rgehrsitz/lensquote/internal/domain"
	"github.com/rgehrsitz/lensquote/internal/session"
)

// TablesLoadedMsg signals the price and fee tables are installed in the session
type TablesLoadedMsg struct {
	Tables *domain.Tables
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// CommandMsg asks the root model to execute a session command
type CommandMsg struct {
	Command session.Command
}

// QuoteUpdatedMsg carries the quote after a command or a table load
type QuoteUpdatedMsg struct {
	Quote domain.Quote
}

// ReloadTablesMsg asks for a fresh fetch of the tables
type ReloadTablesMsg struct{}

// ExportMsg asks for the quote to be written with the named formatter
type ExportMsg struct {
	Format string
}

// ExportCompleteMsg signals an export has finished
type ExportCompleteMsg struct {
	Path string
	Err  error
}

package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrTablesNotLoaded reports that the price and fee tables have not been fetched yet
	ErrTablesNotLoaded = errors.New("pricing tables not loaded")

	// ErrUnauthorized reports a command issued outside an authorized session
	ErrUnauthorized = errors.New("session is not authorized")
)

// LookupError reports a missing price or fitting-fee row
type LookupError struct {
	Table string // "prices" or "fitting fees"
	Key   string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("no %s row for %s", e.Table, e.Key)
}

// ValidationError reports an invalid selection, command parameter or config value
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

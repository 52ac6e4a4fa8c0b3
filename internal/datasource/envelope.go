// Package datasource fetches the Prices and Fitting Fees sheets and turns them into
// domain tables. Sources share one envelope shape: rows keyed by normalized
// (lowercase, whitespace-free) column labels.
package datasource

import (
	"context"
	"strings"
	"unicode"
)

// Sheet names in the pricing spreadsheet
const (
	SheetPrices      = "Prices"
	SheetFittingFees = "Fitting Fees"
)

// Row is one sheet row keyed by normalized column name. Values are strings,
// json.Number, float64 or bool; empty cells are "".
type Row map[string]any

// Envelope is the result of fetching one sheet
type Envelope struct {
	Success   bool     `json:"success"`
	Data      []Row    `json:"data"`
	Columns   []string `json:"columns"`
	SheetName string   `json:"sheetName,omitempty"`
	Stale     bool     `json:"stale,omitempty"`
	Error     string   `json:"error,omitempty"`
	Details   string   `json:"details,omitempty"`
}

// HasColumn reports whether the envelope carries a column
func (e *Envelope) HasColumn(name string) bool {
	for _, c := range e.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Source fetches one sheet by name
type Source interface {
	Fetch(ctx context.Context, sheetName string) (*Envelope, error)
}

// NormalizeColumn lowercases a column label and strips all whitespace
func NormalizeColumn(label string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, label)
}

// newEnvelope builds an envelope from labels and positional cells. Columns with an
// empty label are dropped; missing or nil cells become "".
func newEnvelope(sheetName string, labels []string, rows [][]any) *Envelope {
	type col struct {
		name  string
		index int
	}
	var cols []col
	env := &Envelope{Success: true, SheetName: sheetName, Columns: []string{}, Data: []Row{}}
	for i, label := range labels {
		name := NormalizeColumn(label)
		if name == "" {
			continue
		}
		cols = append(cols, col{name, i})
		env.Columns = append(env.Columns, name)
	}

	for _, cells := range rows {
		row := make(Row, len(cols))
		for _, c := range cols {
			var v any = ""
			if c.index < len(cells) && cells[c.index] != nil {
				v = cells[c.index]
			}
			row[c.name] = v
		}
		env.Data = append(env.Data, row)
	}
	return env
}

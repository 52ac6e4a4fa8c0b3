package output

import (
	"encoding/json"

	"github.com/rgehrsitz/lensquote/internal/domain"
)

// JSONFormatter emits the quote, its line items and notes
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(q *domain.Quote) ([]byte, error) {
	doc := struct {
		*domain.Quote
		LineItems []LineItem `json:"lineItems"`
		Notes     []string   `json:"notes,omitempty"`
	}{q, LineItems(q), Notes(q)}
	return json.MarshalIndent(doc, "", "  ")
}

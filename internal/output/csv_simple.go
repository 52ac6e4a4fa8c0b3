package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rgehrsitz/lensquote/internal/domain"
)

// CSVFormatter writes one row per quote line
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(q *domain.Quote) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"Section", "Item", "Amount", "Display"}); err != nil {
		return nil, err
	}
	for _, li := range LineItems(q) {
		amount := li.Amount.StringFixed(2)
		if li.Unit == UnitBoxes {
			amount = li.Amount.String()
		}
		if err := w.Write([]string{li.Section, li.Label, amount, li.Display}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

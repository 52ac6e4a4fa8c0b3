package datasource

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/lensquote/internal/logging"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsAPISource reads sheets through the Sheets API v4 values endpoint. The first
// row of the range holds the column labels.
type SheetsAPISource struct {
	service *sheets.Service
	sheetID string
	Logger  logging.Logger
}

// ClientOptions picks API-key or service-account authentication
func ClientOptions(apiKey, credentialsFile string) []option.ClientOption {
	switch {
	case credentialsFile != "":
		return []option.ClientOption{option.WithCredentialsFile(credentialsFile)}
	case apiKey != "":
		return []option.ClientOption{option.WithAPIKey(apiKey)}
	}
	return nil
}

// NewSheetsAPISource creates a Sheets API client for one spreadsheet
func NewSheetsAPISource(ctx context.Context, sheetID string, opts ...option.ClientOption) (*SheetsAPISource, error) {
	if sheetID == "" {
		return nil, fmt.Errorf("sheets api: sheet ID not configured")
	}
	if len(opts) == 0 {
		return nil, fmt.Errorf("sheets api: no API key or credentials configured")
	}
	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets api: failed to create service: %w", err)
	}
	return &SheetsAPISource{service: srv, sheetID: sheetID, Logger: logging.NopLogger{}}, nil
}

// Fetch reads every value of the named sheet, unformatted
func (s *SheetsAPISource) Fetch(ctx context.Context, sheetName string) (*Envelope, error) {
	resp, err := s.service.Spreadsheets.Values.Get(s.sheetID, sheetName).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("sheets api: failed to read %s: %w", sheetName, err)
	}

	if len(resp.Values) == 0 {
		return newEnvelope(sheetName, nil, nil), nil
	}

	labels := make([]string, len(resp.Values[0]))
	for i, v := range resp.Values[0] {
		if v != nil {
			labels[i] = fmt.Sprint(v)
		}
	}
	env := newEnvelope(sheetName, labels, resp.Values[1:])
	logging.OrNop(s.Logger).Debugf("sheets api: %s returned %d rows", sheetName, len(env.Data))
	return env, nil
}

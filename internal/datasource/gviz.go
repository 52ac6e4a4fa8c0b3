package datasource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rgehrsitz/lensquote/internal/logging"
)

// DefaultGvizBaseURL is the public spreadsheet export endpoint
const DefaultGvizBaseURL = "https://docs.google.com/spreadsheets/d"

// GvizClient reads a sheet through the visualization export endpoint
type GvizClient struct {
	BaseURL    string
	SheetID    string
	APIKey     string // optional
	HTTPClient *http.Client
	Logger     logging.Logger
}

// NewGvizClient creates a client for a spreadsheet ID
func NewGvizClient(sheetID, apiKey string) *GvizClient {
	return &GvizClient{
		BaseURL:    DefaultGvizBaseURL,
		SheetID:    sheetID,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Logger:     logging.NopLogger{},
	}
}

// URL returns the export URL for a sheet
func (c *GvizClient) URL(sheetName string) string {
	q := url.Values{}
	q.Set("sheet", sheetName)
	q.Set("tq", "")
	if c.APIKey != "" {
		q.Set("key", c.APIKey)
	}
	return fmt.Sprintf("%s/%s/gviz/tq?%s", c.BaseURL, url.PathEscape(c.SheetID), q.Encode())
}

// Fetch downloads and parses one sheet
func (c *GvizClient) Fetch(ctx context.Context, sheetName string) (*Envelope, error) {
	if c.SheetID == "" {
		return nil, fmt.Errorf("gviz: sheet ID not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(sheetName), nil)
	if err != nil {
		return nil, fmt.Errorf("gviz: failed to build request: %w", err)
	}
	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gviz: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gviz: Google Sheets API error: %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gviz: failed to read body: %w", err)
	}

	env, err := ParseGviz(sheetName, body)
	if err != nil {
		return nil, err
	}
	logging.OrNop(c.Logger).Debugf("gviz: %s returned %d rows", sheetName, len(env.Data))
	return env, nil
}

type gvizResponse struct {
	Status string `json:"status"`
	Errors []struct {
		Reason          string `json:"reason"`
		DetailedMessage string `json:"detailed_message"`
	} `json:"errors"`
	Table struct {
		Cols []struct {
			Label string `json:"label"`
		} `json:"cols"`
		Rows []struct {
			C []*struct {
				V any `json:"v"`
			} `json:"c"`
		} `json:"rows"`
	} `json:"table"`
}

// ParseGviz extracts the JSON payload from the export's callback wrapper
// ("/*O_o*/\ngoogle.visualization.Query.setResponse({...});") and builds an envelope.
func ParseGviz(sheetName string, body []byte) (*Envelope, error) {
	start := bytes.IndexByte(body, '(')
	end := bytes.LastIndexByte(body, ')')
	if start < 0 || end <= start {
		return nil, fmt.Errorf("gviz: unexpected response format")
	}

	dec := json.NewDecoder(bytes.NewReader(body[start+1 : end]))
	dec.UseNumber()
	var parsed gvizResponse
	if err := dec.Decode(&parsed); err != nil {
		return nil, fmt.Errorf("gviz: failed to parse payload: %w", err)
	}
	if parsed.Status == "error" {
		reason := "unknown error"
		if len(parsed.Errors) > 0 {
			reason = parsed.Errors[0].Reason
			if parsed.Errors[0].DetailedMessage != "" {
				reason += ": " + parsed.Errors[0].DetailedMessage
			}
		}
		return nil, fmt.Errorf("gviz: query failed: %s", reason)
	}

	labels := make([]string, len(parsed.Table.Cols))
	for i, col := range parsed.Table.Cols {
		labels[i] = col.Label
	}
	rows := make([][]any, len(parsed.Table.Rows))
	for i, r := range parsed.Table.Rows {
		cells := make([]any, len(r.C))
		for j, cell := range r.C {
			if cell != nil {
				cells[j] = cell.V
			}
		}
		rows[i] = cells
	}
	return newEnvelope(sheetName, labels, rows), nil
}

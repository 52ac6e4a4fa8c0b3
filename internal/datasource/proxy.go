package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ProxyClient reads sheets through a lensquote server's /api/sheets endpoint, which
// keeps the sheet ID and API key off the client.
type ProxyClient struct {
	URL        string // e.g. http://localhost:8080/api/sheets
	HTTPClient *http.Client
}

// NewProxyClient creates a client for a proxy endpoint
func NewProxyClient(endpoint string) *ProxyClient {
	return &ProxyClient{URL: endpoint, HTTPClient: &http.Client{Timeout: 30 * time.Second}}
}

// Fetch requests one sheet from the proxy. A non-200 status or an envelope without
// success is an error.
func (p *ProxyClient) Fetch(ctx context.Context, sheetName string) (*Envelope, error) {
	u, err := url.Parse(p.URL)
	if err != nil {
		return nil, fmt.Errorf("proxy: invalid URL %q: %w", p.URL, err)
	}
	q := u.Query()
	q.Set("sheetName", sheetName)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("proxy: failed to build request: %w", err)
	}
	client := p.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("proxy: request failed: %w", err)
	}
	defer resp.Body.Close()

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var env Envelope
	decodeErr := dec.Decode(&env)

	if resp.StatusCode != http.StatusOK {
		if decodeErr == nil && env.Error != "" {
			return nil, fmt.Errorf("proxy: status %d: %s", resp.StatusCode, env.Error)
		}
		return nil, fmt.Errorf("proxy: status %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("proxy: failed to decode envelope: %w", decodeErr)
	}
	if !env.Success {
		return nil, fmt.Errorf("proxy: unsuccessful response for %s", sheetName)
	}
	return &env, nil
}

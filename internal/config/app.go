// Package config loads the application settings and quote input files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Data source modes
const (
	SourceAuto      = "auto"       // proxy when configured, then gviz, then Sheets API
	SourceProxy     = "proxy"
	SourceGviz      = "gviz"
	SourceSheetsAPI = "sheets-api"
)

// AppConfig holds the settings shared by the CLI, the TUI and the server
type AppConfig struct {
	SheetID         string   `yaml:"sheet_id"`
	APIKey          string   `yaml:"api_key"`
	CredentialsFile string   `yaml:"credentials_file"`
	Source          string   `yaml:"source"`
	ProxyURL        string   `yaml:"proxy_url"`
	CacheDSN        string   `yaml:"cache_dsn"`
	AllowedEmails   []string `yaml:"allowed_emails"`
	TokenSecret     string   `yaml:"token_secret"`
	Port            int      `yaml:"port"`
	Debug           bool     `yaml:"debug"`
}

// DefaultAppConfig returns the built-in defaults
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Source: SourceAuto,
		Port:   8080,
	}
}

// LoadAppConfig reads an optional YAML file, then loads .env (if present) and
// overlays the environment. Environment values win over the file.
func LoadAppConfig(path string) (*AppConfig, error) {
	cfg := DefaultAppConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// ApplyEnv overlays environment variables through lookup
func (c *AppConfig) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("SHEET_ID", &c.SheetID)
	str("GOOGLE_API_KEY", &c.APIKey)
	str("GOOGLE_APPLICATION_CREDENTIALS", &c.CredentialsFile)
	str("LENSQUOTE_SOURCE", &c.Source)
	str("LENSQUOTE_PROXY_URL", &c.ProxyURL)
	str("LENSQUOTE_CACHE_DSN", &c.CacheDSN)
	str("LENSQUOTE_TOKEN_SECRET", &c.TokenSecret)

	if v, ok := lookup("LENSQUOTE_ALLOWED_EMAILS"); ok && v != "" {
		c.AllowedEmails = nil
		for _, e := range strings.Split(v, ",") {
			if e = strings.TrimSpace(e); e != "" {
				c.AllowedEmails = append(c.AllowedEmails, e)
			}
		}
	}
	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Port = port
	}
	if v, ok := lookup("LENSQUOTE_DEBUG"); ok && v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid LENSQUOTE_DEBUG %q: %w", v, err)
		}
		c.Debug = debug
	}
	return nil
}

// Validate checks the settings that are wrong regardless of which command runs
func (c *AppConfig) Validate() error {
	switch c.Source {
	case "", SourceAuto, SourceProxy, SourceGviz, SourceSheetsAPI:
	default:
		return fmt.Errorf("unknown source %q (want auto, proxy, gviz or sheets-api)", c.Source)
	}
	if c.Source == SourceProxy && c.ProxyURL == "" {
		return fmt.Errorf("source proxy requires proxy_url")
	}
	if c.Source == SourceSheetsAPI && c.APIKey == "" && c.CredentialsFile == "" {
		return fmt.Errorf("source sheets-api requires api_key or credentials_file")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	return nil
}

// ValidateServer checks the settings the HTTP server needs
func (c *AppConfig) ValidateServer() error {
	if c.TokenSecret == "" {
		return fmt.Errorf("token_secret (LENSQUOTE_TOKEN_SECRET) is required to serve")
	}
	if len(c.AllowedEmails) == 0 {
		return fmt.Errorf("allowed_emails (LENSQUOTE_ALLOWED_EMAILS) is required to serve")
	}
	return nil
}

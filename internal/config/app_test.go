package config

import (
	"context"
	"testing"

	"github.com/rgehrsitz/lensquote/internal/datasource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.SheetID = "from-file"

	err := cfg.ApplyEnv(envMap(map[string]string{
		"SHEET_ID":                 "from-env",
		"GOOGLE_API_KEY":           "key",
		"LENSQUOTE_ALLOWED_EMAILS": "a@example.com, b@example.com,",
		"PORT":                     "9090",
		"LENSQUOTE_DEBUG":          "true",
	}))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.SheetID)
	assert.Equal(t, "key", cfg.APIKey)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.AllowedEmails)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.Debug)
	assert.Equal(t, SourceAuto, cfg.Source)

	assert.Error(t, cfg.ApplyEnv(envMap(map[string]string{"PORT": "http"})))
	assert.Error(t, cfg.ApplyEnv(envMap(map[string]string{"LENSQUOTE_DEBUG": "sometimes"})))
}

func TestLoadAppConfig_File(t *testing.T) {
	t.Setenv("SHEET_ID", "")
	t.Setenv("LENSQUOTE_SOURCE", "")
	path := writeFile(t, "lensquote.yaml", "sheet_id: abc123\nsource: gviz\nport: 3000\n")

	cfg, err := LoadAppConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "abc123", cfg.SheetID)
	assert.Equal(t, SourceGviz, cfg.Source)
	assert.Equal(t, 3000, cfg.Port)

	t.Setenv("SHEET_ID", "override")
	cfg, err = LoadAppConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "override", cfg.SheetID)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  AppConfig
		ok   bool
	}{
		{"defaults", DefaultAppConfig(), true},
		{"unknown source", AppConfig{Source: "ftp"}, false},
		{"proxy without url", AppConfig{Source: SourceProxy}, false},
		{"sheets api without auth", AppConfig{Source: SourceSheetsAPI, SheetID: "x"}, false},
		{"sheets api with key", AppConfig{Source: SourceSheetsAPI, SheetID: "x", APIKey: "k"}, true},
		{"bad port", AppConfig{Port: 70000}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}

	srv := AppConfig{TokenSecret: "s"}
	assert.Error(t, srv.ValidateServer())
	srv.AllowedEmails = []string{"owner@example.com"}
	assert.NoError(t, srv.ValidateServer())
}

func TestDirectSource(t *testing.T) {
	ctx := context.Background()

	cfg := AppConfig{Source: SourceAuto}
	_, err := cfg.DirectSource(ctx, nil)
	assert.Error(t, err, "Nothing configured")

	cfg = AppConfig{Source: SourceProxy, ProxyURL: "http://localhost/api/sheets"}
	src, err := cfg.DirectSource(ctx, nil)
	require.NoError(t, err)
	assert.IsType(t, &datasource.ProxyClient{}, src)

	cfg = AppConfig{Source: SourceGviz, SheetID: "abc"}
	src, err = cfg.DirectSource(ctx, nil)
	require.NoError(t, err)
	assert.IsType(t, &datasource.GvizClient{}, src)

	cfg = AppConfig{Source: SourceAuto, SheetID: "abc", ProxyURL: "http://localhost/api/sheets"}
	src, err = cfg.DirectSource(ctx, nil)
	require.NoError(t, err)
	assert.IsType(t, &datasource.FallbackSource{}, src)
}

func TestBuildSource_Cache(t *testing.T) {
	cfg := AppConfig{Source: SourceGviz, SheetID: "abc", CacheDSN: t.TempDir() + "/cache.db"}
	src, closeFn, err := cfg.BuildSource(context.Background(), nil)
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &datasource.CachedSource{}, src)
}

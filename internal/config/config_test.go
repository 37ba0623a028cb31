package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "growtheory/internal/errors"
)

func TestLoadCreatesTemplateAndUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "config.toml"))
	assert.NoError(t, statErr, "template should be written on first run")

	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, "/analyze", cfg.API.AnalyzeEndpoint)
	assert.Equal(t, 5*time.Minute, cfg.Dashboard.CacheTTL)
	assert.Equal(t, time.Duration(0), cfg.API.Timeout)
	assert.Equal(t, filepath.Join(dir, "session.db"), cfg.Session.DBPath)
}

func TestLoadReadsFile(t *testing.T) {
	dir := t.TempDir()
	body := `
[api]
base_url = "https://api.growtheory.example"
status_endpoint = "/health"

[dashboard]
cache_ttl = "90s"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(body), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "https://api.growtheory.example", cfg.API.BaseURL)
	assert.Equal(t, "/health", cfg.API.StatusEndpoint)
	assert.Equal(t, "/report", cfg.API.ReportEndpoint)
	assert.Equal(t, 90*time.Second, cfg.Dashboard.CacheTTL)
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GROWTHEORY_API_BASE_URL", "https://staging.example")
	t.Setenv("GROWTHEORY_API_ANALYZE_ENDPOINT", "/v2/analyze")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "https://staging.example", cfg.API.BaseURL)
	assert.Equal(t, "/v2/analyze", cfg.API.AnalyzeEndpoint)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"relative base url", func(c *Config) { c.API.BaseURL = "localhost:5000" }, true},
		{"ftp base url", func(c *Config) { c.API.BaseURL = "ftp://example.com" }, true},
		{"endpoint without slash", func(c *Config) { c.API.ReportEndpoint = "report" }, true},
		{"zero ttl", func(c *Config) { c.Dashboard.CacheTTL = 0 }, true},
		{"negative timeout", func(c *Config) { c.API.Timeout = -time.Second }, true},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrConfigInvalid)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

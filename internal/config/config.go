// Package config provides configuration management for the analysis client.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	apperrors "growtheory/internal/errors"
)

// Build-time defaults. Release builds override these with
// -ldflags "-X growtheory/internal/config.DefaultBaseURL=...".
var (
	DefaultBaseURL           = "http://localhost:5000"
	DefaultAnalyzeEndpoint   = "/analyze"
	DefaultReportEndpoint    = "/report"
	DefaultDashboardEndpoint = "/dashboard"
	DefaultStatusEndpoint    = "/status"
)

// DefaultCacheTTL is the dashboard page freshness window.
const DefaultCacheTTL = 5 * time.Minute

// Config holds all application configuration.
type Config struct {
	API       APIConfig       `mapstructure:"api"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	UI        UIConfig        `mapstructure:"ui"`
	Session   SessionConfig   `mapstructure:"session"`
	Logging   LoggingConfig   `mapstructure:"logging"`

	Dir string `mapstructure:"-"`
}

// APIConfig holds the analysis service location.
type APIConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	AnalyzeEndpoint   string        `mapstructure:"analyze_endpoint"`
	ReportEndpoint    string        `mapstructure:"report_endpoint"`
	DashboardEndpoint string        `mapstructure:"dashboard_endpoint"`
	StatusEndpoint    string        `mapstructure:"status_endpoint"`
	Timeout           time.Duration `mapstructure:"timeout"` // 0 = no client timeout
}

// DashboardConfig holds dashboard cache configuration.
type DashboardConfig struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
}

// SessionConfig holds the session store location.
type SessionConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	File    bool   `mapstructure:"file"`
	Console bool   `mapstructure:"console"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/growtheory"
	}
	return filepath.Join(home, ".config", "growtheory")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{Dir: configDir}

	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if cfg.Session.DBPath == "" {
		cfg.Session.DBPath = filepath.Join(configDir, "session.db")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", DefaultBaseURL)
	v.SetDefault("api.analyze_endpoint", DefaultAnalyzeEndpoint)
	v.SetDefault("api.report_endpoint", DefaultReportEndpoint)
	v.SetDefault("api.dashboard_endpoint", DefaultDashboardEndpoint)
	v.SetDefault("api.status_endpoint", DefaultStatusEndpoint)
	v.SetDefault("api.timeout", "0s")
	v.SetDefault("dashboard.cache_ttl", DefaultCacheTTL.String())
	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.date_format", "02-Jan-2006 15:04")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", true)
	v.SetDefault("logging.console", false)
}

func loadConfigFile(configDir, name string, target *Config) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
		// First run: write the template, then carry on with defaults.
		if err := createTemplateConfig(configDir); err != nil {
			return err
		}
	}

	return v.Unmarshal(target)
}

// envOverrides maps environment variables to config fields. The names mirror
// the build-time variables the web front end was configured with.
var envOverrides = []struct {
	name  string
	apply func(*Config, string)
}{
	{"GROWTHEORY_API_BASE_URL", func(c *Config, v string) { c.API.BaseURL = v }},
	{"GROWTHEORY_API_ANALYZE_ENDPOINT", func(c *Config, v string) { c.API.AnalyzeEndpoint = v }},
	{"GROWTHEORY_API_REPORT_ENDPOINT", func(c *Config, v string) { c.API.ReportEndpoint = v }},
	{"GROWTHEORY_API_DASHBOARD_ENDPOINT", func(c *Config, v string) { c.API.DashboardEndpoint = v }},
	{"GROWTHEORY_API_STATUS_ENDPOINT", func(c *Config, v string) { c.API.StatusEndpoint = v }},
	{"GROWTHEORY_LOG_LEVEL", func(c *Config, v string) { c.Logging.Level = v }},
	{"GROWTHEORY_SESSION_DB", func(c *Config, v string) { c.Session.DBPath = v }},
}

func applyEnvOverrides(cfg *Config) {
	for _, o := range envOverrides {
		if v := os.Getenv(o.name); v != "" {
			o.apply(cfg, v)
		}
	}
	if v := os.Getenv("NO_COLOR"); v != "" {
		cfg.UI.ColorEnabled = false
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: api.base_url must be an absolute URL, got %q", apperrors.ErrConfigInvalid, c.API.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: api.base_url scheme must be http or https, got %q", apperrors.ErrConfigInvalid, u.Scheme)
	}

	endpoints := map[string]string{
		"api.analyze_endpoint":   c.API.AnalyzeEndpoint,
		"api.report_endpoint":    c.API.ReportEndpoint,
		"api.dashboard_endpoint": c.API.DashboardEndpoint,
		"api.status_endpoint":    c.API.StatusEndpoint,
	}
	for key, path := range endpoints {
		if !strings.HasPrefix(path, "/") {
			return fmt.Errorf("%w: %s must start with '/', got %q", apperrors.ErrConfigInvalid, key, path)
		}
	}

	if c.API.Timeout < 0 {
		return fmt.Errorf("%w: api.timeout must be non-negative", apperrors.ErrConfigInvalid)
	}
	if c.Dashboard.CacheTTL <= 0 {
		return fmt.Errorf("%w: dashboard.cache_ttl must be positive", apperrors.ErrConfigInvalid)
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: invalid logging.level: %s (must be debug, info, warn or error)", apperrors.ErrConfigInvalid, c.Logging.Level)
	}

	return nil
}

// Default returns a configuration populated with built-in defaults and no
// file backing. Used by tests and when the config directory is unwritable.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:           DefaultBaseURL,
			AnalyzeEndpoint:   DefaultAnalyzeEndpoint,
			ReportEndpoint:    DefaultReportEndpoint,
			DashboardEndpoint: DefaultDashboardEndpoint,
			StatusEndpoint:    DefaultStatusEndpoint,
		},
		Dashboard: DashboardConfig{CacheTTL: DefaultCacheTTL},
		UI:        UIConfig{ColorEnabled: true, DateFormat: "02-Jan-2006 15:04"},
		Logging:   LoggingConfig{Level: "info"},
	}
}

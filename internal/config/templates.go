package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# GrowTheory client configuration

[api]
# Analysis service location
base_url = "http://localhost:5000"
analyze_endpoint = "/analyze"
report_endpoint = "/report"
dashboard_endpoint = "/dashboard"
status_endpoint = "/status"
# Per-request timeout, "0s" disables it
timeout = "0s"

[dashboard]
# How long a fetched dashboard page is reused
cache_ttl = "5m"

[ui]
# Enable colored output
color_enabled = true
# Date format for report headers
date_format = "02-Jan-2006 15:04"

[session]
# Session store; defaults to session.db next to this file
# db_path = ""

[logging]
# debug, info, warn, error
level = "info"
# Write rotated logs under logs/
file = true
# Mirror logs to the terminal
console = false
`

// createTemplateConfig writes the config template if none exists yet.
func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}
	return nil
}

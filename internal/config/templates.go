package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Equity Research Dashboard Configuration

[dashboard]
# Directory where rendered chart pages are written
output_dir = "."
# Trailing price window: 1y, 2y, 3y, 5y, 10y, max
price_range = "3y"
# Price bar granularity: 1d, 1wk, 1mo
price_interval = "1wk"

[ui]
# Enable colored output
color_enabled = true
# Date format
date_format = "2006-01-02"

[logging]
# Log level: debug, info, warn, error
level = "info"
# Write rotated log files alongside console output
file = true
`

const credentialsTemplate = `# Equity Research Dashboard Credentials
# WARNING: Keep this file secure! Do not commit to version control.
# The token may also be supplied via the FINNHUB_TOKEN environment
# variable, which takes precedence over this file.

[finnhub]
token = ""
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	// Defaults are usable, so a missing config file is not fatal.
	return nil
}

func createTemplateCredentials(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "credentials.toml")
	// Use restricted permissions for credentials file
	if err := os.WriteFile(path, []byte(credentialsTemplate), 0600); err != nil {
		return fmt.Errorf("writing credentials template: %w", err)
	}

	// An empty token disables the ancillary endpoints rather than
	// blocking the dashboard, so continue without one.
	return nil
}

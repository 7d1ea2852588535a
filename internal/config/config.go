// Package config provides configuration management for the dashboard.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Dashboard   DashboardConfig `mapstructure:"dashboard"`
	UI          UIConfig        `mapstructure:"ui"`
	Logging     LoggingConfig   `mapstructure:"logging"`
	Credentials Credentials     `mapstructure:"-"` // Loaded separately
}

// DashboardConfig holds dashboard rendering configuration.
type DashboardConfig struct {
	OutputDir     string `mapstructure:"output_dir"`     // where chart pages are written
	PriceRange    string `mapstructure:"price_range"`    // trailing price window, e.g. "3y"
	PriceInterval string `mapstructure:"price_interval"` // bar granularity, e.g. "1wk"
}

// UIConfig holds terminal output configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  bool   `mapstructure:"file"`
}

// Credentials holds API credentials.
type Credentials struct {
	Finnhub FinnhubCredentials `mapstructure:"finnhub"`
}

// FinnhubCredentials holds the ancillary-provider token. The token is
// read once at startup and injected into the client; nothing else reads
// it.
type FinnhubCredentials struct {
	Token string `mapstructure:"token"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/equitydash"
	}
	return filepath.Join(home, ".config", "equitydash")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	// A .env next to the working directory may carry the provider
	// token during development; absence is not an error.
	_ = godotenv.Load()

	cfg := &Config{}

	// Load main config
	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	// Load credentials
	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir, name string, target interface{}) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	v.SetDefault("dashboard.output_dir", ".")
	v.SetDefault("dashboard.price_range", "3y")
	v.SetDefault("dashboard.price_interval", "1wk")
	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.date_format", "2006-01-02")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", true)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found, create template and use defaults
			if err := createTemplateConfig(configDir); err != nil {
				return err
			}
			return v.Unmarshal(target)
		}
		return err
	}

	return v.Unmarshal(target)
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateCredentials(configDir)
		}
		return err
	}

	return v.Unmarshal(creds)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FINNHUB_TOKEN"); v != "" {
		cfg.Credentials.Finnhub.Token = v
	}
	if v := os.Getenv("EQUITYDASH_OUTPUT_DIR"); v != "" {
		cfg.Dashboard.OutputDir = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Dashboard.PriceInterval {
	case "", "1d", "1wk", "1mo":
	default:
		return fmt.Errorf("invalid price_interval: %s (must be '1d', '1wk' or '1mo')", c.Dashboard.PriceInterval)
	}
	switch c.Dashboard.PriceRange {
	case "", "1y", "2y", "3y", "5y", "10y", "max":
	default:
		return fmt.Errorf("invalid price_range: %s", c.Dashboard.PriceRange)
	}
	return nil
}

// HasFinnhubToken reports whether the ancillary provider is usable.
func (c *Config) HasFinnhubToken() bool {
	return c.Credentials.Finnhub.Token != ""
}

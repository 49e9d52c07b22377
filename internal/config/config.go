// Package config provides configuration management for the trading journal.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	apperrors "tradeflow/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	Journal     JournalConfig `mapstructure:"journal"`
	UI          UIConfig      `mapstructure:"ui"`
	Logging     LoggingConfig `mapstructure:"logging"`
	Credentials Credentials   `mapstructure:"-"` // Loaded separately
}

// JournalConfig holds journal behavior configuration.
type JournalConfig struct {
	// DefaultRiskPercent pre-fills the risk field of new trades.
	DefaultRiskPercent float64 `mapstructure:"default_risk_percent"`
	// DefaultInitialBalance seeds accounts that never set a balance.
	DefaultInitialBalance float64 `mapstructure:"default_initial_balance"`
	// StrictStopValidation rejects trades whose stop sits on the wrong
	// side of the entry for the chosen direction. When false (default)
	// such trades are accepted with a warning and a negative pip display.
	StrictStopValidation bool `mapstructure:"strict_stop_validation"`
	// AIModel selects the chat model used for trade feedback.
	AIModel string `mapstructure:"ai_model"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
	TimeFormat   string `mapstructure:"time_format"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
	File    bool   `mapstructure:"file"`
}

// Credentials holds API credentials.
type Credentials struct {
	OpenAI OpenAICredentials `mapstructure:"openai"`
}

// OpenAICredentials holds the key for the AI mentor feedback service.
type OpenAICredentials struct {
	APIKey string `mapstructure:"api_key"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/tradeflow"
	}
	return filepath.Join(home, ".config", "tradeflow")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	if err := loadConfigFile(configDir, cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir string, target *Config) error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// First run: write a template the user can edit.
			return createTemplateConfig(configDir)
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

func applyDefaults(cfg *Config) {
	if cfg.Journal.DefaultRiskPercent <= 0 {
		cfg.Journal.DefaultRiskPercent = 1.0
	}
	if cfg.Journal.DefaultInitialBalance <= 0 {
		cfg.Journal.DefaultInitialBalance = 10000
	}
	if cfg.Journal.AIModel == "" {
		cfg.Journal.AIModel = "gpt-4o-mini"
	}
	if cfg.UI.DateFormat == "" {
		cfg.UI.DateFormat = "02-Jan-2006"
	}
	if cfg.UI.TimeFormat == "" {
		cfg.UI.TimeFormat = "15:04:05"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

func applyEnvOverrides(cfg *Config) {
	if key := os.Getenv("TRADEFLOW_OPENAI_API_KEY"); key != "" {
		cfg.Credentials.OpenAI.APIKey = key
	} else if key := os.Getenv("OPENAI_API_KEY"); key != "" && cfg.Credentials.OpenAI.APIKey == "" {
		cfg.Credentials.OpenAI.APIKey = key
	}
}

// Validate checks the configuration for invalid values. Failures wrap
// apperrors.ErrConfigInvalid so callers can test with errors.Is.
func (c *Config) Validate() error {
	if c.Journal.DefaultRiskPercent < 0 || c.Journal.DefaultRiskPercent > 100 {
		return fmt.Errorf("%w: journal.default_risk_percent must be between 0 and 100, got %v",
			apperrors.ErrConfigInvalid, c.Journal.DefaultRiskPercent)
	}
	if c.Journal.DefaultInitialBalance < 0 {
		return fmt.Errorf("%w: journal.default_initial_balance must not be negative, got %v",
			apperrors.ErrConfigInvalid, c.Journal.DefaultInitialBalance)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: logging.level must be one of debug, info, warn, error; got %q",
			apperrors.ErrConfigInvalid, c.Logging.Level)
	}
	return nil
}

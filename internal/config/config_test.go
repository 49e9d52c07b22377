package config

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "tradeflow/internal/errors"
)

func TestLoadFirstRunCreatesTemplates(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Journal.DefaultRiskPercent != 1.0 {
		t.Errorf("default risk = %v, want 1.0", cfg.Journal.DefaultRiskPercent)
	}
	if cfg.Journal.DefaultInitialBalance != 10000 {
		t.Errorf("default balance = %v, want 10000", cfg.Journal.DefaultInitialBalance)
	}
	if cfg.Journal.AIModel == "" {
		t.Error("default ai model not applied")
	}

	for _, name := range []string{"config.toml", "credentials.toml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("template %s not created: %v", name, err)
		}
	}
}

func TestValidateWrapsConfigInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"risk percent out of range", func(c *Config) { c.Journal.DefaultRiskPercent = 150 }},
		{"negative balance", func(c *Config) { c.Journal.DefaultInitialBalance = -1 }},
		{"unknown log level", func(c *Config) { c.Logging.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			tt.mutate(cfg)
			err := cfg.Validate()
			if !apperrors.Is(err, apperrors.ErrConfigInvalid) {
				t.Errorf("Validate error = %v, want ErrConfigInvalid", err)
			}
		})
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestEnvOverridesAPIKey(t *testing.T) {
	t.Setenv("TRADEFLOW_OPENAI_API_KEY", "sk-from-env")
	t.Setenv("OPENAI_API_KEY", "sk-generic")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Credentials.OpenAI.APIKey != "sk-from-env" {
		t.Errorf("api key = %q, want the app-specific env var to win", cfg.Credentials.OpenAI.APIKey)
	}
}

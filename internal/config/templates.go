package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# TradeFlow Configuration

[journal]
# Risk percentage pre-filled on the trade form
default_risk_percent = 1.0
# Starting balance for accounts that never set one
default_initial_balance = 10000.0
# Reject trades whose stop-loss sits on the wrong side of the entry.
# When false, such trades are saved with a warning.
strict_stop_validation = false
# Chat model used for AI mentor feedback
ai_model = "gpt-4o-mini"

[ui]
# Enable colored output
color_enabled = true
# Date format
date_format = "02-Jan-2006"
# Time format
time_format = "15:04:05"

[logging]
# Log level: debug, info, warn, error
level = "info"
# Log to the terminal
console = true
# Log to a rotated file under the config directory
file = true
`

const credentialsTemplate = `# TradeFlow Credentials
# Keep this file private; it holds API keys.

[openai]
# API key for AI mentor feedback. Leave empty to disable AI analysis.
# Can also be provided via the TRADEFLOW_OPENAI_API_KEY environment variable.
api_key = ""
`

func createTemplateConfig(configDir string) error {
	return writeTemplate(configDir, "config.toml", configTemplate, 0o644)
}

func createTemplateCredentials(configDir string) error {
	return writeTemplate(configDir, "credentials.toml", credentialsTemplate, 0o600)
}

func writeTemplate(configDir, name, content string, perm os.FileMode) error {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, name)
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		return fmt.Errorf("writing %s template: %w", name, err)
	}
	return nil
}

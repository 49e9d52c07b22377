// Package auth manages the local login session. Authentication is a
// lightweight identity switch: logging in moves the journal to the user's
// own storage partition, logging out returns to the shared guest partition.
package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	apperrors "tradeflow/internal/errors"
	"tradeflow/internal/models"
	"tradeflow/internal/store"
)

const sessionFile = "session.json"

// Providers that the login command accepts.
var Providers = []string{"google", "github"}

// Manager persists the active session under the config directory.
type Manager struct {
	configDir string
	logger    zerolog.Logger
}

// NewManager creates a session manager rooted at configDir.
func NewManager(configDir string, logger zerolog.Logger) *Manager {
	return &Manager{configDir: configDir, logger: logger}
}

// Current returns the logged-in user, or nil when running as guest.
func (m *Manager) Current() (*models.User, error) {
	data, err := os.ReadFile(m.sessionPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}

	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		// A corrupt session falls back to guest rather than locking the
		// user out of their journal.
		m.logger.Warn().Err(err).Msg("Discarding unreadable session file")
		return nil, nil
	}
	if user.ID == "" {
		return nil, nil
	}
	return &user, nil
}

// UserID returns the storage partition for the active session. Guest when
// nobody is logged in.
func (m *Manager) UserID() string {
	user, err := m.Current()
	if err != nil || user == nil {
		return store.GuestUserID
	}
	return user.ID
}

// Login establishes a session with the given provider and returns the user.
// There is no real OAuth exchange; the identity is derived from the provider
// so repeat logins land on the same partition.
func (m *Manager) Login(provider string) (*models.User, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if !validProvider(provider) {
		return nil, apperrors.NewValidationError("provider", provider,
			fmt.Sprintf("unknown provider (choose one of: %s)", strings.Join(Providers, ", ")))
	}

	user := demoIdentity(provider)
	if err := m.writeSession(user); err != nil {
		return nil, err
	}

	m.logger.Info().
		Str("event", "login").
		Str("provider", provider).
		Str("user", user.ID).
		Msg("Session started")
	return user, nil
}

// Logout removes the session. Logging out when already a guest is an error
// so the command can tell the user nothing happened.
func (m *Manager) Logout() error {
	err := os.Remove(m.sessionPath())
	if os.IsNotExist(err) {
		return apperrors.ErrNotLoggedIn
	}
	if err != nil {
		return fmt.Errorf("removing session: %w", err)
	}

	m.logger.Info().Str("event", "logout").Msg("Session ended")
	return nil
}

func (m *Manager) sessionPath() string {
	return filepath.Join(m.configDir, sessionFile)
}

func (m *Manager) writeSession(user *models.User) error {
	if err := os.MkdirAll(m.configDir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(user, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := os.WriteFile(m.sessionPath(), data, 0o600); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return nil
}

func validProvider(provider string) bool {
	for _, p := range Providers {
		if p == provider {
			return true
		}
	}
	return false
}

// demoIdentity builds the deterministic identity for a provider.
func demoIdentity(provider string) *models.User {
	return &models.User{
		ID:       provider + "-demo-user",
		Name:     "Demo Trader",
		Email:    "demo@" + provider + ".example",
		Provider: provider,
	}
}

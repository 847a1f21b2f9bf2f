package driving

import "github.com/custodia-labs/outline-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current settings, falling back to defaults.
	Get() (*domain.AppSettings, error)

	// Save persists settings.
	Save(settings *domain.AppSettings) error

	// Validate checks settings without saving them.
	Validate(settings *domain.AppSettings) error

	// Set parses raw for the known key and persists it.
	Set(key, raw string) error

	// Value returns the effective value of a key, formatted for display.
	Value(key string) (string, error)

	// Keys lists the known setting keys.
	Keys() []string
}

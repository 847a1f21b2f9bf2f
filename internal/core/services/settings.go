package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/custodia-labs/outline-cli/internal/core/domain"
	"github.com/custodia-labs/outline-cli/internal/core/ports/driven"
	"github.com/custodia-labs/outline-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyEditingEnabled  = "panel.editing_enabled"
	keyAutoExpand      = "panel.auto_expand"
	keyUntitledName    = "panel.untitled_name"
	keyBookmarkFailure = "panel.bookmark_failure"
	keyWatchDebounceMS = "watch.debounce_ms"
	keyWatchRate       = "watch.rate_per_second"
	keyLogLevel        = "log.level"
)

type settingKind int

const (
	kindBool settingKind = iota
	kindInt
	kindString
)

var settingKinds = map[string]settingKind{
	keyEditingEnabled:  kindBool,
	keyAutoExpand:      kindBool,
	keyUntitledName:    kindString,
	keyBookmarkFailure: kindString,
	keyWatchDebounceMS: kindInt,
	keyWatchRate:       kindInt,
	keyLogLevel:        kindString,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings. Missing or invalid values
// fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Panel: domain.PanelSettings{
			EditingEnabled:  s.getBool(keyEditingEnabled, defaults.Panel.EditingEnabled),
			AutoExpand:      s.getBool(keyAutoExpand, defaults.Panel.AutoExpand),
			UntitledName:    s.getString(keyUntitledName, defaults.Panel.UntitledName),
			BookmarkFailure: s.getPolicy(defaults.Panel.BookmarkFailure),
		},
		Watch: domain.WatchSettings{
			Debounce:      time.Duration(s.getInt(keyWatchDebounceMS, int(defaults.Watch.Debounce/time.Millisecond))) * time.Millisecond,
			RatePerSecond: s.getInt(keyWatchRate, defaults.Watch.RatePerSecond),
		},
		LogLevel: s.getLogLevel(defaults.LogLevel),
	}

	return settings, nil
}

// Save validates and persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := s.Validate(settings); err != nil {
		return err
	}

	values := []struct {
		key string
		val any
	}{
		{keyEditingEnabled, settings.Panel.EditingEnabled},
		{keyAutoExpand, settings.Panel.AutoExpand},
		{keyUntitledName, settings.Panel.UntitledName},
		{keyBookmarkFailure, string(settings.Panel.BookmarkFailure)},
		{keyWatchDebounceMS, int(settings.Watch.Debounce / time.Millisecond)},
		{keyWatchRate, settings.Watch.RatePerSecond},
		{keyLogLevel, settings.LogLevel},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.val); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Validate checks settings without saving them.
func (s *SettingsService) Validate(settings *domain.AppSettings) error {
	if settings == nil {
		return fmt.Errorf("%w: settings are required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(settings.Panel.UntitledName) == "" {
		return fmt.Errorf("%w: %s must not be empty", domain.ErrInvalidInput, keyUntitledName)
	}
	if !settings.Panel.BookmarkFailure.IsValid() {
		return fmt.Errorf("%w: %s must be %q or %q", domain.ErrInvalidInput,
			keyBookmarkFailure, domain.RetainOnFailure, domain.ClearOnFailure)
	}
	if settings.Watch.Debounce < 0 {
		return fmt.Errorf("%w: %s must not be negative", domain.ErrInvalidInput, keyWatchDebounceMS)
	}
	if settings.Watch.RatePerSecond < 1 {
		return fmt.Errorf("%w: %s must be at least 1", domain.ErrInvalidInput, keyWatchRate)
	}
	if _, err := zerolog.ParseLevel(settings.LogLevel); err != nil || settings.LogLevel == "" {
		return fmt.Errorf("%w: unknown log level %q", domain.ErrInvalidInput, settings.LogLevel)
	}
	return nil
}

// Set parses raw according to the key's type, validates the resulting
// settings and persists the key.
func (s *SettingsService) Set(key, raw string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	var value any
	switch kind {
	case kindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%w: %s expects true or false", domain.ErrInvalidInput, key)
		}
		value = b
	case kindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: %s expects an integer", domain.ErrInvalidInput, key)
		}
		value = n
	default:
		value = raw
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	applySetting(settings, key, value)
	if err := s.Validate(settings); err != nil {
		return err
	}
	return s.configStore.Set(key, value)
}

func applySetting(settings *domain.AppSettings, key string, value any) {
	switch key {
	case keyEditingEnabled:
		settings.Panel.EditingEnabled = value.(bool)
	case keyAutoExpand:
		settings.Panel.AutoExpand = value.(bool)
	case keyUntitledName:
		settings.Panel.UntitledName = value.(string)
	case keyBookmarkFailure:
		settings.Panel.BookmarkFailure = domain.BookmarkFailurePolicy(value.(string))
	case keyWatchDebounceMS:
		settings.Watch.Debounce = time.Duration(value.(int)) * time.Millisecond
	case keyWatchRate:
		settings.Watch.RatePerSecond = value.(int)
	case keyLogLevel:
		settings.LogLevel = value.(string)
	}
}

// Value returns the effective value of key, defaults included.
func (s *SettingsService) Value(key string) (string, error) {
	if _, ok := settingKinds[key]; !ok {
		return "", fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	settings, err := s.Get()
	if err != nil {
		return "", err
	}
	switch key {
	case keyEditingEnabled:
		return strconv.FormatBool(settings.Panel.EditingEnabled), nil
	case keyAutoExpand:
		return strconv.FormatBool(settings.Panel.AutoExpand), nil
	case keyUntitledName:
		return settings.Panel.UntitledName, nil
	case keyBookmarkFailure:
		return string(settings.Panel.BookmarkFailure), nil
	case keyWatchDebounceMS:
		return strconv.FormatInt(settings.Watch.Debounce.Milliseconds(), 10), nil
	case keyWatchRate:
		return strconv.Itoa(settings.Watch.RatePerSecond), nil
	default:
		return settings.LogLevel, nil
	}
}

// Keys lists the known setting keys in display order.
func (s *SettingsService) Keys() []string {
	return []string{
		keyEditingEnabled,
		keyAutoExpand,
		keyUntitledName,
		keyBookmarkFailure,
		keyWatchDebounceMS,
		keyWatchRate,
		keyLogLevel,
	}
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getPolicy(defaultVal domain.BookmarkFailurePolicy) domain.BookmarkFailurePolicy {
	policy := domain.BookmarkFailurePolicy(s.configStore.GetString(keyBookmarkFailure))
	if !policy.IsValid() {
		return defaultVal
	}
	return policy
}

func (s *SettingsService) getLogLevel(defaultVal string) string {
	val := s.configStore.GetString(keyLogLevel)
	if _, err := zerolog.ParseLevel(val); err != nil || val == "" {
		return defaultVal
	}
	return val
}

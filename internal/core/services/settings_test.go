package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/outline-cli/internal/adapters/driven/config/memory"
	"github.com/custodia-labs/outline-cli/internal/core/domain"
)

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	settings, err := service.Get()

	require.NoError(t, err)
	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults, *settings)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		"panel.editing_enabled":  false,
		"panel.untitled_name":    "Nameless",
		"panel.bookmark_failure": "clear",
		"watch.debounce_ms":      int64(50),
		"watch.rate_per_second":  int64(10),
		"log.level":              "debug",
	})
	service := NewSettingsService(store)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.False(t, settings.Panel.EditingEnabled)
	assert.True(t, settings.Panel.AutoExpand)
	assert.Equal(t, "Nameless", settings.Panel.UntitledName)
	assert.Equal(t, domain.ClearOnFailure, settings.Panel.BookmarkFailure)
	assert.Equal(t, 50*time.Millisecond, settings.Watch.Debounce)
	assert.Equal(t, 10, settings.Watch.RatePerSecond)
	assert.Equal(t, "debug", settings.LogLevel)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		"panel.bookmark_failure": "sometimes",
		"log.level":              "loud",
	})
	service := NewSettingsService(store)

	settings, err := service.Get()

	require.NoError(t, err)
	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Panel.BookmarkFailure, settings.Panel.BookmarkFailure)
	assert.Equal(t, defaults.LogLevel, settings.LogLevel)
}

func TestSettingsService_SaveRoundTrip(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	settings := domain.DefaultAppSettings()
	settings.Panel.AutoExpand = false
	settings.Watch.Debounce = 75 * time.Millisecond

	require.NoError(t, service.Save(&settings))

	got, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, settings, *got)
	assert.Equal(t, 75, store.GetInt("watch.debounce_ms"))
}

func TestSettingsService_Validate(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	tests := []struct {
		name   string
		mutate func(*domain.AppSettings)
	}{
		{"empty untitled name", func(s *domain.AppSettings) { s.Panel.UntitledName = "  " }},
		{"unknown policy", func(s *domain.AppSettings) { s.Panel.BookmarkFailure = "maybe" }},
		{"negative debounce", func(s *domain.AppSettings) { s.Watch.Debounce = -time.Second }},
		{"zero rate", func(s *domain.AppSettings) { s.Watch.RatePerSecond = 0 }},
		{"bad log level", func(s *domain.AppSettings) { s.LogLevel = "chatty" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := domain.DefaultAppSettings()
			tt.mutate(&settings)

			err := service.Validate(&settings)

			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	defaults := domain.DefaultAppSettings()
	assert.NoError(t, service.Validate(&defaults))
	assert.ErrorIs(t, service.Validate(nil), domain.ErrInvalidInput)
}

func TestSettingsService_Set(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	require.NoError(t, service.Set("panel.editing_enabled", "false"))
	require.NoError(t, service.Set("watch.rate_per_second", "4"))
	require.NoError(t, service.Set("panel.untitled_name", "Draft"))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.False(t, settings.Panel.EditingEnabled)
	assert.Equal(t, 4, settings.Watch.RatePerSecond)
	assert.Equal(t, "Draft", settings.Panel.UntitledName)

	assert.ErrorIs(t, service.Set("panel.nope", "x"), domain.ErrInvalidInput)
	assert.ErrorIs(t, service.Set("panel.auto_expand", "sometimes"), domain.ErrInvalidInput)
	assert.ErrorIs(t, service.Set("watch.rate_per_second", "0"), domain.ErrInvalidInput)
	assert.ErrorIs(t, service.Set("panel.bookmark_failure", "drop"), domain.ErrInvalidInput)
}

func TestSettingsService_Keys(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	keys := service.Keys()

	assert.Len(t, keys, 7)
	assert.Contains(t, keys, "panel.bookmark_failure")
}

func TestSettingsService_Value(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(map[string]any{
		"watch.debounce_ms": int64(75),
	}))

	v, err := service.Value("watch.debounce_ms")
	require.NoError(t, err)
	assert.Equal(t, "75", v)

	v, err = service.Value("panel.editing_enabled")
	require.NoError(t, err)
	assert.Equal(t, "true", v)

	v, err = service.Value("panel.bookmark_failure")
	require.NoError(t, err)
	assert.Equal(t, "retain", v)

	_, err = service.Value("panel.nope")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

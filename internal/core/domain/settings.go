package domain

import "time"

// BookmarkFailurePolicy decides what happens to the bookmark map when a
// refresh fails part way through.
type BookmarkFailurePolicy string

const (
	// RetainOnFailure keeps the last complete map.
	RetainOnFailure BookmarkFailurePolicy = "retain"
	// ClearOnFailure empties the map.
	ClearOnFailure BookmarkFailurePolicy = "clear"
)

// IsValid reports whether p is a known policy.
func (p BookmarkFailurePolicy) IsValid() bool {
	return p == RetainOnFailure || p == ClearOnFailure
}

// PanelSettings configures the outline panel.
type PanelSettings struct {
	// EditingEnabled allows outline mutations (extended mode is also required).
	EditingEnabled bool

	// AutoExpand expands all outline levels when rendering.
	AutoExpand bool

	// UntitledName names outlines added without a name or text preview.
	UntitledName string

	// BookmarkFailure is the policy for failed bookmark refreshes.
	BookmarkFailure BookmarkFailurePolicy
}

// WatchSettings configures the document file watcher.
type WatchSettings struct {
	// Debounce coalesces bursts of file events.
	Debounce time.Duration

	// RatePerSecond caps how often refresh signals are published.
	RatePerSecond int
}

// AppSettings is the full application configuration.
type AppSettings struct {
	Panel    PanelSettings
	Watch    WatchSettings
	LogLevel string
}

// DefaultAppSettings returns the built-in defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Panel: PanelSettings{
			EditingEnabled:  true,
			AutoExpand:      true,
			UntitledName:    "Untitled",
			BookmarkFailure: RetainOnFailure,
		},
		Watch: WatchSettings{
			Debounce:      200 * time.Millisecond,
			RatePerSecond: 2,
		},
		LogLevel: "info",
	}
}

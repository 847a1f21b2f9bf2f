// Package styles holds the outline panel's palette and lipgloss styles.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/outline-cli/internal/core/domain"
)

// Theme is the panel palette.
type Theme struct {
	Accent    lipgloss.Color // titles, cursor background
	Highlight lipgloss.Color // the active outline
	Text      lipgloss.Color
	Dim       lipgloss.Color // page numbers, hints
	Alert     lipgloss.Color
	Caution   lipgloss.Color // marked outlines, confirmations
	Frame     lipgloss.Color // input border
	Surface   lipgloss.Color // status bar background
}

// DefaultTheme returns the dark palette.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#7C3AED"),
		Highlight: lipgloss.Color("#06B6D4"),
		Text:      lipgloss.Color("#CDD6F4"),
		Dim:       lipgloss.Color("#6C7086"),
		Alert:     lipgloss.Color("#F38BA8"),
		Caution:   lipgloss.Color("#F9E2AF"),
		Frame:     lipgloss.Color("#45475A"),
		Surface:   lipgloss.Color("#181825"),
	}
}

// Styles are the rendered styles of a Theme.
type Styles struct {
	theme *Theme

	Title      lipgloss.Style
	Normal     lipgloss.Style
	Muted      lipgloss.Style
	Selected   lipgloss.Style // cursor
	Error      lipgloss.Style
	Warning    lipgloss.Style
	InputField lipgloss.Style
	StatusBar  lipgloss.Style
	Help       lipgloss.Style

	// Active marks the outline the viewer is on.
	Active lipgloss.Style

	// Marked flags outlines that are selected or cut.
	Marked lipgloss.Style

	// Page renders the destination page after an outline name.
	Page lipgloss.Style
}

// NewStyles builds styles from theme, or from DefaultTheme when nil.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	plain := lipgloss.NewStyle()
	return &Styles{
		theme:      theme,
		Title:      plain.Bold(true).Foreground(theme.Accent),
		Normal:     plain.Foreground(theme.Text),
		Muted:      plain.Foreground(theme.Dim),
		Selected:   plain.Bold(true).Foreground(theme.Text).Background(theme.Accent),
		Error:      plain.Foreground(theme.Alert),
		Warning:    plain.Foreground(theme.Caution),
		InputField: plain.BorderStyle(lipgloss.RoundedBorder()).BorderForeground(theme.Frame).Padding(0, 1),
		StatusBar:  plain.Foreground(theme.Dim).Background(theme.Surface).Padding(0, 1),
		Help:       plain.Foreground(theme.Dim),
		Active:     plain.Foreground(theme.Highlight),
		Marked:     plain.Foreground(theme.Caution),
		Page:       plain.Foreground(theme.Dim).Faint(true),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// Bookmark returns the style for an outline name carrying bookmark styling.
// Black is the engine default and keeps the theme text colour.
func (s *Styles) Bookmark(style domain.BookmarkStyle) lipgloss.Style {
	st := s.Normal.
		Bold(style.Flag.Bold()).
		Italic(style.Flag.Italic())
	if style.Color != domain.Black {
		st = st.Foreground(lipgloss.Color(style.Color.Hex()))
	}
	return st
}

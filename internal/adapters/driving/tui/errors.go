package tui

import "errors"

// ErrMissingOutlinePanel is returned when the outline panel is not provided.
var ErrMissingOutlinePanel = errors.New("tui: outline panel is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")

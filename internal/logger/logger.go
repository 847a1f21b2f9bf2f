// Package logger provides structured logging for the outline CLI.
// Output is rendered by zerolog. When verbose mode is enabled via the
// --verbose flag, debug messages are printed to stderr to help users follow
// engine calls and panel refreshes.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	level             = zerolog.InfoLevel
)

func init() {
	rebuild()
}

// Setup sets the log level by name (debug, info, warn, error) and the output
// writer. A nil writer keeps the current output.
func Setup(levelName string, w io.Writer) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(levelName)))
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", levelName, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	mu.Lock()
	defer mu.Unlock()
	level = lvl
	if w != nil {
		output = w
	}
	rebuild()
	return nil
}

// SetVerbose enables or disables verbose logging.
// Verbose mode forces the debug level.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	rebuild()
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	rebuild()
}

// rebuild replaces the global logger (caller must hold lock).
func rebuild() {
	lvl := level
	if verbose {
		lvl = zerolog.DebugLevel
	}
	w := output
	if f, ok := w.(*os.File); ok && (f == os.Stderr || f == os.Stdout) {
		w = zerolog.ConsoleWriter{Out: f, TimeFormat: "15:04:05"}
	}
	log.Logger = zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// Component creates a new logger with a component identifier.
// Uses the "cmp" key for consistency with zerolog conventions.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}

// Debug logs a formatted debug message.
func Debug(format string, args ...any) {
	log.Debug().Msgf(format, args...)
}

// Info logs a formatted informational message.
func Info(format string, args ...any) {
	log.Info().Msgf(format, args...)
}

// Warn logs a formatted warning.
func Warn(format string, args ...any) {
	log.Warn().Msgf(format, args...)
}

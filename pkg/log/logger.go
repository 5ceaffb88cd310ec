// Package log configures structured logging for modelselect experiments.
//
// Logging is built on zerolog. Library code takes a zerolog.Logger value
// where it logs at all; the zero value obtained from Nop() is silent, so
// callers that do not care about progress output pay nothing.
package log

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Standard attribute keys used across experiment logging. Keeping the keys in
// one place makes fold-level log lines filterable.
const (
	ConfigKey   = "config"
	FoldKey     = "fold"
	MethodKey   = "method"
	MetricKey   = "metric"
	SamplesKey  = "samples"
	FeaturesKey = "features"
	SeedKey     = "seed"
	DurationKey = "duration_ms"
)

// New creates a JSON logger writing to w at the given level.
// Unknown level strings fall back to info.
func New(w io.Writer, level string) zerolog.Logger {
	return zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// NewConsole creates a human-readable logger for CLI use, writing to stderr.
func NewConsole(level string) zerolog.Logger {
	cw := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(cw).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// Nop returns a disabled logger.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

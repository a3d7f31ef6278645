// Package logger configures the zerolog logger shared across commands.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New creates a console logger writing to stderr. The CLI's own output
// (suggestions, tables) goes to stdout; diagnostics stay out of its way.
func New(verbose bool) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// NewWithWriter creates a logger with a custom writer, for tests.
func NewWithWriter(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}

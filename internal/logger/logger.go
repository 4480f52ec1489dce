// Package logger builds charmbracelet/log loggers shared by the service packages.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// New creates a text logger writing to stderr with the given prefix
func New(prefix string) *log.Logger {
	return NewWithWriter(os.Stderr, prefix, log.GetLevel())
}

// NewWithWriter creates a text logger with an explicit destination and level
func NewWithWriter(w io.Writer, prefix string, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: true,
		Formatter:       log.TextFormatter,
		Level:           level,
	})
}

// Discard returns a logger that drops everything, for tests
func Discard() *log.Logger {
	return NewWithWriter(io.Discard, "", log.FatalLevel)
}

// ParseLevel maps a config string to a level, defaulting to info
func ParseLevel(level string) log.Level {
	parsed, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return log.InfoLevel
	}
	return parsed
}

// SetGlobalLevel sets the level of the default logger and of loggers created by New
func SetGlobalLevel(level string) {
	log.SetLevel(ParseLevel(level))
}

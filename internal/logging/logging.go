// Package logging builds the logrus loggers used by the CLI and the server.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Format selects the logrus formatter.
type Format int

const (
	// Text is for humans reading stderr.
	Text Format = iota
	// JSON is for the HTTP server.
	JSON
)

// New returns a logger writing to stderr. Unknown levels fall back to info.
func New(level string, format Format) *logrus.Logger {
	return NewWithOutput(os.Stderr, level, format)
}

// NewWithOutput is New with an explicit writer.
func NewWithOutput(w io.Writer, level string, format Format) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)

	switch format {
	case JSON:
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: true,
		})
	}

	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

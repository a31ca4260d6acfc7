// Package logger provides a wrapper around logrus for structured logging.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// NewLogger creates a logger writing to stderr so command output on stdout stays clean.
// format is "text" or "json"; ENVIRONMENT=production forces json.
func NewLogger(logLevel, format string) *logrus.Logger {
	return newLogger(os.Stderr, logLevel, format)
}

func newLogger(out io.Writer, logLevel, format string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logger.Warnf("Invalid log level '%s', defaulting to info", logLevel)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if strings.EqualFold(format, "json") || os.Getenv("ENVIRONMENT") == "production" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}

// EngineLogger adapts a logrus entry to the calculation engine's Logger interface.
type EngineLogger struct {
	*logrus.Entry
}

// Engine returns an EngineLogger tagged with the engine component.
func Engine(base *logrus.Logger) *EngineLogger {
	return &EngineLogger{Entry: base.WithField("component", "engine")}
}

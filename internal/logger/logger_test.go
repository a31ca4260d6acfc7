package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rpgo/corpus-planner/internal/calculation"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		level    string
		expected logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"warn", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"bogus", logrus.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			log := newLogger(&bytes.Buffer{}, tt.level, "text")
			assert.Equal(t, tt.expected, log.GetLevel())
		})
	}
}

func TestNewLoggerFormat(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")

	assert.IsType(t, &logrus.JSONFormatter{}, newLogger(&bytes.Buffer{}, "info", "json").Formatter)
	assert.IsType(t, &logrus.TextFormatter{}, newLogger(&bytes.Buffer{}, "info", "text").Formatter)

	t.Setenv("ENVIRONMENT", "production")
	assert.IsType(t, &logrus.JSONFormatter{}, newLogger(&bytes.Buffer{}, "info", "text").Formatter)
}

func TestEngineLoggerSatisfiesEngineInterface(t *testing.T) {
	buf := &bytes.Buffer{}
	base := newLogger(buf, "debug", "json")

	var l calculation.Logger = Engine(base)
	l.Infof("plan complete market=%s", "sp500")

	entry := parseLogOutput(buf)
	require.NotNil(t, entry)
	assert.Equal(t, "engine", entry["component"])
	assert.Equal(t, "plan complete market=sp500", entry["msg"])
	assert.Equal(t, "info", entry["level"])
}

package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProductionLogsJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New("production", "info", &buf)

	log.Debug("hidden")
	log.Info("product created", "category", "CPU", "id", 3)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "product created", line["msg"])
	assert.Equal(t, "CPU", line["category"])
	assert.Equal(t, float64(3), line["id"])
}

func TestNewDevelopmentLogsText(t *testing.T) {
	var buf bytes.Buffer
	log := New("development", "debug", &buf)

	log.Debug("listing", "page", 2)
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "page=2")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

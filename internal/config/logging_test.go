package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLoggerWithWriters(t *testing.T) {
	var console, file bytes.Buffer
	logger := SetupLoggerWithWriters(&console, &file, slog.LevelInfo)

	logger.Info("request completed", "request_id", "0d9f6c1e", "duration_ms", 1200)
	logger.Debug("hidden")

	assert.Contains(t, console.String(), "request completed")
	assert.Contains(t, console.String(), "request_id=0d9f6c1e")
	assert.NotContains(t, console.String(), "hidden")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(file.Bytes(), &entry))
	assert.Equal(t, "request completed", entry["msg"])
	assert.Equal(t, "0d9f6c1e", entry["request_id"])
}

func TestSetupLoggerFileOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opschat.log")

	logger, cleanup := SetupLogger(path, slog.LevelDebug, nil)
	logger.Debug("progress", "status", "Looking up order X12")
	require.NoError(t, cleanup())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status":"Looking up order X12"`)
}

func TestSetupLoggerConsoleAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opschat.log")
	var console bytes.Buffer

	logger, cleanup := SetupLogger(path, slog.LevelInfo, &console)
	logger.Warn("slow answer")
	require.NoError(t, cleanup())

	assert.Contains(t, console.String(), "slow answer")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "slow answer")
}

func TestSetupLoggerUnwritableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "opschat.log")

	var console bytes.Buffer
	logger, cleanup := SetupLogger(path, slog.LevelInfo, &console)
	require.NoError(t, cleanup())
	assert.True(t, strings.Contains(console.String(), "failed to open log file"))
	logger.Info("still works")
	assert.Contains(t, console.String(), "still works")

	quiet, cleanup := SetupLogger(path, slog.LevelInfo, nil)
	require.NoError(t, cleanup())
	quiet.Info("dropped")
}

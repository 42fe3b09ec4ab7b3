package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/ashfall/internal/config"
)

func TestToFile_CreatesDirectoryAndAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "console.log")
	cfg := &config.Config{Environment: "development", LogLevel: slog.LevelInfo}

	log, f, err := ToFile(cfg, path)
	require.NoError(t, err, "expected log file to open")

	log.Info("first run")
	require.NoError(t, f.Close())

	log, f, err = ToFile(cfg, path)
	require.NoError(t, err, "reopening should append, not fail")
	log.Info("second run")
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "first run")
	assert.Contains(t, string(data), "second run")
}

func TestToFile_ProductionUsesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.log")
	cfg := &config.Config{Environment: "production", LogLevel: slog.LevelInfo}

	log, f, err := ToFile(cfg, path)
	require.NoError(t, err)
	log.Info("structured entry")
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))
	assert.True(t, strings.HasPrefix(line, "{"), "production logs should be JSON: %s", line)
	assert.Contains(t, line, `"msg":"structured entry"`)
}

package cli

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerJSONCarriesSession(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.LogJSON = true
	logger, closer := NewLogger(cfg, &buf)
	defer closer.Close()

	logger.Info("hello", "k", 1)
	logger.Debug("hidden")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Len(t, rec["session"], 36)
	assert.NotContains(t, buf.String(), "hidden")
}

func TestLoggerTextLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := Logger(&buf, false, slog.LevelWarn)
	logger.Info("quiet")
	logger.Warn("loud")
	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "msg=loud")
}

func TestLoggerWritesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rimp.log")
	cfg := DefaultConfig()
	cfg.LogFile = path
	var fallback bytes.Buffer
	logger, closer := NewLogger(cfg, &fallback)
	logger.Info("to file")
	require.NoError(t, closer.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "to file")
	assert.Empty(t, fallback.String())
}

func TestDebugOverridesLogLevel(t *testing.T) {
	t.Cleanup(func() { debugEnabled.Store(false) })
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Debug = true
	cfg.LogLevel = slog.LevelInfo
	logger, closer := NewLogger(cfg, &buf)
	defer closer.Close()
	slog.SetDefault(logger)

	debugf("picker unavailable: %d", 7)
	assert.Contains(t, buf.String(), "picker unavailable: 7")
}

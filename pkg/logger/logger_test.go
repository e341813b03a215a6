package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wrangle/pkg/config"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "json", slog.LevelInfo, false)
	require.NoError(t, err)

	l.Debug("hidden")
	l.Info("split", "train", 56)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "split", rec["msg"])
	assert.Equal(t, float64(56), rec["train"])
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "xml", slog.LevelInfo, false)
	assert.Error(t, err)
}

func TestSetupFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "wrangle.log")
	l, closer, err := Setup(config.LogConfig{Level: "debug", Format: "text", Output: "file", FilePath: path})
	require.NoError(t, err)
	l.Debug("dropping column", "column", "poolcnt")
	slog.Info("via default")
	require.NoError(t, closer.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "column=poolcnt")
	assert.Contains(t, string(raw), "via default")
}

func TestSetupErrors(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	_, _, err := Setup(config.LogConfig{Level: "loud"})
	assert.ErrorContains(t, err, "invalid log level")

	_, _, err = Setup(config.LogConfig{Output: "file"})
	assert.ErrorContains(t, err, "log file path is required")

	_, _, err = Setup(config.LogConfig{Output: "syslog"})
	assert.ErrorContains(t, err, "invalid log output")
}

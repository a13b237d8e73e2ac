package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("loud"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestNew_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn")
	log.Info("hidden")
	log.Warn("shown", "k", "v")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown k=v")
}

func TestOpen_AppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tdk.log")

	log, closeFn, err := Open(path, "info")
	require.NoError(t, err)
	log.Info("first")
	require.NoError(t, closeFn())

	log, closeFn, err = Open(path, "info")
	require.NoError(t, err)
	log.Info("second")
	require.NoError(t, closeFn())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "msg=first")
	assert.Contains(t, string(raw), "msg=second")
}

func TestOpen_EmptyPathDiscards(t *testing.T) {
	log, closeFn, err := Open("", "debug")
	require.NoError(t, err)
	log.Info("nowhere")
	assert.NoError(t, closeFn())
}

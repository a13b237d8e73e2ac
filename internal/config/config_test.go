package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("USER", "tester")
	t.Chdir(dir)
	return dir
}

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	cfgDir := filepath.Join(dir, "config", "tdk")
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte(body), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dark", cfg.Theme)
	assert.Equal(t, filepath.Join(dir, "data", "tdk", "tenants.yaml"), cfg.DataFile)
	assert.Equal(t, filepath.Join(dir, "data", "tdk", "state"), cfg.StateDir)
	assert.Equal(t, "tester", cfg.User)
	assert.Equal(t, DefaultRowHeight, cfg.RowHeight)
	assert.Equal(t, DefaultOverscan, cfg.Overscan)
	assert.Equal(t, DefaultSplitPercent, cfg.SplitPercent)
	assert.Equal(t, DefaultPersistDebounce, cfg.PersistDebounce)
	assert.Equal(t, DefaultSearchDebounce, cfg.SearchDebounce)
	assert.Equal(t, DefaultRefreshInterval, cfg.RefreshInterval)
	assert.Equal(t, DefaultCacheTTL, cfg.CacheTTL)
	assert.Equal(t, DefaultKeyBindings(), cfg.Keys)
}

func TestLoad_FileOverrides(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, `
theme: light
data_file: /srv/tenants.json
overscan: 8
persist_debounce: 500ms
refresh_interval: 0s
search_debounce: soon
`)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "light", cfg.Theme)
	assert.Equal(t, "/srv/tenants.json", cfg.DataFile)
	assert.Equal(t, 8, cfg.Overscan)
	assert.Equal(t, 500*time.Millisecond, cfg.PersistDebounce)
	assert.Equal(t, time.Duration(0), cfg.RefreshInterval, "zero disables refresh")
	assert.Equal(t, DefaultSearchDebounce, cfg.SearchDebounce, "malformed duration keeps the default")
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("TDK_USER", "ops")
	t.Setenv("TDK_ROW_HEIGHT", "0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "ops", cfg.User)
	assert.Equal(t, DefaultRowHeight, cfg.RowHeight, "non-positive row height is repaired")
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "theme: [unterminated\n")

	_, err := Load()
	assert.Error(t, err)
}

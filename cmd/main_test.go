package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akashdeep-Patra/tenant-desk/internal/filter"
	"github.com/Akashdeep-Patra/tenant-desk/internal/persist"
	"github.com/Akashdeep-Patra/tenant-desk/internal/workspace"
)

// isolate points config and state at a temp dir and returns the state dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("USER", "tester")
	t.Chdir(dir)
	return filepath.Join(dir, "data", "tdk", "state")
}

func seedView(t *testing.T, stateDir, user, name string) workspace.SavedView {
	t.Helper()
	kv, err := persist.NewFileKV(stateDir)
	require.NoError(t, err)
	f := filter.Default()
	f.WatchlistOnly = true
	v, err := persist.New(kv, user).UpsertSavedView(workspace.SavedView{Name: name, Filters: f, Pinned: true})
	require.NoError(t, err)
	return v
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := buildRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersionJSON(t *testing.T) {
	out, err := execute(t, "version", "--json")
	require.NoError(t, err)

	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, version, info["version"])
	assert.NotEmpty(t, info["go"])
}

func TestViewsListJSON(t *testing.T) {
	stateDir := isolate(t)
	v := seedView(t, stateDir, "tester", "Watchers")

	out, err := execute(t, "views", "list", "--json")
	require.NoError(t, err)

	var list []workspace.SavedView
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 1)
	assert.Equal(t, v.ID, list[0].ID)
	assert.True(t, list[0].Filters.WatchlistOnly)
}

func TestViewsListIsPerUser(t *testing.T) {
	stateDir := isolate(t)
	seedView(t, stateDir, "someone-else", "Theirs")

	out, err := execute(t, "views", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "no saved views")

	out, err = execute(t, "views", "list", "--user", "someone-else")
	require.NoError(t, err)
	assert.Contains(t, out, "Theirs")
}

func TestViewsDeleteByName(t *testing.T) {
	stateDir := isolate(t)
	seedView(t, stateDir, "tester", "Watchers")

	out, err := execute(t, "views", "delete", "watchers")
	require.NoError(t, err)
	assert.Contains(t, out, `Deleted saved view "Watchers"`)

	_, err = execute(t, "views", "delete", "watchers")
	assert.ErrorIs(t, err, persist.ErrNotFound)
}

func TestPrintViewsTable(t *testing.T) {
	var out bytes.Buffer
	views := []workspace.SavedView{{ID: "v1", Name: "Late", Pinned: true, Filters: filter.Default()}}
	require.NoError(t, printViews(&out, views, false))
	assert.Contains(t, out.String(), "NAME")
	assert.Contains(t, out.String(), "Late")
	assert.Contains(t, out.String(), "yes")
}

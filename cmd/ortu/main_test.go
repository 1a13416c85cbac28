package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HendryAvila/ortu/internal/server"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "ortu v"+server.Version+"\n", out)
}

func TestBackupRestoreCommands(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ORTU_DATA_DIR", dir)
	t.Setenv("ORTU_LOG_LEVEL", "error")

	store, _, err := openStore()
	require.NoError(t, err)
	cat := "Git"
	_, err = store.InsertItem("git status", &cat)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	path := filepath.Join(dir, "backup.json")
	out, err := execute(t, "backup", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Backup written to")

	out, err = execute(t, "restore", path, "--mode", "replace")
	require.NoError(t, err)
	assert.Contains(t, out, "Restored (replace): 1 items inserted, 0 merged, 1 groups created")
}

func TestRestoreCommand_InvalidMode(t *testing.T) {
	t.Setenv("ORTU_DATA_DIR", t.TempDir())

	_, err := execute(t, "restore", "whatever.json", "--mode", "append")
	assert.Error(t, err)
	restoreMode = "merge"
}

func TestCleanupCommand(t *testing.T) {
	t.Setenv("ORTU_DATA_DIR", t.TempDir())
	t.Setenv("ORTU_LOG_LEVEL", "error")

	out, err := execute(t, "cleanup")
	require.NoError(t, err)
	assert.Equal(t, "Removed 0 expired items\n", out)
}

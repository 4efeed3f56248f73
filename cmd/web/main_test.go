package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "weekalloc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func runWithConfig(t *testing.T, path string) error {
	t.Helper()
	previous := cfgPath
	cfgPath = path
	t.Cleanup(func() { cfgPath = previous })

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	return runServer(cmd, nil)
}

func TestRunServer_MissingPortReturnsError(t *testing.T) {
	t.Setenv("SERVER_HOST", "")
	t.Setenv("SERVER_PORT", "")
	dir := t.TempDir()

	err := runWithConfig(t, writeConfig(t, `
storage:
  duckdb:
    path: `+filepath.Join(dir, "alloc.db")+`
`))

	assert.EqualError(t, err, "missing server port, set SERVER_PORT or server.port")
}

func TestRunServer_UnreadableProfileFile(t *testing.T) {
	dir := t.TempDir()

	err := runWithConfig(t, writeConfig(t, `
range:
  profile_file: `+filepath.Join(dir, "missing.ini")+`
storage:
  duckdb:
    path: `+filepath.Join(dir, "alloc.db")+`
`))

	assert.ErrorContains(t, err, "failed to load range profiles")
}

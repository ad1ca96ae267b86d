package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "lazydb version dev\n", out)
}

func TestConnectionAddListRemove(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")

	out, err := execute(t, "--config", cfgPath, "connection", "add", "notes", "sqlite:///tmp/notes.db")
	require.NoError(t, err)
	assert.Contains(t, out, "saved notes")

	out, err = execute(t, "--config", cfgPath, "connection", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "notes")
	assert.Contains(t, out, "sqlite:///tmp/notes.db")

	_, err = execute(t, "--config", cfgPath, "connection", "add", "notes", "sqlite:///tmp/other.db")
	assert.Error(t, err, "duplicate name")

	out, err = execute(t, "--config", cfgPath, "conn", "rm", "notes")
	require.NoError(t, err)
	assert.Contains(t, out, "removed notes")

	out, err = execute(t, "--config", cfgPath, "connection", "list")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRejectsBadRates(t *testing.T) {
	_, err := execute(t, "--tick-rate", "0")
	assert.Error(t, err)
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRegistry(t *testing.T, args ...string) (string, error) {
	t.Helper()
	registryPath = ""
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"registry"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRegistryValidate_Embedded(t *testing.T) {
	out, err := runRegistry(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "4 activities")
}

func TestRegistryList(t *testing.T) {
	out, err := runRegistry(t, "list")
	require.NoError(t, err)
	for _, task := range []string{"resolve-interests", "find-overlap", "generate-starters", "conversation-starters"} {
		assert.Contains(t, out, task)
	}
	assert.Contains(t, out, "timeout=1m0s")
}

func TestRegistryValidate_BrokenSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"version": "0.0.1",
		"activities": [{"id": "x", "taskType": "x", "inputSchema": {"type": 12}}]
	}`), 0o600))

	_, err := runRegistry(t, "validate", "--path", path)
	assert.Error(t, err)
}

func TestRegistryShow(t *testing.T) {
	out, err := runRegistry(t, "show", "find-overlap")
	require.NoError(t, err)
	assert.Contains(t, out, `"taskType": "find-overlap"`)

	_, err = runRegistry(t, "show", "build-response")
	assert.Error(t, err)
}

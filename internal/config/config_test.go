package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsZeroValue(t *testing.T) {
	d, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults{}, d)
}

func TestLoadEmptyPathReturnsZeroValue(t *testing.T) {
	d, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults{}, d)
}

func TestLoadParsesFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".lithium.yaml")
	content := "strategy: minimize\nmin: 1\nmax: 1024\nrepeat: last\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "minimize", d.Strategy)
	assert.Equal(t, 1, d.Min)
	assert.Equal(t, 1024, d.Max)
	assert.Equal(t, "last", d.Repeat)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".lithium.yaml")
	require.NoError(t, os.WriteFile(path, []byte("strategy: [unterminated"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

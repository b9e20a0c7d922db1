package testcase

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	content := []byte("a\nb\nc\n")
	path := writeTemp(t, dir, "in.txt", content)

	tc, err := Load(path, LineSplitter{})
	require.NoError(t, err)
	assert.Equal(t, content, tc.Bytes())

	outPath := filepath.Join(dir, "out.txt")
	require.NoError(t, tc.Dump(outPath))

	tc2, err := Load(outPath, LineSplitter{})
	require.NoError(t, err)
	assert.Equal(t, tc.Bytes(), tc2.Bytes())
}

func TestLoadMarkersSplitBeforeAfter(t *testing.T) {
	dir := t.TempDir()
	content := []byte("header\nDDBEGIN\nx\ny\nDDEND\nfooter\n")
	path := writeTemp(t, dir, "in.txt", content)

	tc, err := Load(path, LineSplitter{})
	require.NoError(t, err)

	assert.Equal(t, []byte("header\nDDBEGIN\n"), tc.Before())
	assert.Equal(t, []byte("DDEND\nfooter\n"), tc.After())
	assert.Equal(t, 2, tc.Len())
	assert.Equal(t, content, tc.Bytes())
}

func TestLoadDDEndBeforeDDBeginIsError(t *testing.T) {
	dir := t.TempDir()
	content := []byte("DDEND\nDDBEGIN\nx\n")
	path := writeTemp(t, dir, "in.txt", content)

	_, err := Load(path, LineSplitter{})
	require.Error(t, err)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestLoadDDBeginWithoutDDEndIsError(t *testing.T) {
	dir := t.TempDir()
	content := []byte("DDBEGIN\nx\ny\n")
	path := writeTemp(t, dir, "in.txt", content)

	_, err := Load(path, LineSplitter{})
	require.Error(t, err)
}

func TestWithPartsPreservesBeforeAfter(t *testing.T) {
	dir := t.TempDir()
	content := []byte("DDBEGIN\nx\ny\nz\nDDEND\n")
	path := writeTemp(t, dir, "in.txt", content)

	tc, err := Load(path, LineSplitter{})
	require.NoError(t, err)

	reduced := tc.WithParts(tc.Parts()[:1])
	assert.Equal(t, tc.Before(), reduced.Before())
	assert.Equal(t, tc.After(), reduced.After())
	assert.Equal(t, []byte("DDBEGIN\nx\nDDEND\n"), reduced.Bytes())
}

func TestCloneIsIndependent(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "in.txt", []byte("a\nb\n"))
	tc, err := Load(path, LineSplitter{})
	require.NoError(t, err)

	clone := tc.Clone()
	clone.parts[0].Reducible = false
	assert.True(t, tc.Parts()[0].Reducible)
	assert.False(t, clone.Parts()[0].Reducible)
}

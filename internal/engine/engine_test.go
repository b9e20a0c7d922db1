package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lithium/internal/logging"
	"lithium/internal/oracle"
	"lithium/internal/strategy"
	"lithium/internal/testcase"
)

func TestTempFilenameNumbersSequentially(t *testing.T) {
	e := &Engine{TempDir: "/tmp/lithium-run"}
	first := e.TempFilename("original", true)
	second := e.TempFilename("interesting", true)
	assert.Equal(t, "/tmp/lithium-run/1-original", first)
	assert.Equal(t, "/tmp/lithium-run/2-interesting", second)
}

func TestTempFilenameWithoutNumberIsBare(t *testing.T) {
	e := &Engine{TempDir: "/tmp/lithium-run"}
	assert.Equal(t, "/tmp/lithium-run/reduced.js", e.TempFilename("reduced.js", false))
}

func TestRunDrivesCheckOnlyToCompletion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.txt")
	require.NoError(t, os.WriteFile(path, []byte("x\no\nx\n"), 0o644))
	tc, err := testcase.Load(path, testcase.LineSplitter{})
	require.NoError(t, err)

	o := oracle.Func(func(c []byte) bool { return strings.Contains(string(c), "o\n") })
	tempDir := t.TempDir()

	e := New(tc, strategy.NewCheckOnly(), o, logging.Configure(0, false), tempDir)
	code, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x\no\nx\n", string(content))
}

func TestRunReportsUninterestingOriginal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.txt")
	require.NoError(t, os.WriteFile(path, []byte("x\nx\n"), 0o644))
	tc, err := testcase.Load(path, testcase.LineSplitter{})
	require.NoError(t, err)

	o := oracle.Func(func([]byte) bool { return false })
	e := New(tc, strategy.NewCheckOnly(), o, logging.Configure(0, false), t.TempDir())

	code, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, code)
}

package oracle

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lithium/internal/testcase"
)

func writeTestcase(t *testing.T, content string) *testcase.Testcase {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "case.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	tc, err := testcase.Load(path, testcase.LineSplitter{})
	require.NoError(t, err)
	return tc
}

func TestSubprocessInterestingOnExitZero(t *testing.T) {
	tc := writeTestcase(t, "o\n")
	o := NewSubprocess("true", nil, time.Second)
	ok, err := o.Interesting(context.Background(), tc, true)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSubprocessUninterestingOnNonzeroExit(t *testing.T) {
	tc := writeTestcase(t, "o\n")
	o := NewSubprocess("false", nil, time.Second)
	ok, err := o.Interesting(context.Background(), tc, true)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSubprocessRequiresWriteToDisk(t *testing.T) {
	tc := writeTestcase(t, "o\n")
	o := NewSubprocess("true", nil, time.Second)
	_, err := o.Interesting(context.Background(), tc, false)
	require.Error(t, err)
}

func TestSubprocessTimeoutIsUninteresting(t *testing.T) {
	tc := writeTestcase(t, "o\n")
	o := NewSubprocess("sleep", []string{"5"}, 20*time.Millisecond)
	ok, err := o.Interesting(context.Background(), tc, true)
	require.NoError(t, err)
	assert.False(t, ok)
}

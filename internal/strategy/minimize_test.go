package strategy

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"lithium/internal/logging"
	"lithium/internal/oracle"
	"lithium/internal/testcase"
)

func testNamer(t *testing.T) TempNamer {
	dir := t.TempDir()
	n := 0
	return func(stem string, useNumber bool) string {
		n++
		name := stem
		if name == "" {
			name = "attempt"
		}
		if useNumber {
			name = strconv.Itoa(n) + "-" + name
		}
		return filepath.Join(dir, name)
	}
}

func quietLog() *logging.Logger {
	return logging.Configure(0, false)
}

func loadLines(t *testing.T, content string) *testcase.Testcase {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.js")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	tc, err := testcase.Load(path, testcase.LineSplitter{})
	require.NoError(t, err)
	return tc
}

func TestMinimizeBitMinimizeLine(t *testing.T) {
	tc := loadLines(t, "x\n\nx\nx\no\nx\nx\nx\n")
	o := oracle.Func(func(content []byte) bool {
		return bytes.Contains(content, []byte("o\n"))
	})

	m := NewMinimize()
	require.NoError(t, m.ProcessArgs())

	it, err := m.Reduce(context.Background(), tc, o, testNamer(t), quietLog())
	require.NoError(t, err)
	require.Equal(t, "o\n", string(it.Testcase().Bytes()))
	require.True(t, it.Reduced())
}

func TestMinimizeRespectsNonReducibleParts(t *testing.T) {
	tc := loadLines(t, "a\nb\nc\nd\n")
	parts := tc.Parts()
	parts[1].Reducible = false // "b\n" is pinned
	tc = tc.WithParts(parts)

	o := oracle.Func(func(content []byte) bool {
		return bytes.Contains(content, []byte("b\n"))
	})

	m := NewMinimize()
	require.NoError(t, m.ProcessArgs())

	it, err := m.Reduce(context.Background(), tc, o, testNamer(t), quietLog())
	require.NoError(t, err)
	require.Equal(t, "b\n", string(it.Testcase().Bytes()))
}

func TestMinimizeNoReductionWhenAlreadyMinimal(t *testing.T) {
	tc := loadLines(t, "o\n")
	o := oracle.Func(func(content []byte) bool {
		return bytes.Contains(content, []byte("o\n"))
	})

	m := NewMinimize()
	require.NoError(t, m.ProcessArgs())

	it, err := m.Reduce(context.Background(), tc, o, testNamer(t), quietLog())
	require.NoError(t, err)
	require.False(t, it.Reduced())
	require.Equal(t, "o\n", string(it.Testcase().Bytes()))
}

func TestMinimizeProcessArgsRejectsNonPowerOfTwo(t *testing.T) {
	m := NewMinimize()
	m.min = 3
	require.Error(t, m.ProcessArgs())
}

package testcase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineSplitterBasic(t *testing.T) {
	parts, extra, err := LineSplitter{}.Split([]byte("x\n\nx\nx\no\nx\nx\nx\n"), false)
	require.NoError(t, err)
	assert.Nil(t, extra)
	require.Len(t, parts, 8)
	assert.Equal(t, "x\n", string(parts[0].Data))
	assert.Equal(t, "\n", string(parts[1].Data))
	assert.Equal(t, "o\n", string(parts[4].Data))
}

func TestLineSplitterNoTrailingNewline(t *testing.T) {
	parts, _, err := LineSplitter{}.Split([]byte("a\nb"), false)
	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.Equal(t, "a\n", string(parts[0].Data))
	assert.Equal(t, "b", string(parts[1].Data))
}

func TestLineSplitterEmpty(t *testing.T) {
	parts, _, err := LineSplitter{}.Split(nil, false)
	require.NoError(t, err)
	assert.Empty(t, parts)
}

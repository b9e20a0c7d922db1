package testcase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCharSplitterOneBytePerAtom(t *testing.T) {
	parts, extra, err := CharSplitter{}.Split([]byte("abc"), false)
	require.NoError(t, err)
	assert.Nil(t, extra)
	require.Len(t, parts, 3)
	assert.Equal(t, "a", string(parts[0].Data))
	assert.Equal(t, "c", string(parts[2].Data))
}

func TestCharSplitterMovesTrailingNewlineWithMarkers(t *testing.T) {
	parts, extra, err := CharSplitter{}.Split([]byte("ab\n"), true)
	require.NoError(t, err)
	assert.Equal(t, []byte("\n"), extra)
	require.Len(t, parts, 2)
	assert.Equal(t, "a", string(parts[0].Data))
	assert.Equal(t, "b", string(parts[1].Data))
}

func TestCharSplitterKeepsTrailingNewlineWithoutMarkers(t *testing.T) {
	parts, extra, err := CharSplitter{}.Split([]byte("ab\n"), false)
	require.NoError(t, err)
	assert.Nil(t, extra)
	require.Len(t, parts, 3)
}

func TestCharSplitterEmpty(t *testing.T) {
	parts, extra, err := CharSplitter{}.Split(nil, true)
	require.NoError(t, err)
	assert.Nil(t, extra)
	assert.Empty(t, parts)
}

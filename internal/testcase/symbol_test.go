package testcase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolSplitterDefaults(t *testing.T) {
	s := NewSymbolSplitter(nil, nil)
	parts, extra, err := s.Split([]byte("a=b;c"), false)
	require.NoError(t, err)
	assert.Nil(t, extra)

	var got []string
	for _, p := range parts {
		got = append(got, string(p.Data))
	}
	assert.Equal(t, []string{"a=", "b;", "c"}, got)
}

func TestSymbolSplitterCutBeforeStartsNewToken(t *testing.T) {
	s := NewSymbolSplitter([]byte("]"), []byte(";"))
	parts, _, err := s.Split([]byte("x;y]z"), false)
	require.NoError(t, err)

	var got []string
	for _, p := range parts {
		got = append(got, string(p.Data))
	}
	// "y" stops right before "]" (cut-before lookahead, not consumed by
	// the "y" token but consumed as the start of the next one).
	assert.Equal(t, []string{"x;", "y", "]z"}, got)
}

func TestSymbolSplitterEmpty(t *testing.T) {
	s := NewSymbolSplitter(nil, nil)
	parts, _, err := s.Split(nil, false)
	require.NoError(t, err)
	assert.Empty(t, parts)
}

package strategy

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"lithium/internal/oracle"
)

func TestMinimizeBalancedPairsReducesToMarker(t *testing.T) {
	tc := loadLines(t, "[\n[\nxxx{\no\n}\n]\n]\n")
	o := oracle.Func(func(content []byte) bool {
		if !bytes.Contains(content, []byte("o\n")) {
			return false
		}
		curly := bytes.Count(content, []byte("{")) - bytes.Count(content, []byte("}"))
		square := bytes.Count(content, []byte("[")) - bytes.Count(content, []byte("]"))
		normal := bytes.Count(content, []byte("(")) - bytes.Count(content, []byte(")"))
		return curly == 0 && square == 0 && normal == 0
	})

	m := NewMinimizeBalancedPairs()
	require.NoError(t, m.ProcessArgs())

	it, err := m.Reduce(context.Background(), tc, o, testNamer(t), quietLog())
	require.NoError(t, err)
	require.Equal(t, "o\n", string(it.Testcase().Bytes()))
}

func TestMinimizeBalancedPairsRejectsMismatch(t *testing.T) {
	require.False(t, braceBalance{1, 0, 0}.isZero())
	require.True(t, braceBalance{0, 0, 0}.isZero())
	require.False(t, braceBalance{-1, 0, 0}.nonNegative())
}

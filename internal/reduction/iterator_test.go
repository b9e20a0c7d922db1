package reduction

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lithium/internal/testcase"
)

func load(t *testing.T, content string) *testcase.Testcase {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "in.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	tc, err := testcase.Load(path, testcase.LineSplitter{})
	require.NoError(t, err)
	return tc
}

func TestTryTestcaseSkipsDuplicate(t *testing.T) {
	tc := load(t, "a\nb\nc\n")
	it := New(tc)

	cand1, novel1 := it.TryTestcase(tc.WithParts(tc.Parts()[:2]), "remove c")
	require.True(t, novel1)
	require.NotNil(t, cand1)

	cand2, novel2 := it.TryTestcase(tc.WithParts(tc.Parts()[:2]), "remove c again")
	assert.False(t, novel2)
	assert.Nil(t, cand2)
}

func TestFeedbackAcceptsAndUpdatesBest(t *testing.T) {
	tc := load(t, "a\nb\nc\n")
	it := New(tc)

	candidate := tc.WithParts(tc.Parts()[:2])
	_, novel := it.TryTestcase(candidate, "drop c")
	require.True(t, novel)

	require.NoError(t, it.Feedback(true))
	assert.True(t, it.Reduced())
	assert.Equal(t, candidate, it.Testcase())
}

func TestFeedbackRejectsKeepsBest(t *testing.T) {
	tc := load(t, "a\nb\nc\n")
	it := New(tc)

	candidate := tc.WithParts(tc.Parts()[:2])
	_, novel := it.TryTestcase(candidate, "drop c")
	require.True(t, novel)

	require.NoError(t, it.Feedback(false))
	assert.False(t, it.Reduced())
	assert.Equal(t, tc, it.Testcase())
}

func TestFeedbackWithoutPendingAttemptErrors(t *testing.T) {
	tc := load(t, "a\nb\n")
	it := New(tc)
	err := it.Feedback(true)
	assert.ErrorIs(t, err, ErrNoPendingAttempt)
}

func TestFeedbackTwiceErrors(t *testing.T) {
	tc := load(t, "a\nb\n")
	it := New(tc)
	_, novel := it.TryTestcase(tc.WithParts(tc.Parts()[:1]), "drop b")
	require.True(t, novel)
	require.NoError(t, it.Feedback(true))

	err := it.Feedback(true)
	assert.ErrorIs(t, err, ErrNoPendingAttempt)
}

func TestHashCoversWholeCandidate(t *testing.T) {
	tc := load(t, "a\nb\n")
	it := New(tc)

	same := tc.WithParts(append([]testcase.Part{}, tc.Parts()...))
	_, novel1 := it.TryTestcase(tc, "noop")
	require.True(t, novel1)
	require.NoError(t, it.Feedback(false))

	_, novel2 := it.TryTestcase(same, "byte-identical clone")
	assert.False(t, novel2)
}

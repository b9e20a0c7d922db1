// Package reduction implements ReductionIterator, the stateful cursor a
// Strategy uses to offer candidates to an oracle and record feedback.
package reduction

import (
	"crypto/sha512"
	"encoding/hex"

	"github.com/pkg/errors"
	"lithium/internal/testcase"
)

// ErrNoPendingAttempt is returned by Feedback when no candidate is
// currently awaiting a verdict.
var ErrNoPendingAttempt = errors.New("reduction: feedback with no pending attempt")

// ErrFeedbackAlreadyGiven is returned by Feedback when the pending
// attempt already received a verdict.
var ErrFeedbackAlreadyGiven = errors.New("reduction: feedback already given for pending attempt")

// Iterator tracks the best testcase observed so far, the candidate
// currently offered to the oracle, and a de-duplication cache keyed by
// the SHA-512 hash of a candidate's full byte serialization.
type Iterator struct {
	best        *testcase.Testcase
	current     *testcase.Testcase
	description string
	hasFeedback bool
	lastResult  bool
	anySuccess  bool
	tried       map[string]struct{}
}

// New creates an Iterator seeded with the initial (assumed interesting)
// testcase.
func New(initial *testcase.Testcase) *Iterator {
	return &Iterator{
		best:  initial,
		tried: make(map[string]struct{}),
	}
}

// Testcase returns the current best testcase.
func (it *Iterator) Testcase() *testcase.Testcase { return it.best }

// Reduced reports whether any attempt has ever been accepted.
func (it *Iterator) Reduced() bool { return it.anySuccess }

func hashCandidate(tc *testcase.Testcase) string {
	h := sha512.New()
	h.Write(tc.Before())
	for _, p := range tc.Parts() {
		h.Write(p.Data)
	}
	h.Write(tc.After())
	return hex.EncodeToString(h.Sum(nil))
}

// TryTestcase offers candidate to the oracle unless a byte-identical
// candidate was already offered this run. description is attached for
// logging. It returns the candidate and true if it is novel (a pending
// attempt is now recorded and Feedback must be called exactly once before
// the next TryTestcase/Feedback), or (nil, false) if the candidate was a
// duplicate and should simply be skipped.
func (it *Iterator) TryTestcase(candidate *testcase.Testcase, description string) (*testcase.Testcase, bool) {
	key := hashCandidate(candidate)
	if _, seen := it.tried[key]; seen {
		return nil, false
	}
	it.tried[key] = struct{}{}
	it.current = candidate
	it.description = description
	it.hasFeedback = false
	return candidate, true
}

// Description returns the description passed to the most recent
// TryTestcase call.
func (it *Iterator) Description() string { return it.description }

// Feedback records the oracle's verdict for the pending attempt. On
// success, the attempt becomes the new best testcase. The pending
// attempt is cleared either way.
func (it *Iterator) Feedback(success bool) error {
	if it.current == nil {
		return ErrNoPendingAttempt
	}
	if it.hasFeedback {
		return ErrFeedbackAlreadyGiven
	}
	it.hasFeedback = true
	it.lastResult = success

	if success {
		it.best = it.current
		it.anySuccess = true
	}
	it.current = nil
	return nil
}

// LastFeedback returns the most recent verdict and whether one is
// available (false once a new attempt has started before feedback is
// given).
func (it *Iterator) LastFeedback() (result bool, ok bool) {
	return it.lastResult, it.hasFeedback
}

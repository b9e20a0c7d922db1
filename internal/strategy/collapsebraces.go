package strategy

import (
	"bytes"
	"context"
	"regexp"

	"lithium/internal/logging"
	"lithium/internal/oracle"
	"lithium/internal/reduction"
	"lithium/internal/testcase"
)

// bracesWithOnlyWhitespace matches "{" followed by whitespace-only
// content followed by "}", the collapse target.
var bracesWithOnlyWhitespace = regexp.MustCompile(`\{\s+\}`)

// collapseEmptyBraces runs after a Minimize round, rewriting every
// "{ whitespace }" to "{ }" in one shot. Collapsing first lets the
// next round see the braces on a single line and remove them together.
// It only applies to line-split testcases, since other splitters do not
// produce a reloadable single-line view.
//
// It returns the (possibly unchanged) best testcase to continue from.
func collapseEmptyBraces(ctx context.Context, it *reduction.Iterator, o oracle.Oracle, namer TempNamer, log *logging.Logger) (*testcase.Testcase, error) {
	tc := it.Testcase()
	if tc.Atom() != "line" {
		return tc, nil
	}

	collapsed := bracesWithOnlyWhitespace.ReplaceAll(tc.Bytes(), []byte("{ }"))
	if bytes.Equal(collapsed, tc.Bytes()) {
		return tc, nil
	}

	candidate, err := reloadLineTestcase(tc, collapsed)
	if err != nil {
		return tc, err
	}

	accepted, err := offerCandidate(ctx, it, candidate, "collapse empty braces", o, namer, log)
	if err != nil {
		return tc, err
	}
	if accepted {
		return it.Testcase(), nil
	}
	return tc, nil
}

// reloadLineTestcase re-splits raw content into a fresh line-mode
// Testcase carrying forward tc's before/after and identity, mirroring
// how the original reload happens through the line splitter after the
// on-disk rewrite.
func reloadLineTestcase(tc *testcase.Testcase, raw []byte) (*testcase.Testcase, error) {
	before := tc.Before()
	after := tc.After()
	middle := raw
	if len(before) > 0 && bytes.HasPrefix(middle, before) {
		middle = middle[len(before):]
	}
	if len(after) > 0 && bytes.HasSuffix(middle, after) {
		middle = middle[:len(middle)-len(after)]
	}

	splitter := testcase.LineSplitter{}
	parts, extraAfter, err := splitter.Split(middle, len(before) > 0)
	if err != nil {
		return tc, err
	}
	if len(extraAfter) > 0 {
		after = append(append([]byte{}, extraAfter...), after...)
	}
	return tc.WithParts(parts).WithBeforeAfter(before, after), nil
}

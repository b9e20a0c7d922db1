// Package oracle defines the abstract interestingness callback the core
// consumes, plus a concrete subprocess-backed implementation so the CLI
// is runnable end to end. The subprocess launcher itself (signal/ASan
// classification, make_env) is explicitly out of the reduction engine's
// scope; this package supplies only the minimum needed to drive a
// condition program.
package oracle

import (
	"context"

	"lithium/internal/testcase"
)

// Oracle is the abstract interestingness predicate the reduction core
// consumes. Interesting is called once per candidate; writeToDisk true
// means the candidate has already been dumped to tc.Filename() and the
// oracle should inspect the file, false means the oracle should judge the
// in-memory snapshot directly. strategy.Main passes true for every call,
// the initial check included: it dumps the original to its own file first.
type Oracle interface {
	Init(args []string) error
	Interesting(ctx context.Context, tc *testcase.Testcase, writeToDisk bool) (bool, error)
	Cleanup(args []string) error
}

// Error wraps a failure raised by an Oracle implementation. It is fatal:
// the core treats it as uncaught and aborts the reduction after trying to
// persist the last interesting testcase.
type Error struct {
	Err error
}

func (e *Error) Error() string { return "oracle error: " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

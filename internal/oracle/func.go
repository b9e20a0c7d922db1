package oracle

import (
	"context"

	"lithium/internal/testcase"
)

// Func adapts a plain predicate over a testcase's serialized bytes into
// an Oracle, for use in tests and by callers embedding Lithium as a
// library rather than driving it from a subprocess condition.
type Func func(content []byte) bool

func (Func) Init(args []string) error    { return nil }
func (Func) Cleanup(args []string) error { return nil }

func (f Func) Interesting(_ context.Context, tc *testcase.Testcase, _ bool) (bool, error) {
	return f(tc.Bytes()), nil
}

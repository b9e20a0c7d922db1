// Package engine collects per-run mutable state (temp directory, a
// monotonic file counter) into one owned struct instead of package-level
// globals, and drives a full reduction run end to end.
package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"lithium/internal/logging"
	"lithium/internal/oracle"
	"lithium/internal/strategy"
	"lithium/internal/testcase"
)

// Engine owns everything one reduction run needs: the testcase being
// reduced, the strategy driving the reduction, the oracle it consults,
// the directory intermediate artifacts are written to, and the counter
// that numbers them.
type Engine struct {
	Testcase *testcase.Testcase
	Strategy strategy.Strategy
	Oracle   oracle.Oracle
	Logger   *logging.Logger
	TempDir  string

	counter uint64
}

// New constructs an Engine. tempDir must already exist.
func New(tc *testcase.Testcase, strat strategy.Strategy, o oracle.Oracle, log *logging.Logger, tempDir string) *Engine {
	return &Engine{Testcase: tc, Strategy: strat, Oracle: o, Logger: log, TempDir: tempDir}
}

// TempFilename returns a path inside TempDir for an intermediate
// artifact, prefixed with a monotonic sequence number when useNumber is
// true so files stay distinguishable and ordered (N-original,
// N-did-round-K, N-interesting, N-boring).
func (e *Engine) TempFilename(stem string, useNumber bool) string {
	if !useNumber {
		return filepath.Join(e.TempDir, stem)
	}
	n := atomic.AddUint64(&e.counter, 1)
	name := fmt.Sprintf("%d-%s", n, stem)
	return filepath.Join(e.TempDir, name)
}

// Run executes the full driver sequence against e.Testcase with
// e.Strategy and e.Oracle, and returns the process exit code.
func (e *Engine) Run(ctx context.Context) (int, error) {
	if err := e.Oracle.Init(nil); err != nil {
		return 0, err
	}
	defer e.Oracle.Cleanup(nil)

	namer := strategy.TempNamer(e.TempFilename)
	return strategy.Main(ctx, e.Strategy, e.Testcase, e.Oracle, namer, e.Logger)
}

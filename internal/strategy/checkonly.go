package strategy

import (
	"context"
	"flag"

	"lithium/internal/logging"
	"lithium/internal/oracle"
	"lithium/internal/reduction"
	"lithium/internal/testcase"
)

// CheckOnly is the degenerate strategy: it adds no flags and performs no
// reduction. Main already dumps the original testcase and consults the
// oracle once before calling Reduce, which is the entirety of
// check-only's job, so Reduce here simply hands back an iterator seeded
// with the unchanged input.
type CheckOnly struct{}

// NewCheckOnly constructs a CheckOnly strategy.
func NewCheckOnly() *CheckOnly { return &CheckOnly{} }

func (c *CheckOnly) Name() string { return "check-only" }

func (c *CheckOnly) AddArgs(fs *flag.FlagSet) {}

func (c *CheckOnly) ProcessArgs() error { return nil }

func (c *CheckOnly) Reduce(ctx context.Context, tc *testcase.Testcase, o oracle.Oracle, namer TempNamer, log *logging.Logger) (*reduction.Iterator, error) {
	return reduction.New(tc), nil
}

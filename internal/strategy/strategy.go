// Package strategy implements the Strategy abstraction and the six
// concrete reduction strategies: check-only, minimize, minimize-around,
// minimize-balanced, replace-properties-by-globals,
// replace-arguments-by-globals, and collapse-empty-braces.
//
// A Strategy is a declarative set of CLI options plus a single Reduce
// method that walks its own candidates, calling the oracle and recording
// feedback through a reduction.Iterator as it goes, rather than yielding
// candidates to a separate drive loop. The package-level Main function
// performs the steps that surround every strategy's walk (dump the
// original testcase, check it is interesting, dump the final testcase,
// print the summary) — this is where check-only's "skip the loop"
// behavior falls out for free: its Reduce is a no-op, so Main's generic
// surrounding steps are its entire implementation.
package strategy

import (
	"context"
	"flag"

	"lithium/internal/logging"
	"lithium/internal/oracle"
	"lithium/internal/reduction"
	"lithium/internal/testcase"
)

// TempNamer returns a path for an intermediate artifact, prefixed with a
// monotonic sequence number when useNumber is true.
type TempNamer func(stem string, useNumber bool) string

// Strategy is a reduction algorithm: a declarative set of CLI flags plus
// the walk that produces smaller testcases.
type Strategy interface {
	// Name is the --strategy value that selects this Strategy.
	Name() string
	// AddArgs registers this strategy's flags on fs. Called only for the
	// strategy actually selected, so flag names may overlap across
	// strategies (e.g. --repeat belongs to five of them).
	AddArgs(fs *flag.FlagSet)
	// ProcessArgs validates the parsed flag values, returning a
	// ConfigError for anything invalid.
	ProcessArgs() error
	// Reduce drives the full reduction walk against tc, offering
	// candidates to o and recording verdicts, and returns the iterator
	// holding the best testcase found.
	Reduce(ctx context.Context, tc *testcase.Testcase, o oracle.Oracle, namer TempNamer, log *logging.Logger) (*reduction.Iterator, error)
}

// Registry maps a --strategy name to a constructor for a fresh Strategy
// instance (strategies carry parsed-flag state, so each run needs its
// own).
type Registry map[string]func() Strategy

// NewRegistry returns the registry of every --strategy value the CLI
// accepts. collapseEmptyBraces is not in this list: it is a post-round
// hook that Minimize invokes automatically on line-split testcases, not
// a strategy selectable on its own.
func NewRegistry() Registry {
	return Registry{
		"check-only":                    func() Strategy { return NewCheckOnly() },
		"minimize":                      func() Strategy { return NewMinimize() },
		"minimize-around":               func() Strategy { return NewMinimizeSurroundingPairs() },
		"minimize-balanced":             func() Strategy { return NewMinimizeBalancedPairs() },
		"replace-properties-by-globals": func() Strategy { return NewReplacePropertiesByGlobals() },
		"replace-arguments-by-globals":  func() Strategy { return NewReplaceArgumentsByGlobals() },
	}
}

// DefaultStrategyName is used when --strategy is not given.
const DefaultStrategyName = "minimize"

// ConfigError reports an invalid strategy flag value from ProcessArgs: a
// non-power-of-two --min/--max/--chunk-size, --max below --min, or an
// unrecognized --repeat value. It is fatal and maps to exit code 2 at the
// CLI boundary. An unknown --strategy name or a missing testcase argument
// is reported by cmd/lithium directly, with the same exit code.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return e.Err.Error() }
func (e *ConfigError) Unwrap() error { return e.Err }

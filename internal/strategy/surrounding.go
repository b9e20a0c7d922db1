package strategy

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"lithium/internal/logging"
	"lithium/internal/oracle"
	"lithium/internal/reduction"
	"lithium/internal/testcase"
	"lithium/internal/util"
)

// MinimizeSurroundingPairs walks a "keep" chunk across the testcase and,
// for each position, repeatedly tries to remove the chunks immediately
// before and after it together. Removing two chunks that the kept chunk
// separates (rather than one contiguous run)
// is how this strategy finds reductions Minimize's single-chunk removal
// cannot: e.g. a pair of matching chunks that must disappear together to
// keep some property of the file (a balance, a symmetry) intact.
type MinimizeSurroundingPairs struct {
	repeat     string
	maxRunTime time.Duration
}

func NewMinimizeSurroundingPairs() *MinimizeSurroundingPairs {
	return &MinimizeSurroundingPairs{repeat: "last"}
}

func (m *MinimizeSurroundingPairs) Name() string { return "minimize-around" }

func (m *MinimizeSurroundingPairs) AddArgs(fs *flag.FlagSet) {
	fs.StringVar(&m.repeat, "repeat", "last", "round repeat policy: always, last, or never")
	fs.DurationVar(&m.maxRunTime, "max-run-time", 0, "stop after this much wall-clock time and report a partial reduction")
}

func (m *MinimizeSurroundingPairs) ProcessArgs() error {
	switch m.repeat {
	case "always", "last", "never":
	default:
		return &ConfigError{Err: errors.Errorf("--repeat must be always, last, or never, got %q", m.repeat)}
	}
	return nil
}

func (m *MinimizeSurroundingPairs) Reduce(ctx context.Context, tc *testcase.Testcase, o oracle.Oracle, namer TempNamer, log *logging.Logger) (*reduction.Iterator, error) {
	it := reduction.New(tc)

	var deadline time.Time
	hasDeadline := m.maxRunTime > 0
	if hasDeadline {
		deadline = time.Now().Add(m.maxRunTime)
	}

	chunkSize := util.LargestPowerOfTwoSmallerThan(it.Testcase().Len())

	for {
		if hasDeadline && time.Now().After(deadline) {
			log.Note("minimize-around: max-run-time elapsed, please perform another pass")
			return it, nil
		}

		anyRemoved, err := m.onePass(ctx, it, chunkSize, o, namer, log, hasDeadline, deadline)
		if err != nil {
			return it, err
		}

		last := chunkSize <= 1

		// "always" repeats at this chunk size whenever it made progress;
		// "last" only does so once chunk size has bottomed out; "never"
		// always moves straight on to the next smaller size (or stops).
		if anyRemoved && (m.repeat == "always" || (m.repeat == "last" && last)) {
			continue
		}
		if last {
			break
		}
		chunkSize /= 2
	}

	return it, nil
}

// onePass walks every "keep" chunk position at the given chunkSize once,
// trying to strip its surrounding pair repeatedly at each position.
func (m *MinimizeSurroundingPairs) onePass(ctx context.Context, it *reduction.Iterator, chunkSize int, o oracle.Oracle, namer TempNamer, log *logging.Logger, hasDeadline bool, deadline time.Time) (bool, error) {
	anyRemoved := false
	keepStart := 0

	for keepStart < it.Testcase().Len() {
		if hasDeadline && time.Now().After(deadline) {
			return anyRemoved, nil
		}

		current := it.Testcase()
		keepEnd := keepStart + chunkSize
		if keepEnd > current.Len() {
			keepEnd = current.Len()
		}

		for {
			current = it.Testcase()
			beforeEnd := keepStart
			beforeStart := beforeEnd - chunkSize
			if beforeStart < 0 {
				beforeStart = 0
			}
			afterStart := keepEnd
			afterEnd := afterStart + chunkSize
			if afterEnd > current.Len() {
				afterEnd = current.Len()
			}

			if beforeStart == beforeEnd && afterStart == afterEnd {
				break
			}

			candidate, removed := current.WithRangesRemoved([][2]int{{beforeStart, beforeEnd}, {afterStart, afterEnd}})
			if removed == 0 {
				break
			}

			description := fmt.Sprintf("remove %s surrounding %d-%d (pair at %d-%d, %d-%d)",
				current.Atom(), keepStart, keepEnd, beforeStart, beforeEnd, afterStart, afterEnd)
			accepted, err := offerCandidate(ctx, it, candidate, description, o, namer, log)
			if err != nil {
				return anyRemoved, err
			}
			if !accepted {
				break
			}

			anyRemoved = true
			keepStart -= beforeEnd - beforeStart
			keepEnd -= beforeEnd - beforeStart
		}

		keepStart = keepEnd
	}

	return anyRemoved, nil
}

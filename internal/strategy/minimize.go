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

// Minimize is classical delta-debugging with a power-of-two chunk
// schedule: it walks the testcase right-to-left, removing
// progressively smaller chunks, and optionally repeats finished rounds
// to catch reductions that only become possible once other content is
// already gone.
type Minimize struct {
	min              int
	max              int
	repeat           string
	repeatFirstRound bool
	chunkSize        int
	maxRunTime       time.Duration
}

// NewMinimize constructs a Minimize strategy with the same defaults AddArgs
// registers (--min 1, --repeat last, no --max); call ProcessArgs after
// AddArgs/flag.Parse to validate the parsed values.
func NewMinimize() *Minimize {
	return &Minimize{min: 1, repeat: "last"}
}

func (m *Minimize) Name() string { return "minimize" }

func (m *Minimize) AddArgs(fs *flag.FlagSet) {
	fs.IntVar(&m.min, "min", 1, "minimum chunk size, must be a power of two")
	fs.IntVar(&m.max, "max", 0, "maximum chunk size, must be a power of two (0 = unbounded)")
	fs.StringVar(&m.repeat, "repeat", "last", "round repeat policy: always, last, or never")
	fs.BoolVar(&m.repeatFirstRound, "repeat-first-round", false, "repeat the first (largest chunk) round too")
	fs.IntVar(&m.chunkSize, "chunk-size", 0, "force the initial chunk size instead of deriving it (power of two)")
	fs.DurationVar(&m.maxRunTime, "max-run-time", 0, "stop after this much wall-clock time and report a partial reduction")
}

func (m *Minimize) ProcessArgs() error {
	if !util.IsPowerOfTwo(m.min) {
		return &ConfigError{Err: errors.Errorf("--min must be a power of two, got %d", m.min)}
	}
	if m.max != 0 && !util.IsPowerOfTwo(m.max) {
		return &ConfigError{Err: errors.Errorf("--max must be a power of two, got %d", m.max)}
	}
	if m.max != 0 && m.max < m.min {
		return &ConfigError{Err: errors.Errorf("--max (%d) must be >= --min (%d)", m.max, m.min)}
	}
	if m.chunkSize != 0 && !util.IsPowerOfTwo(m.chunkSize) {
		return &ConfigError{Err: errors.Errorf("--chunk-size must be a power of two, got %d", m.chunkSize)}
	}
	switch m.repeat {
	case "always", "last", "never":
	default:
		return &ConfigError{Err: errors.Errorf("--repeat must be always, last, or never, got %q", m.repeat)}
	}
	return nil
}

func (m *Minimize) Reduce(ctx context.Context, tc *testcase.Testcase, o oracle.Oracle, namer TempNamer, log *logging.Logger) (*reduction.Iterator, error) {
	it := reduction.New(tc)

	var deadline time.Time
	hasDeadline := m.maxRunTime > 0
	if hasDeadline {
		deadline = time.Now().Add(m.maxRunTime)
	}

	chunkSize := util.LargestPowerOfTwoSmallerThan(tc.Len())
	if m.chunkSize != 0 {
		chunkSize = m.chunkSize
	}
	if m.max != 0 && chunkSize > m.max {
		chunkSize = m.max
	}
	if chunkSize < 1 {
		chunkSize = 1
	}
	chunkEnd := tc.Len()
	removedChunksThisRound := m.repeatFirstRound
	anyRemovedAtMinSize := false

	for {
		if hasDeadline && time.Now().After(deadline) {
			log.Note("minimize: max-run-time elapsed, please perform another pass")
			break
		}

		if chunkEnd-chunkSize < 0 {
			current := it.Testcase()
			if current.Len() == 0 {
				break
			}

			next, err := collapseEmptyBraces(ctx, it, o, namer, log)
			if err != nil {
				return it, err
			}
			current = next

			if chunkSize <= m.min {
				anyRemovedAtMinSize = removedChunksThisRound
				if removedChunksThisRound && (m.repeat == "always" || m.repeat == "last") {
					chunkEnd = current.Len()
					removedChunksThisRound = false
					continue
				}
				break
			} else if removedChunksThisRound && m.repeat == "always" && chunkSize < current.Len() {
				chunkEnd = current.Len()
				removedChunksThisRound = false
				continue
			}

			chunkSize /= 2
			if chunkSize < 1 {
				chunkSize = 1
			}
			if chunkSize < m.min {
				chunkSize = m.min
			}
			chunkEnd = current.Len()
			removedChunksThisRound = false
			continue
		}

		current := it.Testcase()
		chunkStart := chunkEnd - chunkSize
		if chunkStart < 0 {
			chunkStart = 0
		}

		candidate, removed := current.WithRangeRemoved(chunkStart, chunkEnd)
		accepted := false
		if removed > 0 {
			description := fmt.Sprintf("remove %s at %d-%d (of %d)", current.Atom(), chunkStart, chunkEnd, current.Len())
			ok, err := offerCandidate(ctx, it, candidate, description, o, namer, log)
			if err != nil {
				return it, err
			}
			accepted = ok
		}

		if accepted {
			removedChunksThisRound = true
			chunkEnd = chunkStart
		} else if chunkSize <= 2 {
			chunkEnd--
		} else {
			chunkEnd -= chunkSize
		}
	}

	if chunkSize == 1 && !anyRemovedAtMinSize && m.repeat != "never" {
		log.Note("the testcase appears to be 1-minimal under the minimize strategy")
	}

	return it, nil
}

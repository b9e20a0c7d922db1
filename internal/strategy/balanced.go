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

// MinimizeBalancedPairs is MinimizeSurroundingPairs restricted to pairs
// that keep `{}`, `[]`, and `()` in balance: a left chunk that is
// already balanced on its own can simply be removed; an unbalanced left
// chunk needs a matching right chunk further on where the running
// imbalance returns to zero in all three bracket kinds without ever
// going negative. Only such pairs are offered to the oracle, so every
// accepted removal keeps the file's brace/bracket/paren structure sound.
type MinimizeBalancedPairs struct {
	repeat             string
	withExperimentalMove bool
	maxRunTime         time.Duration
}

func NewMinimizeBalancedPairs() *MinimizeBalancedPairs {
	return &MinimizeBalancedPairs{repeat: "last"}
}

func (m *MinimizeBalancedPairs) Name() string { return "minimize-balanced" }

func (m *MinimizeBalancedPairs) AddArgs(fs *flag.FlagSet) {
	fs.StringVar(&m.repeat, "repeat", "last", "round repeat policy: always, last, or never")
	fs.BoolVar(&m.withExperimentalMove, "with-experimental-move", false, "additionally try relocating a balanced interior chunk around a rejected pair (may not converge)")
	fs.DurationVar(&m.maxRunTime, "max-run-time", 0, "stop after this much wall-clock time and report a partial reduction")
}

func (m *MinimizeBalancedPairs) ProcessArgs() error {
	switch m.repeat {
	case "always", "last", "never":
	default:
		return &ConfigError{Err: errors.Errorf("--repeat must be always, last, or never, got %q", m.repeat)}
	}
	return nil
}

type braceBalance struct {
	curly, square, normal int
}

func (b braceBalance) isZero() bool { return b.curly == 0 && b.square == 0 && b.normal == 0 }

func (b braceBalance) nonNegative() bool { return b.curly >= 0 && b.square >= 0 && b.normal >= 0 }

func (b braceBalance) add(o braceBalance) braceBalance {
	return braceBalance{b.curly + o.curly, b.square + o.square, b.normal + o.normal}
}

func balanceOfParts(parts []testcase.Part) braceBalance {
	var b braceBalance
	for _, p := range parts {
		for _, c := range p.Data {
			switch c {
			case '{':
				b.curly++
			case '}':
				b.curly--
			case '[':
				b.square++
			case ']':
				b.square--
			case '(':
				b.normal++
			case ')':
				b.normal--
			}
		}
	}
	return b
}

func chunkRemovable(parts []testcase.Part, start, end int) bool {
	for _, p := range parts[start:end] {
		if !p.Reducible {
			return false
		}
	}
	return true
}

func (m *MinimizeBalancedPairs) Reduce(ctx context.Context, tc *testcase.Testcase, o oracle.Oracle, namer TempNamer, log *logging.Logger) (*reduction.Iterator, error) {
	it := reduction.New(tc)

	var deadline time.Time
	hasDeadline := m.maxRunTime > 0
	if hasDeadline {
		deadline = time.Now().Add(m.maxRunTime)
	}

	chunkSize := util.LargestPowerOfTwoSmallerThan(it.Testcase().Len())

	for {
		if hasDeadline && time.Now().After(deadline) {
			log.Note("minimize-balanced: max-run-time elapsed, please perform another pass")
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

func (m *MinimizeBalancedPairs) onePass(ctx context.Context, it *reduction.Iterator, chunkSize int, o oracle.Oracle, namer TempNamer, log *logging.Logger, hasDeadline bool, deadline time.Time) (bool, error) {
	anyRemoved := false
	start := 0

	for {
		current := it.Testcase()
		parts := current.Parts()
		if start >= len(parts) {
			break
		}
		if hasDeadline && time.Now().After(deadline) {
			break
		}

		lEnd := start + chunkSize
		if lEnd > len(parts) {
			lEnd = len(parts)
		}
		lBalance := balanceOfParts(parts[start:lEnd])

		if lBalance.isZero() {
			if chunkRemovable(parts, start, lEnd) {
				candidate, removedCount := current.WithRangeRemoved(start, lEnd)
				if removedCount > 0 {
					description := fmt.Sprintf("remove balanced %s at %d-%d", current.Atom(), start, lEnd)
					accepted, err := offerCandidate(ctx, it, candidate, description, o, namer, log)
					if err != nil {
						return anyRemoved, err
					}
					if accepted {
						anyRemoved = true
						continue // re-examine the content that slid into this position
					}
				}
			}
			start += chunkSize
			continue
		}

		if !chunkRemovable(parts, start, lEnd) {
			start += chunkSize
			continue
		}

		running := lBalance
		rStart := lEnd
		found := false
		for rStart < len(parts) {
			rEnd := rStart + chunkSize
			if rEnd > len(parts) {
				rEnd = len(parts)
			}
			running = running.add(balanceOfParts(parts[rStart:rEnd]))
			if !running.nonNegative() {
				break
			}
			if running.isZero() {
				found = true
				break
			}
			rStart = rEnd
		}

		if !found {
			start += chunkSize
			continue
		}

		rEnd := rStart + chunkSize
		if rEnd > len(parts) {
			rEnd = len(parts)
		}
		if !chunkRemovable(parts, rStart, rEnd) {
			start += chunkSize
			continue
		}

		description := fmt.Sprintf("remove balanced %s pair %d-%d/%d-%d", current.Atom(), start, lEnd, rStart, rEnd)
		candidate, removedCount := current.WithRangesRemoved([][2]int{{start, lEnd}, {rStart, rEnd}})
		accepted := false
		if removedCount > 0 {
			var err error
			accepted, err = offerCandidate(ctx, it, candidate, description, o, namer, log)
			if err != nil {
				return anyRemoved, err
			}
		}

		if accepted {
			anyRemoved = true
			continue
		}

		if m.withExperimentalMove && lEnd < rStart {
			moved, err := m.tryRelocateInterior(ctx, it, parts, start, lEnd, rStart, rEnd, o, namer, log)
			if err != nil {
				return anyRemoved, err
			}
			if moved {
				anyRemoved = true
				continue
			}
		}

		start += chunkSize
	}

	return anyRemoved, nil
}

// tryRelocateInterior implements the experimental move: for each
// internally-balanced chunk between a rejected pair, try splicing it in
// just after the right chunk, then just before the left chunk.
func (m *MinimizeBalancedPairs) tryRelocateInterior(ctx context.Context, it *reduction.Iterator, parts []testcase.Part, lStart, lEnd, rStart, rEnd int, o oracle.Oracle, namer TempNamer, log *logging.Logger) (bool, error) {
	for kStart := lEnd; kStart < rStart; {
		kEnd := kStart
		interiorBalance := braceBalance{}
		for kEnd < rStart {
			kEnd++
			interiorBalance = interiorBalance.add(balanceOfParts(parts[kEnd-1 : kEnd]))
			if interiorBalance.isZero() {
				break
			}
		}
		if !interiorBalance.isZero() || !chunkRemovable(parts, kStart, kEnd) {
			kStart++
			continue
		}

		for _, after := range []bool{true, false} {
			relocated := relocateChunk(parts, lStart, lEnd, kStart, kEnd, rStart, rEnd, after)
			candidate := it.Testcase().WithParts(relocated)
			description := fmt.Sprintf("relocate balanced chunk %d-%d around pair %d-%d/%d-%d", kStart, kEnd, lStart, lEnd, rStart, rEnd)
			accepted, err := offerCandidate(ctx, it, candidate, description, o, namer, log)
			if err != nil {
				return false, err
			}
			if accepted {
				return true, nil
			}
		}
		kStart = kEnd
	}
	return false, nil
}

// relocateChunk keeps the L and R ranges in place and moves the K range
// out from between them, splicing it in either immediately after R or
// immediately before L.
func relocateChunk(parts []testcase.Part, lStart, lEnd, kStart, kEnd, rStart, rEnd int, after bool) []testcase.Part {
	k := append([]testcase.Part{}, parts[kStart:kEnd]...)
	middle := append(append([]testcase.Part{}, parts[lEnd:kStart]...), parts[kEnd:rStart]...)

	out := make([]testcase.Part, 0, len(parts))
	out = append(out, parts[:lStart]...)
	if !after {
		out = append(out, k...)
	}
	out = append(out, parts[lStart:lEnd]...)
	out = append(out, middle...)
	out = append(out, parts[rStart:rEnd]...)
	if after {
		out = append(out, k...)
	}
	out = append(out, parts[rEnd:]...)
	return out
}

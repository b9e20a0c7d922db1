package strategy

import (
	"context"

	"lithium/internal/logging"
	"lithium/internal/oracle"
	"lithium/internal/reduction"
	"lithium/internal/testcase"
)

// Main drives one full run: dump the original testcase, confirm it is
// interesting, run the selected strategy's reduction walk, dump the
// result, and print the summary. It returns the process exit code.
func Main(ctx context.Context, s Strategy, tc *testcase.Testcase, o oracle.Oracle, namer TempNamer, log *logging.Logger) (int, error) {
	original := tc.WithFilename(namer("original", true))
	if err := original.Dump(original.Filename()); err != nil {
		return 0, err
	}

	if tc.Len() == 0 {
		log.Note("the testcase is empty, nothing to reduce")
		return 0, nil
	}

	interesting, err := o.Interesting(ctx, original, true)
	if err != nil {
		return 0, err
	}
	if !interesting {
		log.Note("the original testcase is not interesting")
		return 1, nil
	}

	it, err := s.Reduce(ctx, tc, o, namer, log)
	if err != nil {
		return 0, err
	}

	final := it.Testcase().WithFilename(tc.Filename())
	if err := final.Dump(final.Filename()); err != nil {
		return 0, err
	}
	log.Summary(tc.Size(), final.Size(), it.Reduced())
	return 0, nil
}

// offerCandidate submits candidate to it, dumping it to disk and
// consulting o only if it is novel (not a duplicate of a previously
// tried candidate). An accepted candidate is also written back to its own
// filename. It logs the attempt and its verdict; every strategy shares
// this same submit-and-log sequence.
func offerCandidate(ctx context.Context, it *reduction.Iterator, candidate *testcase.Testcase, description string, o oracle.Oracle, namer TempNamer, log *logging.Logger) (bool, error) {
	_, novel := it.TryTestcase(candidate, description)
	if !novel {
		return false, nil
	}

	dumped := candidate.WithFilename(namer("", true))
	if err := dumped.Dump(dumped.Filename()); err != nil {
		return false, err
	}

	log.Attempting(description)
	interesting, err := o.Interesting(ctx, dumped, true)
	if err != nil {
		return false, err
	}
	if err := it.Feedback(interesting); err != nil {
		return false, err
	}
	if interesting {
		// Write the new best testcase back to its own file, so an abort
		// later in the run still leaves the last interesting version.
		if err := candidate.Dump(candidate.Filename()); err != nil {
			return false, err
		}
		log.Success(description)
	} else {
		log.Failure(description)
	}
	return interesting, nil
}

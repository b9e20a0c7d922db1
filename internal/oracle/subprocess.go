package oracle

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"github.com/pkg/errors"
	"lithium/internal/testcase"
)

// DefaultTimeout bounds how long a single condition invocation may run
// before it is treated as uninteresting and killed.
const DefaultTimeout = 120 * time.Second

// Subprocess drives an external "condition" program: `condition
// [condition-args...] testcase-path`. Exit code 0 means interesting; any
// other exit (including death by timeout) means not interesting.
type Subprocess struct {
	Condition     string
	ConditionArgs []string
	Timeout       time.Duration
}

// NewSubprocess builds a Subprocess oracle. If timeout is zero,
// DefaultTimeout is used.
func NewSubprocess(condition string, args []string, timeout time.Duration) *Subprocess {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Subprocess{Condition: condition, ConditionArgs: args, Timeout: timeout}
}

func (s *Subprocess) Init(args []string) error    { return nil }
func (s *Subprocess) Cleanup(args []string) error { return nil }

// Interesting runs the condition program against tc.Filename(). It
// requires writeToDisk: the condition program only ever reads from disk,
// never from an in-memory snapshot, matching every condition script in
// original_source/interestingness/.
func (s *Subprocess) Interesting(ctx context.Context, tc *testcase.Testcase, writeToDisk bool) (bool, error) {
	if !writeToDisk {
		return false, &Error{Err: errors.New("subprocess oracle requires writeToDisk")}
	}

	runCtx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	args := append(append([]string{}, s.ConditionArgs...), tc.Filename())
	cmd := exec.CommandContext(runCtx, s.Condition, args...)
	setProcessGroup(cmd)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if runCtx.Err() == context.DeadlineExceeded {
		killProcessGroup(cmd)
		return false, nil
	}
	if err == nil {
		return true, nil
	}
	if _, isExit := err.(*exec.ExitError); isExit {
		return false, nil
	}
	return false, &Error{Err: errors.Wrapf(err, "running condition %q: %s", s.Condition, stderr.String())}
}

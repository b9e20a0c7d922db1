package testcase

import "github.com/pkg/errors"

// LoadError reports a malformed DDBEGIN/DDEND marker pair. It is fatal to
// the run that produced it (exit code 1 at the CLI boundary).
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return errors.Wrapf(e.Err, "failed to load testcase %q", e.Path).Error()
}

func (e *LoadError) Unwrap() error { return e.Err }

func newLoadError(path string, msg string) *LoadError {
	return &LoadError{Path: path, Err: errors.New(msg)}
}

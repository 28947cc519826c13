package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrNoNews is the cause when neither the query nor the fallback found news
	ErrNoNews = errors.New("no news found")

	// ErrTimeout is the cause when a run exceeds its wall-clock budget
	ErrTimeout = errors.New("blog generation timed out")

	// ErrCancelled is the cause when the caller cancelled the run
	ErrCancelled = errors.New("blog generation cancelled")
)

// Failure is the only error type returned by Run. State is the stage that
// was active when the run failed.
type Failure struct {
	State  State
	Reason string
	Err    error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("blog generation failed during %s: %s", f.State, f.Reason)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

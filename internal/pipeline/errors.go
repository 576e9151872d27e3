package pipeline

import (
	"errors"
	"fmt"
)

// ErrJobNotFound is returned for status or cancel calls on ids the
// store no longer (or never did) hold.
var ErrJobNotFound = errors.New("job not found")

// ValidationError rejects a submission before any job is created.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid submission: %s", e.Message)
}

// StageError marks a failure of one stage for one slide. It is caught
// at the slide boundary; sibling slides still process.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

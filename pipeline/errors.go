package pipeline

import (
	"errors"
	"fmt"
)

// ErrLinkOrderViolation is returned when a library is linked into a contract that is already
// deployed.
var ErrLinkOrderViolation = errors.New("link order violation")

// StepError reports the step a pipeline halted at.
type StepError struct {
	Index int
	ID    string
	Kind  Kind
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s %s): %v", e.Index, e.Kind, e.ID, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

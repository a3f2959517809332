package dynamo

import "errors"

// Domain errors for model lifecycle operations.
var (
	// ErrModelState indicates an operation was called before its prerequisites.
	ErrModelState = errors.New("dynamo: model state incompatible with the action")

	// ErrNotOneDimensional indicates drivers that are not a plain series.
	ErrNotOneDimensional = errors.New("dynamo: erf must be one-dimensional")

	// ErrDiverged indicates a step produced a non-finite state.
	ErrDiverged = errors.New("dynamo: state is no longer finite")
)

// StepError wraps a failure with the step at which it happened.
type StepError struct {
	Step    int
	Wrapped error
}

func (e *StepError) Error() string {
	return e.Wrapped.Error()
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}

package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidConfiguration indicates a parameter outside its valid range.
	// It is raised before any step executes.
	ErrInvalidConfiguration = errors.New("dynamo: invalid configuration")

	// ErrNumericalDivergence indicates the solver could not converge on a step.
	ErrNumericalDivergence = errors.New("dynamo: numerical divergence")

	// ErrInvalidState indicates a state vector with NaN or Inf values.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrStepTooSmall indicates adaptive timestep fell below the minimum.
	ErrStepTooSmall = errors.New("dynamo: adaptive timestep below minimum")

	// ErrStepRejected is returned by an adaptive integrator when the local
	// error estimate exceeds the tolerance. The step must be retried.
	ErrStepRejected = errors.New("dynamo: step rejected")

	// ErrStall indicates repeated steps that did not advance time.
	ErrStall = errors.New("dynamo: integration stalled")

	// ErrDimensionMismatch indicates mismatched state dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")
)

// SimulationError wraps an error with simulation context. State holds the
// last successfully committed state, not the one that failed.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.6g): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}

// Invalid returns an error wrapping ErrInvalidConfiguration.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}

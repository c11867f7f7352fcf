// Package dynamo provides the numerical primitives shared by the reactor
// network: state vectors, right-hand-side systems and steppers.
//
//   - [State]: flat vector of integrated quantities
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator]: fixed-step numerical integrator
//   - [AdaptiveIntegrator]: error-controlled integrator that proposes
//     its next step size
//   - [Config]: step-size and horizon settings for a run
//
// # Errors
//
// All failures raised while validating or stepping a system wrap one of
// the sentinel errors in this package, so callers can use [errors.Is]:
//
//	if errors.Is(err, dynamo.ErrNumericalDivergence) {
//	    var simErr *dynamo.SimulationError
//	    errors.As(err, &simErr)
//	}
//
// # Thread Safety
//
// Nothing in this package is safe for concurrent mutation. A run is owned
// by exactly one goroutine.
package dynamo

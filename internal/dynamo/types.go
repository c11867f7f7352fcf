package dynamo

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Add returns s + other. Extra entries in s are carried over unchanged.
func (s State) Add(other State) State {
	result := s.Clone()
	n := min(len(s), len(other))
	floats.Add(result[:n], other[:n])
	return result
}

func (s State) Sub(other State) State {
	result := s.Clone()
	n := min(len(s), len(other))
	floats.Sub(result[:n], other[:n])
	return result
}

func (s State) Scale(factor float64) State {
	result := s.Clone()
	floats.Scale(factor, result)
	return result
}

// NaNState returns a vector of n NaNs. Systems return it from Derive when
// asked to evaluate a non-physical state, which integrators then reject.
func NaNState(n int) State {
	s := make(State, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}

type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

type Integrator interface {
	Step(dyn System, x State, t float64, dt float64) State
}

// AdaptiveIntegrator takes one error-controlled step. On success it returns
// the new state and the proposed next step size. When the local error is
// too large it returns ErrStepRejected together with a smaller step size to
// retry with.
type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(dyn System, x State, t, dt, tol float64) (State, float64, error)
}

type Config struct {
	Dt        float64
	Horizon   float64
	Tolerance float64
	MinDt     float64
	MaxDt     float64
	MaxSteps  int
	// StallLimit is the number of consecutive non-advancing steps tolerated
	// before the run fails with ErrStall.
	StallLimit int
}

func DefaultConfig() Config {
	return Config{
		Dt:         1e-6,
		Horizon:    0.01,
		Tolerance:  1e-6,
		MinDt:      1e-14,
		MaxDt:      1e-4,
		MaxSteps:   1000000,
		StallLimit: 3,
	}
}

func (c Config) Validate() error {
	if !positive(c.Horizon) {
		return Invalid("horizon must be > 0, got %g", c.Horizon)
	}
	if !positive(c.Dt) {
		return Invalid("dt must be > 0, got %g", c.Dt)
	}
	if !positive(c.Tolerance) {
		return Invalid("tolerance must be > 0, got %g", c.Tolerance)
	}
	if !positive(c.MinDt) || !positive(c.MaxDt) || c.MinDt > c.MaxDt {
		return Invalid("step bounds must satisfy 0 < min_dt <= max_dt, got [%g, %g]", c.MinDt, c.MaxDt)
	}
	if c.MaxSteps <= 0 {
		return Invalid("max_steps must be > 0, got %d", c.MaxSteps)
	}
	if c.StallLimit <= 0 {
		return Invalid("stall_limit must be > 0, got %d", c.StallLimit)
	}
	return nil
}

// positive rejects NaN and ±Inf along with values <= 0.
func positive(v float64) bool { return v > 0 && !math.IsInf(v, 0) }

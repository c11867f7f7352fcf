package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/combustor/internal/dynamo"
)

// decay models a vessel venting through a linear valve: dP/dt = -P/tau.
type decay struct{ tau float64 }

func (d *decay) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{-x[0] / d.tau}
}

func (d *decay) StateDim() int { return 1 }

type simpleDynamics struct{}

func (s *simpleDynamics) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (s *simpleDynamics) StateDim() int { return 2 }

func TestRK4Accuracy(t *testing.T) {
	dyn := &simpleDynamics{}
	integ := NewRK4()

	x := dynamo.State{1.0, 0.0}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		x = integ.Step(dyn, x, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}

	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestEulerVsRK4Decay(t *testing.T) {
	dyn := &decay{tau: 3e-4}
	euler := NewEuler()
	rk4 := NewRK4()

	xe := dynamo.State{1e6}
	x4 := dynamo.State{1e6}
	dt := 1e-5
	steps := 100

	for i := 0; i < steps; i++ {
		xe = euler.Step(dyn, xe, float64(i)*dt, dt)
		x4 = rk4.Step(dyn, x4, float64(i)*dt, dt)
	}

	exact := 1e6 * math.Exp(-float64(steps)*dt/dyn.tau)
	errEuler := math.Abs(xe[0] - exact)
	errRK4 := math.Abs(x4[0] - exact)

	if errRK4 >= errEuler {
		t.Errorf("rk4 error %.3e not below euler error %.3e", errRK4, errEuler)
	}
	if errRK4/exact > 1e-5 {
		t.Errorf("rk4 relative error too large: %.3e", errRK4/exact)
	}
}

package integrators

import "github.com/san-kum/combustor/internal/dynamo"

// RK4 is the classic fourth-order Runge-Kutta method with a fixed step.
type RK4 struct {
	rk explicitRK
}

func NewRK4() *RK4 {
	return &RK4{rk: explicitRK{tab: classicRK4}}
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	r.rk.stages(dyn, x, t, dt)
	return r.rk.combine(x, r.rk.tab.b, dt)
}

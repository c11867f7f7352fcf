package integrators

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/combustor/internal/dynamo"
)

// tableau is an explicit Runge-Kutta Butcher tableau. Row i of a holds the
// weights of stages 0..i-1 that form the input of stage i.
type tableau struct {
	a [][]float64
	b []float64
	c []float64
	// e weights the embedded error estimate (b - b̂); nil for fixed-step
	// methods.
	e []float64
}

var classicRK4 = tableau{
	a: [][]float64{
		{},
		{1.0 / 2},
		{0, 1.0 / 2},
		{0, 0, 1},
	},
	b: []float64{1.0 / 6, 1.0 / 3, 1.0 / 3, 1.0 / 6},
	c: []float64{0, 1.0 / 2, 1.0 / 2, 1},
}

// dormandPrince is RK5(4)7M. The last stage evaluates the fifth-order
// solution itself (first same as last), so row 6 of a equals b.
var dormandPrince = func() tableau {
	b := []float64{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84, 0}
	bHat := []float64{5179.0 / 57600, 0, 7571.0 / 16695, 393.0 / 640, -92097.0 / 339200, 187.0 / 2100, 1.0 / 40}
	e := make([]float64, len(b))
	floats.SubTo(e, b, bHat)
	return tableau{
		a: [][]float64{
			{},
			{1.0 / 5},
			{3.0 / 40, 9.0 / 40},
			{44.0 / 45, -56.0 / 15, 32.0 / 9},
			{19372.0 / 6561, -25360.0 / 2187, 64448.0 / 6561, -212.0 / 729},
			{9017.0 / 3168, -355.0 / 33, 46732.0 / 5247, 49.0 / 176, -5103.0 / 18656},
			b[:6],
		},
		b: b,
		c: []float64{0, 1.0 / 5, 3.0 / 10, 4.0 / 5, 8.0 / 9, 1, 1},
		e: e,
	}
}()

// explicitRK evaluates a tableau with reusable stage buffers. It is not
// safe for concurrent use.
type explicitRK struct {
	tab     tableau
	k       []dynamo.State
	scratch dynamo.State
}

func (r *explicitRK) ensure(n int) {
	if len(r.scratch) == n && len(r.k) == len(r.tab.c) {
		return
	}
	r.k = make([]dynamo.State, len(r.tab.c))
	for i := range r.k {
		r.k[i] = make(dynamo.State, n)
	}
	r.scratch = make(dynamo.State, n)
}

// stages fills k with every stage derivative of a step of size dt from x.
func (r *explicitRK) stages(dyn dynamo.System, x dynamo.State, t, dt float64) {
	r.ensure(len(x))
	for i, ci := range r.tab.c {
		copy(r.scratch, x)
		for j, aij := range r.tab.a[i] {
			if aij != 0 {
				floats.AddScaled(r.scratch, dt*aij, r.k[j])
			}
		}
		copy(r.k[i], dyn.Derive(r.scratch, t+ci*dt))
	}
}

// combine returns base + dt·Σ w_i k_i as a new state.
func (r *explicitRK) combine(base dynamo.State, w []float64, dt float64) dynamo.State {
	out := base.Clone()
	for i, wi := range w {
		if wi != 0 {
			floats.AddScaled(out, dt*wi, r.k[i])
		}
	}
	return out
}

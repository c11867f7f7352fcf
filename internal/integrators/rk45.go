package integrators

import (
	"math"

	"github.com/san-kum/combustor/internal/dynamo"
)

// RK45 is the Dormand-Prince embedded pair with error-controlled step
// sizing.
type RK45 struct {
	rk       explicitRK
	safety   float64
	minScale float64
	maxScale float64
	// absTol keeps the error norm finite for components that sit at zero,
	// such as trace species mass fractions.
	absTol float64
}

func NewRK45() *RK45 {
	return &RK45{
		rk:       explicitRK{tab: dormandPrince},
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
		absTol:   1e-12,
	}
}

// Step takes one step of size dt and returns the fifth-order solution
// without error control.
func (r *RK45) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	r.rk.stages(dyn, x, t, dt)
	return r.rk.combine(x, r.rk.tab.b, dt)
}

func (r *RK45) StepAdaptive(dyn dynamo.System, x dynamo.State, t, dt, tol float64) (dynamo.State, float64, error) {
	xNew, errRatio := r.attempt(dyn, x, t, dt, tol)

	if math.IsNaN(errRatio) || math.IsInf(errRatio, 0) || !xNew.IsValid() {
		return nil, dt * r.minScale, dynamo.ErrStepRejected
	}

	if errRatio > 1 {
		scale := math.Max(r.minScale, r.safety*math.Pow(errRatio, -0.25))
		return nil, dt * scale, dynamo.ErrStepRejected
	}

	dtNew := dt * r.maxScale
	if errRatio > 0 {
		dtNew = dt * math.Min(r.maxScale, r.safety*math.Pow(errRatio, -0.2))
	}

	return xNew, dtNew, nil
}

// attempt returns the fifth-order state together with the scaled error
// norm (<= 1 means acceptable).
func (r *RK45) attempt(dyn dynamo.System, x dynamo.State, t, dt, tol float64) (dynamo.State, float64) {
	r.rk.stages(dyn, x, t, dt)
	xNew := r.rk.combine(x, r.rk.tab.b, dt)
	errEst := r.rk.combine(make(dynamo.State, len(x)), r.rk.tab.e, dt)

	errMax := 0.0
	for i, e := range errEst {
		scale := r.absTol + tol*math.Max(math.Abs(x[i]), math.Abs(xNew[i]))
		ratio := math.Abs(e) / scale
		if math.IsNaN(ratio) {
			return xNew, ratio
		}
		errMax = math.Max(errMax, ratio)
	}
	return xNew, errMax
}

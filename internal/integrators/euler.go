package integrators

import "github.com/san-kum/combustor/internal/dynamo"

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, t float64, dt float64) dynamo.State {
	return x.Add(dyn.Derive(x, t).Scale(dt))
}

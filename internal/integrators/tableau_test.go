package integrators

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/combustor/internal/dynamo"
)

func TestTableauConsistency(t *testing.T) {
	tests := []struct {
		name string
		tab  tableau
	}{
		{"rk4", classicRK4},
		{"dormand-prince", dormandPrince},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := floats.Sum(tt.tab.b); math.Abs(got-1) > 1e-14 {
				t.Errorf("weights sum to %v, want 1", got)
			}
			for i, row := range tt.tab.a {
				if got := floats.Sum(row); math.Abs(got-tt.tab.c[i]) > 1e-14 {
					t.Errorf("row %d sums to %v, want c=%v", i, got, tt.tab.c[i])
				}
			}
			if tt.tab.e != nil {
				if got := floats.Sum(tt.tab.e); math.Abs(got) > 1e-14 {
					t.Errorf("error weights sum to %v, want 0", got)
				}
			}
		})
	}
}

// linear is dx/dt = t, exact for any method of order >= 2.
type linear struct{}

func (linear) Derive(x dynamo.State, t float64) dynamo.State { return dynamo.State{t} }
func (linear) StateDim() int                                 { return 1 }

func TestStepsIntegrateQuadratureExactly(t *testing.T) {
	for name, integ := range map[string]dynamo.Integrator{"rk4": NewRK4(), "rk45": NewRK45()} {
		x := integ.Step(linear{}, dynamo.State{0}, 1, 2)
		// ∫_1^3 t dt = 4
		if math.Abs(x[0]-4) > 1e-12 {
			t.Errorf("%s: got %v, want 4", name, x[0])
		}
	}
}

func TestStepDoesNotMutateInput(t *testing.T) {
	x := dynamo.State{1, 0}
	for name, integ := range map[string]dynamo.Integrator{"euler": NewEuler(), "rk4": NewRK4(), "rk45": NewRK45()} {
		integ.Step(&simpleDynamics{}, x, 0, 0.1)
		if x[0] != 1 || x[1] != 0 {
			t.Fatalf("%s mutated its input: %v", name, x)
		}
	}
}

package reactor

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/combustor/internal/dynamo"
	"github.com/san-kum/combustor/internal/thermo"
)

// Chamber is a fixed-volume, well-mixed ideal-gas reactor.
type Chamber struct {
	name    string
	gas     thermo.Model
	species []thermo.Species
	volume  float64
	state   thermo.GasState
	x       dynamo.State
	inlets  []FlowDevice
	outlets []FlowDevice

	u, wdot []float64
}

var _ dynamo.System = (*Chamber)(nil)

func NewChamber(name string, gas thermo.Model, initial thermo.GasState, volume float64) (*Chamber, error) {
	if !(volume > 0) || math.IsInf(volume, 0) {
		return nil, dynamo.Invalid("chamber volume must be > 0, got %g", volume)
	}
	if gas == nil {
		return nil, dynamo.Invalid("chamber %q has no gas model", name)
	}
	if initial.IsZero() {
		return nil, dynamo.Invalid("chamber %q has no initial state", name)
	}
	species := gas.Species()
	y := initial.Y()
	if len(y) != len(species) {
		return nil, dynamo.Invalid("chamber %q: initial state has %d species, model has %d", name, len(y), len(species))
	}

	c := &Chamber{
		name:    name,
		gas:     gas,
		species: species,
		volume:  volume,
		state:   initial.Clone(),
		u:       make([]float64, len(species)),
		wdot:    make([]float64, len(species)),
	}
	c.x = make(dynamo.State, 0, c.StateDim())
	c.x = append(c.x, initial.Density()*volume, initial.T())
	c.x = append(c.x, y...)
	return c, nil
}

func (c *Chamber) Name() string { return c.name }

// State returns the committed gas state.
func (c *Chamber) State() thermo.GasState { return c.state.Clone() }

func (c *Chamber) Volume() float64 { return c.volume }

// Mass returns the gas mass in kg.
func (c *Chamber) Mass() float64 { return c.x[0] }

// Vector returns a copy of the committed state vector.
func (c *Chamber) Vector() dynamo.State { return c.x.Clone() }

func (c *Chamber) StateDim() int { return 2 + len(c.species) }

// Connect attaches a device whose upstream or downstream node is c.
func (c *Chamber) Connect(d FlowDevice) error {
	in := d.Downstream() == Node(c)
	out := d.Upstream() == Node(c)
	switch {
	case in && out:
		return dynamo.Invalid("device %q loops chamber %q onto itself", d.Name(), c.name)
	case in:
		c.inlets = append(c.inlets, d)
	case out:
		c.outlets = append(c.outlets, d)
	default:
		return dynamo.Invalid("device %q is not attached to chamber %q", d.Name(), c.name)
	}
	return nil
}

// Devices returns the inlets followed by the outlets, in connection order.
func (c *Chamber) Devices() []FlowDevice {
	out := make([]FlowDevice, 0, len(c.inlets)+len(c.outlets))
	out = append(out, c.inlets...)
	return append(out, c.outlets...)
}

// Flows returns the mass flow of every device in Devices order, evaluated
// at time t against the committed chamber state.
func (c *Chamber) Flows(t float64) []float64 {
	flows := make([]float64, 0, len(c.inlets)+len(c.outlets))
	for _, d := range c.inlets {
		flows = append(flows, d.MassFlow(t, d.Upstream().State(), c.state))
	}
	for _, d := range c.outlets {
		flows = append(flows, d.MassFlow(t, c.state, d.Downstream().State()))
	}
	return flows
}

func (c *Chamber) trial(x dynamo.State) (thermo.GasState, error) {
	if len(x) != c.StateDim() {
		return thermo.GasState{}, dynamo.ErrDimensionMismatch
	}
	if !x.IsValid() {
		return thermo.GasState{}, dynamo.ErrInvalidState
	}
	m, t := x[0], x[1]
	if !(m > 0) || !(t > 0) {
		return thermo.GasState{}, fmt.Errorf("%w: m=%g T=%g", thermo.ErrBadState, m, t)
	}
	return c.gas.StateTDY(t, m/c.volume, x[2:])
}

// Derive evaluates the mass, energy and species balances:
//
//	dm/dt    = Σ_in mdot - Σ_out mdot
//	m dY/dt  = Σ_in mdot (Y_in - Y) + V ω W
//	m cv dT/dt = Σ_in mdot (h_in - Σ u_k Y_in,k / W_k) - (P/ρ) Σ_out mdot - V Σ u_k ω_k
//
// Non-physical trial states yield a NaN derivative, which the integrators
// treat as a rejected step.
func (c *Chamber) Derive(x dynamo.State, t float64) dynamo.State {
	n := c.StateDim()
	s, err := c.trial(x)
	if err != nil {
		return dynamo.NaNState(n)
	}

	m := x[0]
	y := s.Y()
	c.gas.IntEnergies(s.T(), c.u)
	c.gas.NetProductionRates(s, c.wdot)

	dx := make(dynamo.State, n)
	dY := dx[2:]
	var dm, dE float64

	for _, d := range c.inlets {
		up := d.Content()
		mdot := d.MassFlow(t, up, s)
		if mdot <= 0 {
			continue
		}
		dm += mdot
		yin := up.Y()
		uin := 0.0
		for k := range yin {
			dY[k] += mdot * (yin[k] - y[k])
			uin += c.u[k] * yin[k] / c.species[k].MolarMass
		}
		dE += mdot * (c.gas.EnthalpyMass(up) - uin)
	}

	pv := s.P() / s.Density()
	for _, d := range c.outlets {
		mdot := d.MassFlow(t, s, d.Downstream().State())
		if mdot <= 0 {
			continue
		}
		dm -= mdot
		dE -= mdot * pv
	}

	for k, sp := range c.species {
		dY[k] += c.wdot[k] * sp.MolarMass * c.volume
		dE -= c.u[k] * c.wdot[k] * c.volume
	}
	for k := range dY {
		dY[k] /= m
	}

	dx[0] = dm
	dx[1] = dE / (m * s.Cv())
	return dx
}

// Advance integrates the chamber from t by one accepted step no larger than
// dt. It returns the step actually taken and the size proposed for the next
// one. The step is shrunk internally until the integrator accepts it or it
// falls below cfg.MinDt, in which case an error wrapping
// dynamo.ErrStepTooSmall is returned and the chamber is left unchanged.
// A step too small to move t in floating point is not taken: Advance
// returns taken == 0 and leaves the chamber unchanged.
func (c *Chamber) Advance(integ dynamo.Integrator, t, dt float64, cfg dynamo.Config) (taken, next float64, err error) {
	for {
		if !(t+dt > t) {
			return 0, dt, nil
		}
		if dt < cfg.MinDt {
			return 0, dt, fmt.Errorf("%w: dt=%g at t=%g", dynamo.ErrStepTooSmall, dt, t)
		}

		xNew, proposed, err := c.attempt(integ, c.x, t, dt, cfg.Tolerance)
		if errors.Is(err, dynamo.ErrStepRejected) {
			dt = proposed
			continue
		}
		if err != nil {
			return 0, dt, err
		}

		if err := c.commit(xNew); err != nil {
			dt /= 2
			continue
		}
		return dt, math.Min(proposed, cfg.MaxDt), nil
	}
}

// attempt delegates to an adaptive integrator, or estimates the local error
// of a fixed-step one by step doubling.
func (c *Chamber) attempt(integ dynamo.Integrator, x dynamo.State, t, dt, tol float64) (dynamo.State, float64, error) {
	if adaptive, ok := integ.(dynamo.AdaptiveIntegrator); ok {
		return adaptive.StepAdaptive(c, x, t, dt, tol)
	}

	x1 := integ.Step(c, x, t, dt)
	xHalf := integ.Step(c, x, t, dt/2)
	x2 := integ.Step(c, xHalf, t+dt/2, dt/2)
	if !x1.IsValid() || !x2.IsValid() {
		return nil, dt / 2, dynamo.ErrStepRejected
	}

	diff := x1.Sub(x2)
	errMax := 0.0
	for i, d := range diff {
		scale := 1e-12 + tol*math.Max(math.Abs(x[i]), math.Abs(x2[i]))
		errMax = math.Max(errMax, math.Abs(d)/scale)
	}

	if errMax > 1 {
		return nil, dt / 2, dynamo.ErrStepRejected
	}
	if errMax < 0.1 {
		return x2, dt * 2, nil
	}
	return x2, dt, nil
}

func (c *Chamber) commit(x dynamo.State) error {
	s, err := c.trial(x)
	if err != nil {
		return err
	}
	c.state = s
	c.x = append(c.x[:2], s.Y()...)
	c.x[0], c.x[1] = x[0], x[1]
	return nil
}

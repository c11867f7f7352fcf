package reactor

import (
	"math"

	"github.com/san-kum/combustor/internal/dynamo"
	"github.com/san-kum/combustor/internal/thermo"
)

// FlowDevice is a directed edge from Upstream to Downstream. MassFlow is
// evaluated against the endpoint states passed in, which may be trial
// states of an integrator stage rather than committed ones.
type FlowDevice interface {
	Name() string
	Upstream() Node
	Downstream() Node
	MassFlow(t float64, up, down thermo.GasState) float64
	// Content is the gas carried through the device: the upstream state.
	Content() thermo.GasState
}

type link struct {
	name     string
	up, down Node
}

func newLink(name string, up, down Node) (link, error) {
	if up == nil || down == nil {
		return link{}, dynamo.Invalid("flow device %q needs two endpoints", name)
	}
	if up == down {
		return link{}, dynamo.Invalid("flow device %q connects %q to itself", name, up.Name())
	}
	return link{name: name, up: up, down: down}, nil
}

func (l link) Name() string             { return l.name }
func (l link) Upstream() Node           { return l.up }
func (l link) Downstream() Node         { return l.down }
func (l link) Content() thermo.GasState { return l.up.State() }

// Valve is a check valve: mdot = K · max(0, P_up - P_down).
type Valve struct {
	link
	coeff float64
}

func NewValve(name string, up, down Node, coeff float64) (*Valve, error) {
	l, err := newLink(name, up, down)
	if err != nil {
		return nil, err
	}
	v := &Valve{link: l}
	if err := v.SetCoefficient(coeff); err != nil {
		return nil, err
	}
	return v, nil
}

// Coefficient returns K in kg/(s·Pa).
func (v *Valve) Coefficient() float64 { return v.coeff }

func (v *Valve) SetCoefficient(k float64) error {
	if !(k >= 0) || math.IsInf(k, 0) {
		return dynamo.Invalid("valve %q coefficient must be finite and >= 0, got %g", v.name, k)
	}
	v.coeff = k
	return nil
}

func (v *Valve) MassFlow(t float64, up, down thermo.GasState) float64 {
	return ValveFlow(v.coeff, up.P()-down.P())
}

// ValveFlow is the check-valve law. Backflow (dp <= 0) yields zero.
func ValveFlow(coeff, dp float64) float64 {
	if dp <= 0 {
		return 0
	}
	return coeff * dp
}

// MassFlowController delivers the rate of its profile, independent of the
// endpoint pressures. Negative profile values are clipped to zero.
type MassFlowController struct {
	link
	profile Profile
}

func NewMassFlowController(name string, up, down Node, profile Profile) (*MassFlowController, error) {
	l, err := newLink(name, up, down)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, dynamo.Invalid("mass flow controller %q needs a profile", name)
	}
	return &MassFlowController{link: l, profile: profile}, nil
}

func (m *MassFlowController) Profile() Profile { return m.profile }

func (m *MassFlowController) MassFlow(t float64, up, down thermo.GasState) float64 {
	return math.Max(0, m.profile.Rate(t))
}

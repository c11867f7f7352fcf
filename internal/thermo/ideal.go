package thermo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Model is the contract the reactor network consumes: property evaluation
// for a (temperature, pressure or density, composition) triple plus the
// kinetics source term. Arrays are indexed in Species() order.
type Model interface {
	Species() []Species
	Index(name string) (int, bool)
	StateTPY(t, p float64, y []float64) (GasState, error)
	StateTPX(t, p float64, x Composition) (GasState, error)
	StateTDY(t, rho float64, y []float64) (GasState, error)
	// IntEnergies fills u with molar internal energies (J/kmol) at t.
	IntEnergies(t float64, u []float64)
	// EnthalpyMass returns the mixture enthalpy in J/kg.
	EnthalpyMass(s GasState) float64
	// NetProductionRates fills wdot with kmol/(m³·s) for every species.
	NetProductionRates(s GasState, wdot []float64)
}

// IdealGas is a mixture of calorically perfect ideal gases. It keeps a
// concentration scratch buffer and must not be shared between goroutines.
type IdealGas struct {
	name      string
	species   []Species
	index     map[string]int
	reactions []compiledReaction
	conc      []float64
}

var _ Model = (*IdealGas)(nil)

// NewIdealGas compiles a mechanism against the built-in species database.
func NewIdealGas(mech Mechanism) (*IdealGas, error) {
	if len(mech.Species) == 0 {
		return nil, fmt.Errorf("%w: mechanism %q has no species", ErrBadComposition, mech.Name)
	}
	g := &IdealGas{
		name:  mech.Name,
		index: make(map[string]int, len(mech.Species)),
		conc:  make([]float64, len(mech.Species)),
	}
	for i, name := range mech.Species {
		sp, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		if _, dup := g.index[name]; dup {
			return nil, fmt.Errorf("%w: duplicate species %s", ErrBadComposition, name)
		}
		g.species = append(g.species, sp)
		g.index[name] = i
	}

	for _, r := range mech.Reactions {
		cr, err := g.compile(r)
		if err != nil {
			return nil, fmt.Errorf("reaction %q: %w", r.Equation, err)
		}
		g.reactions = append(g.reactions, cr)
	}
	return g, nil
}

func (g *IdealGas) compile(r Reaction) (compiledReaction, error) {
	cr := compiledReaction{a: r.A, b: r.B, ea: r.Ea, thirdBody: r.ThirdBody}
	net := make(map[int]float64)
	for name, nu := range r.Reactants {
		k, ok := g.index[name]
		if !ok {
			return cr, fmt.Errorf("%w: %s", ErrUnknownSpecies, name)
		}
		net[k] -= nu
		order := nu
		if o, ok := r.Orders[name]; ok {
			order = o
		}
		cr.orders = append(cr.orders, term{k: k, v: order})
	}
	for name, nu := range r.Products {
		k, ok := g.index[name]
		if !ok {
			return cr, fmt.Errorf("%w: %s", ErrUnknownSpecies, name)
		}
		net[k] += nu
	}
	for k := range g.species {
		if nu, ok := net[k]; ok && nu != 0 {
			cr.net = append(cr.net, term{k: k, v: nu})
		}
	}
	return cr, nil
}

func (g *IdealGas) Name() string { return g.name }

func (g *IdealGas) Species() []Species {
	out := make([]Species, len(g.species))
	copy(out, g.species)
	return out
}

func (g *IdealGas) Index(name string) (int, bool) {
	k, ok := g.index[name]
	return k, ok
}

// MassFractions converts a mole-fraction composition into mass fractions in
// species order.
func (g *IdealGas) MassFractions(x Composition) ([]float64, error) {
	y := make([]float64, len(g.species))
	total := 0.0
	for name, v := range x {
		k, ok := g.index[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s not in mechanism %s", ErrUnknownSpecies, name, g.name)
		}
		y[k] += v * g.species[k].MolarMass
		total += v * g.species[k].MolarMass
	}
	if total <= 0 {
		return nil, fmt.Errorf("%w: empty composition", ErrBadComposition)
	}
	for k := range y {
		y[k] /= total
	}
	return y, nil
}

func (g *IdealGas) StateTPX(t, p float64, x Composition) (GasState, error) {
	y, err := g.MassFractions(x)
	if err != nil {
		return GasState{}, err
	}
	return g.StateTPY(t, p, y)
}

func (g *IdealGas) StateTPY(t, p float64, y []float64) (GasState, error) {
	s, err := g.mix(t, y)
	if err != nil {
		return GasState{}, err
	}
	s.p = p
	s.rho = p * s.mw / (GasConstant * t)
	if !s.valid() {
		return GasState{}, fmt.Errorf("%w: T=%g P=%g", ErrBadState, t, p)
	}
	return s, nil
}

func (g *IdealGas) StateTDY(t, rho float64, y []float64) (GasState, error) {
	s, err := g.mix(t, y)
	if err != nil {
		return GasState{}, err
	}
	s.rho = rho
	s.p = rho * GasConstant * t / s.mw
	if !s.valid() {
		return GasState{}, fmt.Errorf("%w: T=%g rho=%g", ErrBadState, t, rho)
	}
	return s, nil
}

// mix normalizes y and fills the composition-dependent properties.
func (g *IdealGas) mix(t float64, y []float64) (GasState, error) {
	if len(y) != len(g.species) {
		return GasState{}, fmt.Errorf("%w: %d fractions for %d species", ErrBadComposition, len(y), len(g.species))
	}
	if !(t > 0) || math.IsInf(t, 0) {
		return GasState{}, fmt.Errorf("%w: T=%g", ErrBadState, t)
	}

	yn := make([]float64, len(y))
	for k, v := range y {
		if math.IsNaN(v) {
			return GasState{}, fmt.Errorf("%w: NaN mass fraction", ErrBadComposition)
		}
		// round-off from the integrator can leave tiny negative values
		yn[k] = math.Max(v, 0)
	}
	total := floats.Sum(yn)
	if !(total > 0) || math.IsInf(total, 0) {
		return GasState{}, fmt.Errorf("%w: fractions sum to %g", ErrBadComposition, total)
	}
	floats.Scale(1/total, yn)

	invMW, cp := 0.0, 0.0
	for k, sp := range g.species {
		n := yn[k] / sp.MolarMass
		invMW += n
		cp += n * sp.Cp
	}
	mw := 1 / invMW
	return GasState{
		species: g.species,
		t:       t,
		mw:      mw,
		cp:      cp,
		cv:      cp - GasConstant/mw,
		y:       yn,
	}, nil
}

func (g *IdealGas) IntEnergies(t float64, u []float64) {
	for k, sp := range g.species {
		u[k] = sp.U(t)
	}
}

func (g *IdealGas) EnthalpyMass(s GasState) float64 {
	h := 0.0
	for k, sp := range g.species {
		h += s.y[k] / sp.MolarMass * sp.H(s.t)
	}
	return h
}

func (g *IdealGas) NetProductionRates(s GasState, wdot []float64) {
	for k := range wdot {
		wdot[k] = 0
	}
	if len(g.reactions) == 0 {
		return
	}

	total := 0.0
	for k, sp := range g.species {
		g.conc[k] = s.rho * s.y[k] / sp.MolarMass
		total += g.conc[k]
	}
	for _, r := range g.reactions {
		q := r.rate(s.t, g.conc, total)
		for _, n := range r.net {
			wdot[n.k] += n.v * q
		}
	}
}

package thermo

import "math"

// Reaction is a global Arrhenius reaction with the rate constant
// k = A · T^B · exp(-Ea / (R·T)) in kmol, m³ and s units.
type Reaction struct {
	Equation  string
	Reactants map[string]float64
	Products  map[string]float64
	// Orders overrides the reaction order per species. Species missing
	// here use their reactant stoichiometric coefficient.
	Orders    map[string]float64
	A, B, Ea  float64
	ThirdBody bool
}

// Mechanism is a named species set and the reactions acting on it.
type Mechanism struct {
	Name      string
	Species   []string
	Reactions []Reaction
}

// CGSToSI converts a pre-exponential factor given in mol, cm³ and s units
// to kmol, m³ and s, for a reaction of total concentration order n.
func CGSToSI(a, n float64) float64 {
	return a * math.Pow(1e-3, n-1)
}

const calPerMol = 4184.0 // J/kmol per cal/mol

// PropaneGlobal is the single-step propane oxidation of Westbrook & Dryer
// (1981) plus hydrogen-atom recombination, which lets an H-atom igniter
// release heat into the chamber.
func PropaneGlobal() Mechanism {
	return Mechanism{
		Name:    "propane-global",
		Species: []string{"C3H8", "O2", "H", "H2", "CO2", "H2O", "N2"},
		Reactions: []Reaction{
			{
				Equation:  "C3H8 + 5 O2 => 3 CO2 + 4 H2O",
				Reactants: map[string]float64{"C3H8": 1, "O2": 5},
				Products:  map[string]float64{"CO2": 3, "H2O": 4},
				Orders:    map[string]float64{"C3H8": 0.1, "O2": 1.65},
				A:         CGSToSI(8.6e11, 1.75),
				Ea:        30.0e3 * calPerMol,
			},
			{
				Equation:  "H + H + M => H2 + M",
				Reactants: map[string]float64{"H": 2},
				Products:  map[string]float64{"H2": 1},
				A:         CGSToSI(1.0e18, 3),
				B:         -1.0,
				ThirdBody: true,
			},
		},
	}
}

// Inert returns a mechanism with the given species and no reactions.
func Inert(species ...string) Mechanism {
	return Mechanism{Name: "inert", Species: species}
}

type compiledReaction struct {
	a, b, ea  float64
	thirdBody bool
	orders    []term
	net       []term
}

type term struct {
	k int
	v float64
}

func (r compiledReaction) rate(t float64, conc []float64, total float64) float64 {
	k := r.a * math.Exp(-r.ea/(GasConstant*t))
	if r.b != 0 {
		k *= math.Pow(t, r.b)
	}
	q := k
	for _, o := range r.orders {
		q *= math.Pow(conc[o.k], o.v)
	}
	if r.thirdBody {
		q *= total
	}
	return q
}

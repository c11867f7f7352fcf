package thermo

import "math"

// GasState is an immutable snapshot of a mixture at a given temperature,
// pressure and composition, with its derived properties.
type GasState struct {
	species []Species
	t, p    float64
	rho     float64
	mw      float64
	cp, cv  float64
	y       []float64
}

// T returns the temperature in K.
func (s GasState) T() float64 { return s.t }

// P returns the pressure in Pa.
func (s GasState) P() float64 { return s.p }

// Density returns the density in kg/m³.
func (s GasState) Density() float64 { return s.rho }

// MeanMolecularWeight returns the mean molar mass in kg/kmol.
func (s GasState) MeanMolecularWeight() float64 { return s.mw }

// Cp returns the mass-specific heat at constant pressure in J/(kg·K).
func (s GasState) Cp() float64 { return s.cp }

// Cv returns the mass-specific heat at constant volume in J/(kg·K).
func (s GasState) Cv() float64 { return s.cv }

// K returns the specific-heat ratio cp/cv.
func (s GasState) K() float64 { return s.cp / s.cv }

func (s GasState) IsZero() bool { return s.species == nil }

// Y returns a copy of the mass fractions, in model species order.
func (s GasState) Y() []float64 {
	y := make([]float64, len(s.y))
	copy(y, s.y)
	return y
}

// X returns the mole fractions, in model species order.
func (s GasState) X() []float64 {
	x := make([]float64, len(s.y))
	for i, sp := range s.species {
		x[i] = s.y[i] * s.mw / sp.MolarMass
	}
	return x
}

// MassFraction returns the mass fraction of name, or 0 when absent.
func (s GasState) MassFraction(name string) float64 {
	for i, sp := range s.species {
		if sp.Name == name {
			return s.y[i]
		}
	}
	return 0
}

// MoleFractions returns the mole fractions keyed by species name.
func (s GasState) MoleFractions() Composition {
	x := s.X()
	c := make(Composition, len(x))
	for i, sp := range s.species {
		if x[i] > 0 {
			c[sp.Name] = x[i]
		}
	}
	return c
}

// SpeciesNames returns the species names in model order.
func (s GasState) SpeciesNames() []string {
	names := make([]string, len(s.species))
	for i, sp := range s.species {
		names[i] = sp.Name
	}
	return names
}

// Clone returns a deep copy that shares no mutable storage with s.
func (s GasState) Clone() GasState {
	c := s
	c.y = s.Y()
	return c
}

// Equal reports whether two states hold identical values.
func (s GasState) Equal(o GasState) bool {
	if s.t != o.t || s.p != o.p || s.rho != o.rho || len(s.y) != len(o.y) {
		return false
	}
	for i := range s.y {
		if s.y[i] != o.y[i] {
			return false
		}
	}
	return true
}

func (s GasState) valid() bool {
	for _, v := range []float64{s.t, s.p, s.rho, s.mw, s.cp, s.cv} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return false
		}
	}
	return true
}

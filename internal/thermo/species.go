package thermo

import (
	"errors"
	"fmt"
	"sort"
)

const (
	// GasConstant is the universal gas constant in J/(kmol·K).
	GasConstant = 8314.462618
	// OneAtm is one standard atmosphere in Pa.
	OneAtm = 101325.0
	// RefTemperature is the reference temperature for heats of formation.
	RefTemperature = 298.15
)

var (
	ErrUnknownSpecies = errors.New("thermo: unknown species")
	ErrBadComposition = errors.New("thermo: bad composition")
	ErrBadState       = errors.New("thermo: non-physical state")
)

// Species holds the data needed by a calorically perfect ideal gas.
type Species struct {
	Name      string
	MolarMass float64 // kg/kmol
	Hf        float64 // J/kmol at RefTemperature
	Cp        float64 // J/(kmol·K)
}

// H returns the molar enthalpy at temperature t.
func (s Species) H(t float64) float64 {
	return s.Hf + s.Cp*(t-RefTemperature)
}

// U returns the molar internal energy at temperature t.
func (s Species) U(t float64) float64 {
	return s.H(t) - GasConstant*t
}

// Heat capacities are mean values over 300-2500 K; formation enthalpies are
// the standard gas-phase values.
var speciesDB = map[string]Species{
	"C3H8": {Name: "C3H8", MolarMass: 44.0962, Hf: -104.68e6, Cp: 150.0e3},
	"O2":   {Name: "O2", MolarMass: 31.9988, Hf: 0, Cp: 34.9e3},
	"H":    {Name: "H", MolarMass: 1.00794, Hf: 217.998e6, Cp: 20.786e3},
	"H2":   {Name: "H2", MolarMass: 2.01588, Hf: 0, Cp: 30.2e3},
	"O":    {Name: "O", MolarMass: 15.9994, Hf: 249.18e6, Cp: 20.9e3},
	"OH":   {Name: "OH", MolarMass: 17.0073, Hf: 37.3e6, Cp: 30.7e3},
	"H2O":  {Name: "H2O", MolarMass: 18.0153, Hf: -241.826e6, Cp: 41.3e3},
	"CO":   {Name: "CO", MolarMass: 28.0104, Hf: -110.53e6, Cp: 33.2e3},
	"CO2":  {Name: "CO2", MolarMass: 44.0098, Hf: -393.51e6, Cp: 54.3e3},
	"N2":   {Name: "N2", MolarMass: 28.0134, Hf: 0, Cp: 32.7e3},
}

// Lookup returns the species record for name.
func Lookup(name string) (Species, error) {
	s, ok := speciesDB[name]
	if !ok {
		return Species{}, fmt.Errorf("%w: %s", ErrUnknownSpecies, name)
	}
	return s, nil
}

// KnownSpecies lists every species in the built-in database, sorted.
func KnownSpecies() []string {
	names := make([]string, 0, len(speciesDB))
	for name := range speciesDB {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

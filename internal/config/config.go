// Package config holds the parameters of one combustor run and reads them
// from YAML, TOML or INI files.
package config

import (
	"math"

	"github.com/san-kum/combustor/internal/dynamo"
	"github.com/san-kum/combustor/internal/thermo"
)

const (
	DefaultMechanism  = "propane-global"
	DefaultIntegrator = "rk45"
	DefaultHorizon    = 0.01
	DefaultVolume     = 0.015
)

// GasConfig describes a gas at rest. Composition uses the
// "SPECIES:amount, ..." form and is normalized as mole fractions.
type GasConfig struct {
	Temperature float64 `json:"temperature" yaml:"temperature" toml:"temperature" ini:"temperature"`
	Pressure    float64 `json:"pressure" yaml:"pressure" toml:"pressure" ini:"pressure"`
	Composition string  `json:"composition" yaml:"composition" toml:"composition" ini:"composition"`
}

type ChamberConfig struct {
	Temperature float64 `json:"temperature" yaml:"temperature" toml:"temperature" ini:"temperature"`
	Pressure    float64 `json:"pressure" yaml:"pressure" toml:"pressure" ini:"pressure"`
	Composition string  `json:"composition" yaml:"composition" toml:"composition" ini:"composition"`
	Volume      float64 `json:"volume" yaml:"volume" toml:"volume" ini:"volume"`
}

func (c ChamberConfig) Gas() GasConfig {
	return GasConfig{Temperature: c.Temperature, Pressure: c.Pressure, Composition: c.Composition}
}

// ValveConfig holds the valve coefficients in kg/(s·Pa).
type ValveConfig struct {
	Fuel     float64 `json:"fuel" yaml:"fuel" toml:"fuel" ini:"fuel"`
	Oxidizer float64 `json:"oxidizer" yaml:"oxidizer" toml:"oxidizer" ini:"oxidizer"`
	Exhaust  float64 `json:"exhaust" yaml:"exhaust" toml:"exhaust" ini:"exhaust"`
}

// PulseConfig is the igniter's Gaussian mass-flow pulse.
type PulseConfig struct {
	Amplitude float64 `json:"amplitude" yaml:"amplitude" toml:"amplitude" ini:"amplitude"`
	T0        float64 `json:"t0" yaml:"t0" toml:"t0" ini:"t0"`
	FWHM      float64 `json:"fwhm" yaml:"fwhm" toml:"fwhm" ini:"fwhm"`
}

type RunConfig struct {
	Mechanism  string  `json:"mechanism" yaml:"mechanism" toml:"mechanism" ini:"mechanism"`
	Integrator string  `json:"integrator" yaml:"integrator" toml:"integrator" ini:"integrator"`
	Horizon    float64 `json:"horizon" yaml:"horizon" toml:"horizon" ini:"horizon"`
	Dt         float64 `json:"dt" yaml:"dt" toml:"dt" ini:"dt"`
	Tolerance  float64 `json:"tolerance" yaml:"tolerance" toml:"tolerance" ini:"tolerance"`
	MinDt      float64 `json:"min_dt" yaml:"min_dt" toml:"min_dt" ini:"min_dt"`
	MaxDt      float64 `json:"max_dt" yaml:"max_dt" toml:"max_dt" ini:"max_dt"`
	MaxSteps   int     `json:"max_steps" yaml:"max_steps" toml:"max_steps" ini:"max_steps"`
	StallLimit int     `json:"stall_limit" yaml:"stall_limit" toml:"stall_limit" ini:"stall_limit"`
}

type Config struct {
	Fuel     GasConfig     `json:"fuel" yaml:"fuel" toml:"fuel" ini:"fuel"`
	Oxidizer GasConfig     `json:"oxidizer" yaml:"oxidizer" toml:"oxidizer" ini:"oxidizer"`
	Igniter  GasConfig     `json:"igniter" yaml:"igniter" toml:"igniter" ini:"igniter"`
	Chamber  ChamberConfig `json:"chamber" yaml:"chamber" toml:"chamber" ini:"chamber"`
	// Exhaust is the reservoir the nozzle discharges into; its pressure is
	// the back-pressure.
	Exhaust GasConfig   `json:"exhaust" yaml:"exhaust" toml:"exhaust" ini:"exhaust"`
	Valves  ValveConfig `json:"valves" yaml:"valves" toml:"valves" ini:"valves"`
	Pulse   PulseConfig `json:"pulse" yaml:"pulse" toml:"pulse" ini:"pulse"`
	Run     RunConfig   `json:"run" yaml:"run" toml:"run" ini:"run"`
}

// DefaultConfig returns the reference propane/oxygen configuration.
func DefaultConfig() *Config {
	step := dynamo.DefaultConfig()
	return &Config{
		Fuel:     GasConfig{Temperature: 350, Pressure: 50 * thermo.OneAtm, Composition: "C3H8:1.0"},
		Oxidizer: GasConfig{Temperature: 350, Pressure: 50 * thermo.OneAtm, Composition: "O2:5.0"},
		Igniter:  GasConfig{Temperature: 300, Pressure: thermo.OneAtm, Composition: "H:1.0"},
		Chamber: ChamberConfig{
			Temperature: 300,
			Pressure:    1.1 * thermo.OneAtm,
			Composition: "O2:5.0",
			Volume:      DefaultVolume,
		},
		Exhaust: GasConfig{Temperature: 300, Pressure: thermo.OneAtm, Composition: "O2:5.0"},
		Valves:  ValveConfig{Fuel: 4e-5, Oxidizer: 4e-5, Exhaust: 5e-4},
		Pulse:   PulseConfig{Amplitude: 0.01, T0: 0.05, FWHM: 0.008},
		Run: RunConfig{
			Mechanism:  DefaultMechanism,
			Integrator: DefaultIntegrator,
			Horizon:    DefaultHorizon,
			Dt:         step.Dt,
			Tolerance:  step.Tolerance,
			MinDt:      step.MinDt,
			MaxDt:      step.MaxDt,
			MaxSteps:   step.MaxSteps,
			StallLimit: step.StallLimit,
		},
	}
}

// Step returns the integration settings as a dynamo.Config.
func (c *Config) Step() dynamo.Config {
	return dynamo.Config{
		Dt:         c.Run.Dt,
		Horizon:    c.Run.Horizon,
		Tolerance:  c.Run.Tolerance,
		MinDt:      c.Run.MinDt,
		MaxDt:      c.Run.MaxDt,
		MaxSteps:   c.Run.MaxSteps,
		StallLimit: c.Run.StallLimit,
	}
}

// Validate checks every parameter range. Errors wrap
// dynamo.ErrInvalidConfiguration.
func (c *Config) Validate() error {
	gases := []struct {
		name string
		gas  GasConfig
	}{
		{"fuel", c.Fuel},
		{"oxidizer", c.Oxidizer},
		{"igniter", c.Igniter},
		{"chamber", c.Chamber.Gas()},
		{"exhaust", c.Exhaust},
	}
	for _, g := range gases {
		if err := g.gas.validate(g.name); err != nil {
			return err
		}
	}

	if !positive(c.Chamber.Volume) {
		return dynamo.Invalid("chamber volume must be > 0, got %g", c.Chamber.Volume)
	}

	valves := []struct {
		name  string
		coeff float64
	}{
		{"fuel", c.Valves.Fuel},
		{"oxidizer", c.Valves.Oxidizer},
		{"exhaust", c.Valves.Exhaust},
	}
	for _, v := range valves {
		if !(v.coeff >= 0) || math.IsInf(v.coeff, 0) {
			return dynamo.Invalid("%s valve coefficient must be >= 0, got %g", v.name, v.coeff)
		}
	}

	if !(c.Pulse.Amplitude >= 0) {
		return dynamo.Invalid("igniter amplitude must be >= 0, got %g", c.Pulse.Amplitude)
	}
	if !positive(c.Pulse.FWHM) {
		return dynamo.Invalid("igniter fwhm must be > 0, got %g", c.Pulse.FWHM)
	}
	if math.IsNaN(c.Pulse.T0) || math.IsInf(c.Pulse.T0, 0) {
		return dynamo.Invalid("igniter t0 must be finite, got %g", c.Pulse.T0)
	}

	if c.Run.Mechanism == "" {
		return dynamo.Invalid("mechanism must be set")
	}
	if c.Run.Integrator == "" {
		return dynamo.Invalid("integrator must be set")
	}
	return c.Step().Validate()
}

func (g GasConfig) validate(name string) error {
	if !positive(g.Temperature) {
		return dynamo.Invalid("%s temperature must be > 0, got %g", name, g.Temperature)
	}
	if !positive(g.Pressure) {
		return dynamo.Invalid("%s pressure must be > 0, got %g", name, g.Pressure)
	}
	comp, err := thermo.ParseComposition(g.Composition)
	if err != nil {
		return dynamo.Invalid("%s composition: %v", name, err)
	}
	for species := range comp {
		if _, err := thermo.Lookup(species); err != nil {
			return dynamo.Invalid("%s composition: %v", name, err)
		}
	}
	return nil
}

func positive(v float64) bool { return v > 0 && !math.IsInf(v, 0) }

package experiment

import (
	"github.com/san-kum/combustor/internal/config"
	"github.com/san-kum/combustor/internal/dynamo"
	"github.com/san-kum/combustor/internal/reactor"
	"github.com/san-kum/combustor/internal/sim"
	"github.com/san-kum/combustor/internal/thermo"
)

// Assembly is a fully connected combustor: three supply reservoirs feeding
// one chamber that drains through the exhaust valve.
type Assembly struct {
	Gas *thermo.IdealGas

	Fuel     *reactor.Reservoir
	Oxidizer *reactor.Reservoir
	Igniter  *reactor.Reservoir
	Exhaust  *reactor.Reservoir
	Chamber  *reactor.Chamber

	FuelValve     *reactor.Valve
	OxidizerValve *reactor.Valve
	IgniterFlow   *reactor.MassFlowController
	ExhaustValve  *reactor.Valve

	Network *sim.Network
}

// Build validates cfg and assembles the network it describes. Every node
// gets its own gas state.
func Build(cfg *config.Config, reg *Registry) (*Assembly, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mech, err := reg.GetMechanism(cfg.Run.Mechanism)
	if err != nil {
		return nil, err
	}
	integ, err := reg.GetIntegrator(cfg.Run.Integrator)
	if err != nil {
		return nil, err
	}
	gas, err := thermo.NewIdealGas(mech)
	if err != nil {
		return nil, dynamo.Invalid("mechanism %s: %v", mech.Name, err)
	}

	a := &Assembly{Gas: gas}
	reservoirs := []struct {
		dst  **reactor.Reservoir
		name string
		gas  config.GasConfig
	}{
		{&a.Fuel, "fuel", cfg.Fuel},
		{&a.Oxidizer, "oxidizer", cfg.Oxidizer},
		{&a.Igniter, "igniter", cfg.Igniter},
		{&a.Exhaust, "exhaust", cfg.Exhaust},
	}
	for _, r := range reservoirs {
		s, err := gasState(gas, r.name, r.gas)
		if err != nil {
			return nil, err
		}
		if *r.dst, err = reactor.NewReservoir(r.name, s); err != nil {
			return nil, err
		}
	}

	initial, err := gasState(gas, "chamber", cfg.Chamber.Gas())
	if err != nil {
		return nil, err
	}
	if a.Chamber, err = reactor.NewChamber("chamber", gas, initial, cfg.Chamber.Volume); err != nil {
		return nil, err
	}

	if a.FuelValve, err = reactor.NewValve("fuel", a.Fuel, a.Chamber, cfg.Valves.Fuel); err != nil {
		return nil, err
	}
	if a.OxidizerValve, err = reactor.NewValve("oxidizer", a.Oxidizer, a.Chamber, cfg.Valves.Oxidizer); err != nil {
		return nil, err
	}
	pulse, err := reactor.NewGaussianPulse(cfg.Pulse.Amplitude, cfg.Pulse.T0, cfg.Pulse.FWHM)
	if err != nil {
		return nil, err
	}
	if a.IgniterFlow, err = reactor.NewMassFlowController("igniter", a.Igniter, a.Chamber, pulse); err != nil {
		return nil, err
	}
	if a.ExhaustValve, err = reactor.NewValve("exhaust", a.Chamber, a.Exhaust, cfg.Valves.Exhaust); err != nil {
		return nil, err
	}

	for _, d := range []reactor.FlowDevice{a.FuelValve, a.OxidizerValve, a.IgniterFlow, a.ExhaustValve} {
		if err := a.Chamber.Connect(d); err != nil {
			return nil, err
		}
	}

	if a.Network, err = sim.New(a.Chamber, a.ExhaustValve, integ, cfg.Step()); err != nil {
		return nil, err
	}
	return a, nil
}

// DeviceNames names the entries of sim.Sample.Flows.
func (a *Assembly) DeviceNames() []string {
	devices := a.Chamber.Devices()
	names := make([]string, len(devices))
	for i, d := range devices {
		names[i] = d.Name()
	}
	return names
}

func gasState(gas *thermo.IdealGas, name string, g config.GasConfig) (thermo.GasState, error) {
	comp, err := thermo.ParseComposition(g.Composition)
	if err != nil {
		return thermo.GasState{}, dynamo.Invalid("%s: %v", name, err)
	}
	s, err := gas.StateTPX(g.Temperature, g.Pressure, comp)
	if err != nil {
		return thermo.GasState{}, dynamo.Invalid("%s: %v", name, err)
	}
	return s, nil
}

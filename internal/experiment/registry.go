package experiment

import (
	"sort"

	"github.com/san-kum/combustor/internal/dynamo"
	"github.com/san-kum/combustor/internal/integrators"
	"github.com/san-kum/combustor/internal/metrics"
	"github.com/san-kum/combustor/internal/thermo"
)

// Registry maps configuration names to integrators and kinetics.
type Registry struct {
	mechanisms  map[string]func() thermo.Mechanism
	integrators map[string]func() dynamo.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		mechanisms:  make(map[string]func() thermo.Mechanism),
		integrators: make(map[string]func() dynamo.Integrator),
	}

	r.mechanisms["propane-global"] = thermo.PropaneGlobal
	r.mechanisms["inert"] = func() thermo.Mechanism { return thermo.Inert(thermo.KnownSpecies()...) }

	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }
	r.integrators["rk45"] = func() dynamo.Integrator { return integrators.NewRK45() }

	return r
}

func (r *Registry) GetMechanism(name string) (thermo.Mechanism, error) {
	fn, ok := r.mechanisms[name]
	if !ok {
		return thermo.Mechanism{}, dynamo.Invalid("unknown mechanism: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, dynamo.Invalid("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListMechanisms() []string  { return sortedKeys(r.mechanisms) }
func (r *Registry) ListIntegrators() []string { return sortedKeys(r.integrators) }

// DefaultMetrics returns fresh streaming metrics for one run.
func (r *Registry) DefaultMetrics() []metrics.Metric {
	return metrics.Default()
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

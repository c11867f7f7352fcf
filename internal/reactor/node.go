package reactor

import (
	"github.com/san-kum/combustor/internal/dynamo"
	"github.com/san-kum/combustor/internal/thermo"
)

// Node is an endpoint of a flow device.
type Node interface {
	Name() string
	State() thermo.GasState
}

// Reservoir is an infinite-capacity node whose state never changes.
type Reservoir struct {
	name  string
	state thermo.GasState
}

// NewReservoir takes ownership of a private copy of s.
func NewReservoir(name string, s thermo.GasState) (*Reservoir, error) {
	if s.IsZero() {
		return nil, dynamo.Invalid("reservoir %q has no gas state", name)
	}
	return &Reservoir{name: name, state: s.Clone()}, nil
}

func (r *Reservoir) Name() string { return r.name }

func (r *Reservoir) State() thermo.GasState { return r.state.Clone() }

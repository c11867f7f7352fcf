package sim

import (
	"github.com/san-kum/combustor/internal/thermo"
)

// Status is the lifecycle state of a Network.
type Status int

const (
	Running Status = iota
	Completed
	Failed
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Sample is one recorded point of a run. It is never modified after it is
// appended to a Series.
type Sample struct {
	Time     float64
	State    thermo.GasState
	Velocity float64
	Thrust   float64
	// Flows holds the mass flow in kg/s of every chamber device, inlets
	// first, at the start of the step that produced this sample.
	Flows []float64
	// Dt is the step that produced the sample; zero for the initial one.
	Dt float64
}

func (s Sample) Pressure() float64    { return s.State.P() }
func (s Sample) Temperature() float64 { return s.State.T() }
func (s Sample) Density() float64     { return s.State.Density() }

func (s Sample) clone() Sample {
	s.State = s.State.Clone()
	s.Flows = append([]float64(nil), s.Flows...)
	return s
}

// Observer is notified after every recorded sample, on the stepping
// goroutine.
type Observer interface {
	OnSample(step int, s Sample)
}

// ObserverFunc adapts an ordinary function to an Observer.
type ObserverFunc func(step int, s Sample)

func (f ObserverFunc) OnSample(step int, s Sample) { f(step, s) }

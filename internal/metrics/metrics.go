// Package metrics reduces a run to scalar figures of merit, either
// incrementally as samples are recorded or in one pass over a finished
// series.
package metrics

import (
	"math"

	"github.com/san-kum/combustor/internal/sim"
)

// Metric observes samples as they are recorded. Every Metric is also a
// sim.Observer.
type Metric interface {
	sim.Observer
	Name() string
	Value() float64
	Reset()
}

// Peak tracks the maximum of one sample quantity.
type Peak struct {
	name  string
	get   func(sim.Sample) float64
	max   float64
	empty bool
}

func newPeak(name string, get func(sim.Sample) float64) *Peak {
	return &Peak{name: name, get: get, empty: true}
}

func NewPeakPressure() *Peak    { return newPeak("peak_pressure", sim.Sample.Pressure) }
func NewPeakTemperature() *Peak { return newPeak("peak_temperature", sim.Sample.Temperature) }
func NewPeakThrust() *Peak {
	return newPeak("peak_thrust", func(s sim.Sample) float64 { return s.Thrust })
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) OnSample(_ int, s sim.Sample) {
	v := p.get(s)
	if p.empty || v > p.max {
		p.max = v
		p.empty = false
	}
}

func (p *Peak) Value() float64 { return p.max }

func (p *Peak) Reset() {
	p.max = 0
	p.empty = true
}

// Impulse integrates thrust over time with the trapezoidal rule.
type Impulse struct {
	total    float64
	lastT    float64
	lastF    float64
	observed bool
}

func NewImpulse() *Impulse { return &Impulse{} }

func (i *Impulse) Name() string { return "total_impulse" }

func (i *Impulse) OnSample(_ int, s sim.Sample) {
	if i.observed {
		i.total += 0.5 * (s.Thrust + i.lastF) * (s.Time - i.lastT)
	}
	i.lastT, i.lastF = s.Time, s.Thrust
	i.observed = true
}

func (i *Impulse) Value() float64 { return i.total }

func (i *Impulse) Reset() { *i = Impulse{} }

// MeanVelocity is the time-weighted mean exhaust velocity, each sample
// weighted by the step that produced it.
type MeanVelocity struct {
	weighted float64
	elapsed  float64
}

func NewMeanVelocity() *MeanVelocity { return &MeanVelocity{} }

func (m *MeanVelocity) Name() string { return "mean_velocity" }

func (m *MeanVelocity) OnSample(_ int, s sim.Sample) {
	m.weighted += s.Velocity * s.Dt
	m.elapsed += s.Dt
}

func (m *MeanVelocity) Value() float64 {
	if m.elapsed == 0 {
		return 0
	}
	return m.weighted / m.elapsed
}

func (m *MeanVelocity) Reset() { *m = MeanVelocity{} }

// Default returns one of each metric, in reporting order.
func Default() []Metric {
	return []Metric{
		NewPeakPressure(),
		NewPeakTemperature(),
		NewPeakThrust(),
		NewImpulse(),
		NewMeanVelocity(),
	}
}

// Values collects metric values by name.
func Values(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		v := m.Value()
		if math.IsNaN(v) {
			continue
		}
		out[m.Name()] = v
	}
	return out
}

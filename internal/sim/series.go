package sim

import (
	"errors"
	"fmt"
)

// ErrNonMonotonic is returned when a sample does not advance time.
var ErrNonMonotonic = errors.New("sim: sample time must be strictly increasing")

// Series is an append-only record of samples in time order.
type Series struct {
	samples []Sample
}

func NewSeries(capacity int) *Series {
	return &Series{samples: make([]Sample, 0, capacity)}
}

// Append records s. Its time must be strictly greater than the last one.
func (r *Series) Append(s Sample) error {
	if n := len(r.samples); n > 0 && !(s.Time > r.samples[n-1].Time) {
		return fmt.Errorf("%w: %g after %g", ErrNonMonotonic, s.Time, r.samples[n-1].Time)
	}
	r.samples = append(r.samples, s.clone())
	return nil
}

func (r *Series) Len() int { return len(r.samples) }

func (r *Series) At(i int) Sample { return r.samples[i].clone() }

// Last returns the most recent sample, or false if the series is empty.
func (r *Series) Last() (Sample, bool) {
	if len(r.samples) == 0 {
		return Sample{}, false
	}
	return r.samples[len(r.samples)-1].clone(), true
}

// Samples returns a copy of every recorded sample.
func (r *Series) Samples() []Sample {
	out := make([]Sample, len(r.samples))
	for i, s := range r.samples {
		out[i] = s.clone()
	}
	return out
}

func (r *Series) column(f func(Sample) float64) []float64 {
	out := make([]float64, len(r.samples))
	for i, s := range r.samples {
		out[i] = f(s)
	}
	return out
}

func (r *Series) Times() []float64        { return r.column(func(s Sample) float64 { return s.Time }) }
func (r *Series) Pressures() []float64    { return r.column(Sample.Pressure) }
func (r *Series) Temperatures() []float64 { return r.column(Sample.Temperature) }
func (r *Series) Densities() []float64    { return r.column(Sample.Density) }
func (r *Series) Velocities() []float64 {
	return r.column(func(s Sample) float64 { return s.Velocity })
}
func (r *Series) Thrusts() []float64 { return r.column(func(s Sample) float64 { return s.Thrust }) }

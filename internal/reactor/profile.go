package reactor

import (
	"math"

	"github.com/san-kum/combustor/internal/dynamo"
)

// Profile maps elapsed time in s to a mass flow rate in kg/s.
type Profile interface {
	Rate(t float64) float64
}

// ProfileFunc adapts an ordinary function to a Profile.
type ProfileFunc func(t float64) float64

func (f ProfileFunc) Rate(t float64) float64 { return f(t) }

// ConstantRate is a time-independent flow rate.
type ConstantRate float64

func (c ConstantRate) Rate(float64) float64 { return float64(c) }

// GaussianPulse peaks at Amplitude when t == T0 and falls to half of it at
// T0 ± FWHM/2.
type GaussianPulse struct {
	Amplitude float64
	T0        float64
	FWHM      float64
}

func NewGaussianPulse(amplitude, t0, fwhm float64) (GaussianPulse, error) {
	if !(amplitude >= 0) {
		return GaussianPulse{}, dynamo.Invalid("pulse amplitude must be >= 0, got %g", amplitude)
	}
	if !(fwhm > 0) {
		return GaussianPulse{}, dynamo.Invalid("pulse fwhm must be > 0, got %g", fwhm)
	}
	if math.IsNaN(t0) || math.IsInf(t0, 0) {
		return GaussianPulse{}, dynamo.Invalid("pulse center must be finite, got %g", t0)
	}
	return GaussianPulse{Amplitude: amplitude, T0: t0, FWHM: fwhm}, nil
}

func (g GaussianPulse) Rate(t float64) float64 {
	d := t - g.T0
	return g.Amplitude * math.Exp(-d*d*4*math.Ln2/(g.FWHM*g.FWHM))
}

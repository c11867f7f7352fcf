package metrics

import (
	"github.com/san-kum/combustor/internal/sim"
)

// Summary holds the figures of merit of a finished run.
type Summary struct {
	Samples         int     `json:"samples"`
	Duration        float64 `json:"duration"`
	PeakPressure    float64 `json:"peak_pressure"`
	PeakTemperature float64 `json:"peak_temperature"`
	PeakThrust      float64 `json:"peak_thrust"`
	TotalImpulse    float64 `json:"total_impulse"`
	MeanVelocity    float64 `json:"mean_velocity"`
	FinalPressure   float64 `json:"final_pressure"`
	FinalTemp       float64 `json:"final_temperature"`
}

// Replay feeds every recorded sample to ms in order, numbering them from
// zero as they were recorded.
func Replay(series *sim.Series, ms ...Metric) {
	for i := 0; i < series.Len(); i++ {
		s := series.At(i)
		for _, m := range ms {
			m.OnSample(i, s)
		}
	}
}

// Summarize computes a Summary over the whole series by replaying it
// through the streaming metrics.
func Summarize(series *sim.Series) Summary {
	n := series.Len()
	if n == 0 {
		return Summary{}
	}

	peakP, peakT, peakF := NewPeakPressure(), NewPeakTemperature(), NewPeakThrust()
	impulse, velocity := NewImpulse(), NewMeanVelocity()
	Replay(series, peakP, peakT, peakF, impulse, velocity)

	first := series.At(0)
	last, _ := series.Last()
	return Summary{
		Samples:         n,
		Duration:        last.Time - first.Time,
		PeakPressure:    peakP.Value(),
		PeakTemperature: peakT.Value(),
		PeakThrust:      peakF.Value(),
		TotalImpulse:    impulse.Value(),
		MeanVelocity:    velocity.Value(),
		FinalPressure:   last.Pressure(),
		FinalTemp:       last.Temperature(),
	}
}

// Package export writes finished runs in formats meant for other tools:
// JSON for scripts and PNG charts for people.
package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/combustor/internal/experiment"
	"github.com/san-kum/combustor/internal/metrics"
)

type ExportData struct {
	Mechanism   string             `json:"mechanism"`
	Integrator  string             `json:"integrator"`
	Horizon     float64            `json:"horizon"`
	Status      string             `json:"status"`
	Error       string             `json:"error,omitempty"`
	Steps       int                `json:"steps"`
	Devices     []string           `json:"devices"`
	Times       []float64          `json:"times"`
	Pressure    []float64          `json:"pressure"`
	Temperature []float64          `json:"temperature"`
	Density     []float64          `json:"density"`
	Velocity    []float64          `json:"velocity"`
	Thrust      []float64          `json:"thrust"`
	Flows       [][]float64        `json:"flows"`
	Summary     metrics.Summary    `json:"summary"`
	Metrics     map[string]float64 `json:"metrics"`
}

func newExportData(mechanism, integrator string, horizon float64, res *experiment.Result) ExportData {
	series := res.Series
	data := ExportData{
		Mechanism:   mechanism,
		Integrator:  integrator,
		Horizon:     horizon,
		Status:      res.Status.String(),
		Steps:       res.Steps,
		Devices:     res.Devices,
		Times:       series.Times(),
		Pressure:    series.Pressures(),
		Temperature: series.Temperatures(),
		Density:     series.Densities(),
		Velocity:    series.Velocities(),
		Thrust:      series.Thrusts(),
		Flows:       make([][]float64, series.Len()),
		Summary:     res.Summary,
		Metrics:     res.Metrics,
	}
	for i, s := range series.Samples() {
		data.Flows[i] = s.Flows
	}
	if res.Err != nil {
		data.Error = res.Err.Error()
	}
	return data
}

func WriteJSON(w io.Writer, mechanism, integrator string, horizon float64, res *experiment.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(mechanism, integrator, horizon, res))
}

func ExportJSON(path string, mechanism, integrator string, horizon float64, res *experiment.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, mechanism, integrator, horizon, res)
}

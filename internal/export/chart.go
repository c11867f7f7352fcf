package export

import (
	"fmt"
	"io"
	"os"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartSeries is one named curve sharing the chart's time axis.
type ChartSeries struct {
	Name   string
	Values []float64
	// Secondary plots the curve against the right-hand axis.
	Secondary bool
}

// RenderChart draws the curves against times (in seconds, shown in ms) as
// a PNG.
func RenderChart(w io.Writer, title string, times []float64, curves ...ChartSeries) error {
	if len(times) < 2 {
		return fmt.Errorf("chart needs at least 2 samples, got %d", len(times))
	}

	ms := make([]float64, len(times))
	for i, t := range times {
		ms[i] = t * 1e3
	}

	colors := []drawing.Color{chart.ColorBlue, chart.ColorRed, chart.ColorGreen, chart.ColorOrange}
	graph := chart.Chart{
		Title: title,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{Name: "time [ms]"},
	}

	var primary, secondary []float64
	for i, c := range curves {
		if len(c.Values) != len(times) {
			return fmt.Errorf("curve %s has %d values for %d times", c.Name, len(c.Values), len(times))
		}
		s := chart.ContinuousSeries{
			Name:    c.Name,
			XValues: ms,
			YValues: c.Values,
			Style:   chart.Style{StrokeColor: colors[i%len(colors)], StrokeWidth: 2},
		}
		if c.Secondary {
			s.YAxis = chart.YAxisSecondary
			secondary = append(secondary, c.Values...)
		} else {
			primary = append(primary, c.Values...)
		}
		graph.Series = append(graph.Series, s)
	}

	graph.YAxis = chart.YAxis{Name: axisName(curves, false), Range: flatRange(primary)}
	if len(secondary) > 0 {
		graph.YAxisSecondary = chart.YAxis{Name: axisName(curves, true), Range: flatRange(secondary)}
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph.Render(chart.PNG, w)
}

// ChartFile renders to a new file at path.
func ChartFile(path, title string, times []float64, curves ...ChartSeries) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := RenderChart(f, title, times, curves...); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func axisName(curves []ChartSeries, secondary bool) string {
	for _, c := range curves {
		if c.Secondary == secondary {
			return c.Name
		}
	}
	return ""
}

// flatRange pins the axis when every value is equal; go-chart refuses a
// zero-width range.
func flatRange(values []float64) chart.Range {
	if len(values) == 0 {
		return nil
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo, hi = min(lo, v), max(hi, v)
	}
	if hi > lo {
		return nil
	}
	return &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
}

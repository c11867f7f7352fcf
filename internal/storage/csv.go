package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/combustor/internal/sim"
)

// Columns written before the per-device flows and mass fractions.
var baseColumns = []string{"time", "pressure", "temperature", "density", "velocity", "thrust", "dt"}

// WriteCSV writes one row per sample: the base columns, then mdot_<device>
// for every name in devices, then Y_<species> for every species of the
// first sample's state.
func WriteCSV(w io.Writer, series *sim.Series, devices []string) error {
	cw := csv.NewWriter(w)
	if series.Len() == 0 {
		cw.Flush()
		return cw.Error()
	}

	species := series.At(0).State.SpeciesNames()
	header := append([]string(nil), baseColumns...)
	for _, d := range devices {
		header = append(header, "mdot_"+d)
	}
	for _, sp := range species {
		header = append(header, "Y_"+sp)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, 0, len(header))
	for _, s := range series.Samples() {
		row = row[:0]
		for _, v := range []float64{s.Time, s.Pressure(), s.Temperature(), s.Density(), s.Velocity, s.Thrust, s.Dt} {
			row = append(row, formatFloat(v))
		}
		for i := range devices {
			v := 0.0
			if i < len(s.Flows) {
				v = s.Flows[i]
			}
			row = append(row, formatFloat(v))
		}
		for _, y := range s.State.Y() {
			row = append(row, formatFloat(y))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// Table is a CSV read back into named columns.
type Table struct {
	Header  []string
	columns map[string][]float64
}

func (t *Table) Len() int {
	if len(t.Header) == 0 {
		return 0
	}
	return len(t.columns[t.Header[0]])
}

// Column returns the named column, or false if it does not exist.
func (t *Table) Column(name string) ([]float64, bool) {
	c, ok := t.columns[name]
	return c, ok
}

func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	t := &Table{columns: make(map[string][]float64)}
	if len(records) == 0 {
		return t, nil
	}

	t.Header = records[0]
	for _, name := range t.Header {
		t.columns[name] = make([]float64, 0, len(records)-1)
	}
	for i, record := range records[1:] {
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %s: %w", i+1, t.Header[j], err)
			}
			name := t.Header[j]
			t.columns[name] = append(t.columns[name], v)
		}
	}
	return t, nil
}

package sim

import (
	"errors"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/combustor/internal/thermo"
)

func oxygen(t *testing.T, temp float64) thermo.GasState {
	t.Helper()
	gas, err := thermo.NewIdealGas(thermo.Inert("O2"))
	if err != nil {
		t.Fatal(err)
	}
	s, err := gas.StateTPX(temp, thermo.OneAtm, thermo.Composition{"O2": 1})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSeriesRejectsNonIncreasingTime(t *testing.T) {
	s := NewSeries(4)
	state := oxygen(t, 300)

	if err := s.Append(Sample{Time: 0, State: state}); err != nil {
		t.Fatalf("first append: %v", err)
	}
	if err := s.Append(Sample{Time: 1e-6, State: state}); err != nil {
		t.Fatalf("second append: %v", err)
	}

	for _, tm := range []float64{1e-6, 5e-7, 0} {
		if err := s.Append(Sample{Time: tm, State: state}); !errors.Is(err, ErrNonMonotonic) {
			t.Errorf("Append(t=%g) error = %v, want ErrNonMonotonic", tm, err)
		}
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
}

func TestSeriesColumns(t *testing.T) {
	g := NewWithT(t)
	s := NewSeries(0)

	for i, temp := range []float64{300, 400, 500} {
		g.Expect(s.Append(Sample{
			Time:     float64(i),
			State:    oxygen(t, temp),
			Velocity: float64(10 * i),
			Thrust:   float64(100 * i),
		})).To(Succeed())
	}

	g.Expect(s.Times()).To(Equal([]float64{0, 1, 2}))
	g.Expect(s.Temperatures()).To(Equal([]float64{300, 400, 500}))
	g.Expect(s.Velocities()).To(Equal([]float64{0, 10, 20}))
	g.Expect(s.Thrusts()).To(Equal([]float64{0, 100, 200}))
	g.Expect(s.Pressures()).To(HaveEach(Equal(thermo.OneAtm)))

	d := s.Densities()
	g.Expect(d[0]).To(BeNumerically(">", d[1]))
	g.Expect(d[1]).To(BeNumerically(">", d[2]))
}

func TestSeriesSamplesAreCopies(t *testing.T) {
	g := NewWithT(t)
	s := NewSeries(1)
	flows := []float64{1, 2}
	g.Expect(s.Append(Sample{Time: 0, State: oxygen(t, 300), Flows: flows})).To(Succeed())

	flows[0] = 99
	got := s.Samples()
	got[0].Flows[1] = 42

	g.Expect(s.At(0).Flows).To(Equal([]float64{1, 2}))

	_, ok := NewSeries(0).Last()
	g.Expect(ok).To(BeFalse())
}

func TestStatusString(t *testing.T) {
	tests := map[Status]string{
		Running:    "running",
		Completed:  "completed",
		Failed:     "failed",
		Status(42): "unknown",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("Status(%d).String() = %q, want %q", int(s), got, want)
		}
	}
}

package optim

import (
	"context"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/combustor/internal/config"
	"github.com/san-kum/combustor/internal/sim"
)

func shortBase() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Run.Horizon = 2e-5
	return cfg
}

func TestNewGridSearch(t *testing.T) {
	tests := []struct {
		name   string
		params []Param
		ranges [][]float64
	}{
		{"no params", nil, nil},
		{"length mismatch", []Param{FuelValve}, [][]float64{{1}, {2}}},
		{"unknown param", []Param{"pressure"}, [][]float64{{1}}},
		{"empty range", []Param{Volume}, [][]float64{{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGridSearch(tt.params, tt.ranges)
			NewWithT(t).Expect(err).To(HaveOccurred())
		})
	}
}

func TestSearchPicksExtremes(t *testing.T) {
	g := NewWithT(t)
	gs, err := NewGridSearch([]Param{OxidizerValve}, [][]float64{{0, 4e-5, 8e-5}})
	g.Expect(err).NotTo(HaveOccurred())

	best, all, err := gs.Search(context.Background(), shortBase(), "peak_pressure", true)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(all).To(HaveLen(3))
	g.Expect(best.Params[OxidizerValve]).To(Equal(8e-5))
	g.Expect(best.Status).To(Equal(sim.Completed))

	best, _, err = gs.Search(context.Background(), shortBase(), "peak_pressure", false)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(best.Params[OxidizerValve]).To(Equal(0.0))
}

func TestSearchGridOrder(t *testing.T) {
	g := NewWithT(t)
	gs, err := NewGridSearch(
		[]Param{FuelValve, Volume},
		[][]float64{{2e-5, 4e-5}, {0.01, 0.02, 0.03}},
	)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(gs.Size()).To(Equal(6))

	_, all, err := gs.Search(context.Background(), shortBase(), "total_impulse", true)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(all).To(HaveLen(6))
	g.Expect(all[0].Params).To(Equal(map[Param]float64{FuelValve: 2e-5, Volume: 0.01}))
	g.Expect(all[5].Params).To(Equal(map[Param]float64{FuelValve: 4e-5, Volume: 0.03}))
}

func TestSearchBaseUntouched(t *testing.T) {
	g := NewWithT(t)
	base := shortBase()
	gs, _ := NewGridSearch([]Param{ExhaustValve}, [][]float64{{1e-4}})

	_, _, err := gs.Search(context.Background(), base, "peak_pressure", true)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(base.Valves.Exhaust).To(Equal(config.DefaultConfig().Valves.Exhaust))
}

func TestSearchRejectedPoints(t *testing.T) {
	g := NewWithT(t)
	gs, _ := NewGridSearch([]Param{Volume}, [][]float64{{-1, 0.015}})

	best, all, err := gs.Search(context.Background(), shortBase(), "peak_pressure", true)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(all[0].Err).To(HaveOccurred())
	g.Expect(all[0].Status).To(Equal(sim.Failed))
	g.Expect(best.Params[Volume]).To(Equal(0.015))

	gs, _ = NewGridSearch([]Param{Volume}, [][]float64{{-1}})
	_, _, err = gs.Search(context.Background(), shortBase(), "peak_pressure", true)
	g.Expect(err).To(MatchError(ContainSubstring("no grid point completed")))
}

func TestSearchErrors(t *testing.T) {
	g := NewWithT(t)
	gs, _ := NewGridSearch([]Param{Volume}, [][]float64{{0.015}})

	_, _, err := gs.Search(context.Background(), shortBase(), "fuel_economy", true)
	g.Expect(err).To(MatchError(ContainSubstring("unknown metric")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = gs.Search(ctx, shortBase(), "peak_pressure", true)
	g.Expect(err).To(MatchError(context.Canceled))
}

package reactor_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/combustor/internal/dynamo"
	"github.com/san-kum/combustor/internal/integrators"
	"github.com/san-kum/combustor/internal/reactor"
	"github.com/san-kum/combustor/internal/thermo"
)

var _ = Describe("Reservoir", func() {
	It("returns the exact state it was built from", func() {
		gas, err := thermo.NewIdealGas(thermo.PropaneGlobal())
		Expect(err).NotTo(HaveOccurred())
		s, err := gas.StateTPX(350, 50*thermo.OneAtm, thermo.Composition{"C3H8": 1})
		Expect(err).NotTo(HaveOccurred())

		r := mustReservoir("fuel", s)
		Expect(r.Name()).To(Equal("fuel"))
		Expect(r.State().Equal(s)).To(BeTrue())

		y := r.State().Y()
		y[0] = 0.5
		Expect(r.State().Equal(s)).To(BeTrue())
	})

	It("rejects an empty state", func() {
		_, err := reactor.NewReservoir("x", thermo.GasState{})
		Expect(err).To(MatchError(dynamo.ErrInvalidConfiguration))
	})
})

var _ = Describe("Chamber", func() {
	const volume = 0.015

	var (
		gas     *thermo.IdealGas
		initial thermo.GasState
		chamber *reactor.Chamber
	)

	BeforeEach(func() {
		var err error
		gas, err = thermo.NewIdealGas(thermo.Inert("O2", "N2"))
		Expect(err).NotTo(HaveOccurred())
		initial = oxygenAt(gas, 300, 1.1*thermo.OneAtm)
		chamber, err = reactor.NewChamber("chamber", gas, initial, volume)
		Expect(err).NotTo(HaveOccurred())
	})

	DescribeTable("rejects non-positive volumes",
		func(v float64) {
			_, err := reactor.NewChamber("c", gas, initial, v)
			Expect(err).To(MatchError(dynamo.ErrInvalidConfiguration))
		},
		Entry("zero", 0.0),
		Entry("negative", -0.015),
		Entry("NaN", math.NaN()),
	)

	It("starts from the configured initial condition", func() {
		Expect(chamber.State().Equal(initial)).To(BeTrue())
		Expect(chamber.Mass()).To(BeNumerically("~", initial.Density()*volume, 1e-15))
		Expect(chamber.StateDim()).To(Equal(4))
	})

	It("has zero derivative when isolated and inert", func() {
		dx := chamber.Derive(chamber.Vector(), 0)
		for _, v := range dx {
			Expect(v).To(BeNumerically("~", 0, 1e-12))
		}
	})

	It("heats up when filled with gas at its own temperature", func() {
		supply := mustReservoir("supply", oxygenAt(gas, 300, 10*thermo.OneAtm))
		v, err := reactor.NewValve("in", supply, chamber, 4e-5)
		Expect(err).NotTo(HaveOccurred())
		Expect(chamber.Connect(v)).To(Succeed())

		mdot := 4e-5 * (10*thermo.OneAtm - initial.P())
		dx := chamber.Derive(chamber.Vector(), 0)
		Expect(dx[0]).To(BeNumerically("~", mdot, mdot*1e-12))

		k := initial.K()
		want := mdot * (k - 1) * initial.T() / chamber.Mass()
		Expect(dx[1]).To(BeNumerically("~", want, math.Abs(want)*1e-9))
		Expect(chamber.Flows(0)).To(ConsistOf(BeNumerically("~", mdot, mdot*1e-12)))
	})

	It("cools isentropically when venting", func() {
		sink := mustReservoir("sink", oxygenAt(gas, 300, thermo.OneAtm))
		v, err := reactor.NewValve("out", chamber, sink, 5e-4)
		Expect(err).NotTo(HaveOccurred())
		Expect(chamber.Connect(v)).To(Succeed())

		mdot := 5e-4 * (initial.P() - thermo.OneAtm)
		dx := chamber.Derive(chamber.Vector(), 0)
		Expect(dx[0]).To(BeNumerically("~", -mdot, mdot*1e-12))

		want := -(initial.K() - 1) * initial.T() * mdot / chamber.Mass()
		Expect(dx[1]).To(BeNumerically("~", want, math.Abs(want)*1e-9))
	})

	It("mixes inflow composition into the chamber", func() {
		n2, err := gas.StateTPX(300, 10*thermo.OneAtm, thermo.Composition{"N2": 1})
		Expect(err).NotTo(HaveOccurred())
		supply := mustReservoir("n2", n2)
		v, err := reactor.NewValve("in", supply, chamber, 1e-6)
		Expect(err).NotTo(HaveOccurred())
		Expect(chamber.Connect(v)).To(Succeed())

		dx := chamber.Derive(chamber.Vector(), 0)
		o2, _ := gas.Index("O2")
		nitrogen, _ := gas.Index("N2")
		Expect(dx[2+o2]).To(BeNumerically("<", 0))
		Expect(dx[2+nitrogen]).To(BeNumerically("~", -dx[2+o2], 1e-12))
	})

	It("refuses devices that do not touch it", func() {
		a := mustReservoir("a", initial)
		b := mustReservoir("b", initial)
		v, err := reactor.NewValve("stray", a, b, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(chamber.Connect(v)).To(MatchError(dynamo.ErrInvalidConfiguration))
	})

	It("advances toward the supply pressure", func() {
		supply := mustReservoir("supply", oxygenAt(gas, 300, 10*thermo.OneAtm))
		v, err := reactor.NewValve("in", supply, chamber, 4e-5)
		Expect(err).NotTo(HaveOccurred())
		Expect(chamber.Connect(v)).To(Succeed())

		cfg := dynamo.DefaultConfig()
		taken, next, err := chamber.Advance(integrators.NewRK45(), 0, 1e-6, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(taken).To(BeNumerically(">", 0))
		Expect(taken).To(BeNumerically("<=", 1e-6))
		Expect(next).To(BeNumerically("<=", cfg.MaxDt))
		Expect(chamber.State().P()).To(BeNumerically(">", initial.P()))
		Expect(chamber.State().T()).To(BeNumerically(">", initial.T()))
	})

	It("takes error-controlled steps with a fixed-step integrator", func() {
		supply := mustReservoir("supply", oxygenAt(gas, 300, 10*thermo.OneAtm))
		v, err := reactor.NewValve("in", supply, chamber, 4e-5)
		Expect(err).NotTo(HaveOccurred())
		Expect(chamber.Connect(v)).To(Succeed())

		taken, _, err := chamber.Advance(integrators.NewRK4(), 0, 1e-6, dynamo.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
		Expect(taken).To(BeNumerically(">", 0))
		Expect(chamber.Mass()).To(BeNumerically(">", initial.Density()*volume))
	})

	It("fails when the step cannot shrink far enough", func() {
		cfg := dynamo.DefaultConfig()
		cfg.MinDt = 1
		cfg.MaxDt = 2
		before := chamber.Vector()

		_, _, err := chamber.Advance(integrators.NewRK45(), 0, 1e-3, cfg)
		Expect(err).To(MatchError(dynamo.ErrStepTooSmall))
		Expect(chamber.Vector()).To(Equal(before))
	})

	It("does not commit a step that cannot move time", func() {
		supply := mustReservoir("supply", oxygenAt(gas, 300, 10*thermo.OneAtm))
		v, err := reactor.NewValve("in", supply, chamber, 4e-5)
		Expect(err).NotTo(HaveOccurred())
		Expect(chamber.Connect(v)).To(Succeed())
		before := chamber.Vector()

		taken, next, err := chamber.Advance(integrators.NewRK45(), 1e5, 1e-14, dynamo.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
		Expect(taken).To(BeZero())
		Expect(next).To(Equal(1e-14))
		Expect(chamber.Vector()).To(Equal(before))
	})
})

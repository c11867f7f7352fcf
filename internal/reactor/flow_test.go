package reactor_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/combustor/internal/dynamo"
	"github.com/san-kum/combustor/internal/reactor"
	"github.com/san-kum/combustor/internal/thermo"
)

func oxygenAt(gas *thermo.IdealGas, t, p float64) thermo.GasState {
	s, err := gas.StateTPX(t, p, thermo.Composition{"O2": 1})
	Expect(err).NotTo(HaveOccurred())
	return s
}

func mustReservoir(name string, s thermo.GasState) *reactor.Reservoir {
	r, err := reactor.NewReservoir(name, s)
	Expect(err).NotTo(HaveOccurred())
	return r
}

var _ = Describe("Valve", func() {
	var (
		gas  *thermo.IdealGas
		high *reactor.Reservoir
		low  *reactor.Reservoir
	)

	BeforeEach(func() {
		var err error
		gas, err = thermo.NewIdealGas(thermo.Inert("O2", "N2"))
		Expect(err).NotTo(HaveOccurred())
		high = mustReservoir("high", oxygenAt(gas, 300, 5*thermo.OneAtm))
		low = mustReservoir("low", oxygenAt(gas, 300, thermo.OneAtm))
	})

	DescribeTable("blocks backflow",
		func(dp float64) {
			Expect(reactor.ValveFlow(4e-5, dp)).To(BeZero())
		},
		Entry("zero drop", 0.0),
		Entry("small reverse drop", -1e-9),
		Entry("large reverse drop", -5e6),
	)

	DescribeTable("is linear in a positive pressure drop",
		func(coeff, dp float64) {
			Expect(reactor.ValveFlow(coeff, dp)).To(BeNumerically("~", coeff*dp, 1e-18))
			Expect(reactor.ValveFlow(coeff, 2*dp)).To(BeNumerically("~", 2*reactor.ValveFlow(coeff, dp), 1e-18))
		},
		Entry("fuel valve", 4e-5, 4.9e6),
		Entry("exhaust valve", 5e-4, 1e4),
		Entry("closed valve", 0.0, 1e5),
	)

	It("reads the endpoint pressures it is given", func() {
		v, err := reactor.NewValve("v", high, low, 4e-5)
		Expect(err).NotTo(HaveOccurred())

		forward := v.MassFlow(0, high.State(), low.State())
		Expect(forward).To(BeNumerically("~", 4e-5*4*thermo.OneAtm, 1e-9))
		Expect(v.MassFlow(0, low.State(), high.State())).To(BeZero())
		Expect(v.Content().Equal(high.State())).To(BeTrue())
	})

	It("rejects invalid coefficients and endpoints", func() {
		_, err := reactor.NewValve("v", high, low, -1)
		Expect(err).To(MatchError(dynamo.ErrInvalidConfiguration))

		_, err = reactor.NewValve("v", high, high, 1)
		Expect(err).To(MatchError(dynamo.ErrInvalidConfiguration))

		_, err = reactor.NewValve("v", nil, low, 1)
		Expect(err).To(MatchError(dynamo.ErrInvalidConfiguration))

		v, err := reactor.NewValve("v", high, low, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(v.SetCoefficient(math.NaN())).To(MatchError(dynamo.ErrInvalidConfiguration))
		Expect(v.Coefficient()).To(Equal(1.0))
	})
})

var _ = Describe("GaussianPulse", func() {
	It("peaks at the amplitude exactly at t0", func() {
		p, err := reactor.NewGaussianPulse(0.01, 0.05, 0.008)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Rate(0.05)).To(Equal(0.01))
		Expect(p.Rate(0.049)).To(BeNumerically("<", 0.01))
		Expect(p.Rate(0.051)).To(BeNumerically("<", 0.01))
	})

	It("is symmetric about t0", func() {
		p, err := reactor.NewGaussianPulse(2, 0.5, 0.125)
		Expect(err).NotTo(HaveOccurred())
		for _, d := range []float64{0.015625, 0.0625, 0.25} {
			Expect(p.Rate(0.5 + d)).To(Equal(p.Rate(0.5 - d)))
		}
	})

	It("falls to half maximum at t0 ± fwhm/2", func() {
		p, err := reactor.NewGaussianPulse(0.01, 0.05, 0.008)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Rate(0.05 + 0.004)).To(BeNumerically("~", 0.005, 1e-12))
	})

	It("rejects invalid parameters", func() {
		_, err := reactor.NewGaussianPulse(-1, 0, 1)
		Expect(err).To(MatchError(dynamo.ErrInvalidConfiguration))
		_, err = reactor.NewGaussianPulse(1, 0, 0)
		Expect(err).To(MatchError(dynamo.ErrInvalidConfiguration))
	})
})

var _ = Describe("MassFlowController", func() {
	It("follows its profile regardless of pressure", func() {
		gas, err := thermo.NewIdealGas(thermo.Inert("O2"))
		Expect(err).NotTo(HaveOccurred())
		a := mustReservoir("a", oxygenAt(gas, 300, thermo.OneAtm))
		b := mustReservoir("b", oxygenAt(gas, 300, 10*thermo.OneAtm))

		m, err := reactor.NewMassFlowController("igniter", a, b, reactor.ConstantRate(0.3))
		Expect(err).NotTo(HaveOccurred())
		Expect(m.MassFlow(1, a.State(), b.State())).To(Equal(0.3))

		neg, err := reactor.NewMassFlowController("n", a, b, reactor.ProfileFunc(func(float64) float64 { return -1 }))
		Expect(err).NotTo(HaveOccurred())
		Expect(neg.MassFlow(0, a.State(), b.State())).To(BeZero())

		_, err = reactor.NewMassFlowController("none", a, b, nil)
		Expect(err).To(MatchError(dynamo.ErrInvalidConfiguration))
	})
})

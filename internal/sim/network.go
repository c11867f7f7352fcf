// Package sim drives a reactor network through time and records what it
// produces.
package sim

import (
	"context"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/san-kum/combustor/internal/dynamo"
	"github.com/san-kum/combustor/internal/nozzle"
	"github.com/san-kum/combustor/internal/reactor"
)

type valveSetting struct {
	valve *reactor.Valve
	coeff float64
}

// Network owns one chamber, the devices attached to it and the series it
// records. It is not safe for concurrent use.
type Network struct {
	chamber *reactor.Chamber
	exhaust *reactor.Valve
	valves  []valveSetting
	integ   dynamo.Integrator
	cfg     dynamo.Config

	t, dt  float64
	steps  int
	stalls int
	status Status
	err    error

	series    *Series
	observers []Observer
	logger    *log.Entry
}

// New validates the step configuration, captures the valve coefficients
// currently set on the chamber's devices and records the initial condition
// as sample 0 at t = 0. exhaust must be an outlet of chamber.
func New(chamber *reactor.Chamber, exhaust *reactor.Valve, integ dynamo.Integrator, cfg dynamo.Config) (*Network, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if chamber == nil || integ == nil {
		return nil, dynamo.Invalid("network needs a chamber and an integrator")
	}
	if exhaust == nil || exhaust.Upstream() != reactor.Node(chamber) {
		return nil, dynamo.Invalid("exhaust valve must drain chamber %q", chamber.Name())
	}

	n := &Network{
		chamber: chamber,
		exhaust: exhaust,
		integ:   integ,
		cfg:     cfg,
		dt:      math.Min(cfg.Dt, cfg.MaxDt),
		status:  Running,
		series:  NewSeries(1024),
		logger:  log.WithField("chamber", chamber.Name()),
	}

	attached := false
	for _, d := range chamber.Devices() {
		if d == reactor.FlowDevice(exhaust) {
			attached = true
		}
		if v, ok := d.(*reactor.Valve); ok {
			n.valves = append(n.valves, valveSetting{valve: v, coeff: v.Coefficient()})
		}
	}
	if !attached {
		return nil, dynamo.Invalid("exhaust valve %q is not connected to chamber %q", exhaust.Name(), chamber.Name())
	}

	if err := n.series.Append(n.sample(0, 0, chamber.Flows(0))); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *Network) AddObserver(o Observer) { n.observers = append(n.observers, o) }

func (n *Network) Status() Status        { return n.status }
func (n *Network) Time() float64         { return n.t }
func (n *Network) Steps() int            { return n.steps }
func (n *Network) Series() *Series       { return n.series }
func (n *Network) Config() dynamo.Config { return n.cfg }

// Err returns the failure that moved the network to Failed, if any.
func (n *Network) Err() error { return n.err }

// Chamber returns the chamber being integrated.
func (n *Network) Chamber() *reactor.Chamber { return n.chamber }

// BackPressure is the exhaust reservoir pressure the nozzle expands to.
func (n *Network) BackPressure() float64 { return n.exhaust.Downstream().State().P() }

// Step advances the network by one accepted integration step and records
// a sample. Calling Step on a network that is no longer Running returns
// the terminal error, or nil once Completed.
func (n *Network) Step() error {
	if n.status != Running {
		return n.err
	}
	if n.steps >= n.cfg.MaxSteps {
		return n.fail(fmt.Errorf("%w: %d steps without reaching t=%g", dynamo.ErrStall, n.steps, n.cfg.Horizon))
	}

	// Coefficients are fixed for the run. Re-applying them here is a no-op
	// that marks where time-varying valve schedules would be wired in.
	for _, s := range n.valves {
		if err := s.valve.SetCoefficient(s.coeff); err != nil {
			return n.fail(err)
		}
	}

	flows := n.chamber.Flows(n.t)
	state := n.chamber.State()
	n.logger.WithFields(log.Fields{
		"step":  n.steps,
		"t":     n.t,
		"dt":    n.dt,
		"P":     state.P(),
		"T":     state.T(),
		"flows": flows,
	}).Debug("advancing chamber")

	dt := n.dt
	if remaining := n.cfg.Horizon - n.t; dt > remaining {
		dt = remaining
	}

	taken, next, err := n.chamber.Advance(n.integ, n.t, dt, n.cfg)
	if err != nil {
		return n.fail(fmt.Errorf("%w: %w", dynamo.ErrNumericalDivergence, err))
	}

	t := n.t + taken
	if !(t > n.t) {
		n.stalls++
		n.logger.WithFields(log.Fields{"t": n.t, "dt": taken, "stalls": n.stalls}).Warn("step did not advance time")
		if n.stalls >= n.cfg.StallLimit {
			return n.fail(fmt.Errorf("%w: %d consecutive steps at t=%g", dynamo.ErrStall, n.stalls, n.t))
		}
		n.dt = next
		return nil
	}
	n.stalls = 0
	if n.cfg.Horizon-t < n.cfg.MinDt {
		t = n.cfg.Horizon
	}

	n.steps++
	sample := n.sample(t, taken, flows)
	if err := n.series.Append(sample); err != nil {
		return n.fail(err)
	}
	for _, o := range n.observers {
		o.OnSample(n.steps, sample)
	}

	n.t = t
	n.dt = next
	if n.t >= n.cfg.Horizon {
		n.status = Completed
		n.logger.WithFields(log.Fields{
			"steps": n.steps,
			"t":     n.t,
			"P":     sample.Pressure(),
			"T":     sample.Temperature(),
		}).Info("run completed")
	}
	return nil
}

// Run steps until the network completes, fails or ctx is done. The context
// is only checked between steps.
func (n *Network) Run(ctx context.Context) error {
	for n.status == Running {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := n.Step(); err != nil {
			return err
		}
	}
	return n.err
}

func (n *Network) sample(t, dt float64, flows []float64) Sample {
	s := n.chamber.State()
	v := nozzle.ExitVelocity(s.P(), s.T(), s.K(), s.MeanMolecularWeight(), n.BackPressure())
	return Sample{
		Time:     t,
		State:    s,
		Velocity: v,
		Thrust:   nozzle.Thrust(s.Density(), n.exhaust.Coefficient(), v),
		Flows:    flows,
		Dt:       dt,
	}
}

func (n *Network) fail(err error) error {
	n.status = Failed
	n.err = &dynamo.SimulationError{
		Step:    n.steps,
		Time:    n.t,
		State:   n.chamber.Vector(),
		Wrapped: err,
	}
	n.logger.WithError(err).WithField("t", n.t).Error("run failed")
	return n.err
}

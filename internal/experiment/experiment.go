// Package experiment turns a configuration into a running combustor and
// collects what the run produced.
package experiment

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/san-kum/combustor/internal/config"
	"github.com/san-kum/combustor/internal/metrics"
	"github.com/san-kum/combustor/internal/sim"
)

type Result struct {
	Status  sim.Status
	Steps   int
	Series  *sim.Series
	Devices []string
	Summary metrics.Summary
	Metrics map[string]float64
	Elapsed time.Duration
	// Err is the failure that stopped a Failed run.
	Err error
}

type Experiment struct {
	cfg      *config.Config
	registry *Registry
	assembly *Assembly
	metrics  []metrics.Metric
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{
		cfg:      cfg,
		registry: NewRegistry(),
	}
}

// Setup builds the network and attaches the default metrics plus any
// extra observers.
func (e *Experiment) Setup(observers ...sim.Observer) error {
	a, err := Build(e.cfg, e.registry)
	if err != nil {
		return err
	}
	e.assembly = a
	e.metrics = e.registry.DefaultMetrics()

	// sample 0 is recorded before any observer can attach
	first := a.Network.Series().At(0)
	for _, m := range e.metrics {
		m.OnSample(0, first)
		a.Network.AddObserver(m)
	}
	for _, o := range observers {
		a.Network.AddObserver(o)
	}

	log.WithFields(log.Fields{
		"mechanism":  e.cfg.Run.Mechanism,
		"integrator": e.cfg.Run.Integrator,
		"horizon":    e.cfg.Run.Horizon,
		"species":    len(a.Gas.Species()),
		"devices":    a.DeviceNames(),
	}).Info("network assembled")
	return nil
}

// Run drives the network to completion. A numerical failure is reported
// in Result.Err and the partial series is kept; other errors abort.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.assembly == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	net := e.assembly.Network

	start := time.Now()
	err := net.Run(ctx)
	if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return nil, err
	}

	return &Result{
		Status:  net.Status(),
		Steps:   net.Steps(),
		Series:  net.Series(),
		Devices: e.assembly.DeviceNames(),
		Summary: metrics.Summarize(net.Series()),
		Metrics: metrics.Values(e.metrics),
		Elapsed: time.Since(start),
		Err:     net.Err(),
	}, nil
}

// Network returns the assembled network, or nil before Setup.
func (e *Experiment) Network() *sim.Network {
	if e.assembly == nil {
		return nil
	}
	return e.assembly.Network
}

func (e *Experiment) Assembly() *Assembly    { return e.assembly }
func (e *Experiment) Config() *config.Config { return e.cfg }

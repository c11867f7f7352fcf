// Package optim sweeps run parameters over a grid and ranks the results by
// one of the run metrics.
package optim

import (
	"context"
	"fmt"
	"maps"
	"math"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/san-kum/combustor/internal/config"
	"github.com/san-kum/combustor/internal/experiment"
	"github.com/san-kum/combustor/internal/sim"
)

// Param names a configuration value a sweep may vary.
type Param string

const (
	FuelValve        Param = "fuel_valve"
	OxidizerValve    Param = "oxidizer_valve"
	ExhaustValve     Param = "exhaust_valve"
	Volume           Param = "volume"
	IgniterAmplitude Param = "igniter_amplitude"
)

func (p Param) apply(cfg *config.Config, v float64) {
	switch p {
	case FuelValve:
		cfg.Valves.Fuel = v
	case OxidizerValve:
		cfg.Valves.Oxidizer = v
	case ExhaustValve:
		cfg.Valves.Exhaust = v
	case Volume:
		cfg.Chamber.Volume = v
	case IgniterAmplitude:
		cfg.Pulse.Amplitude = v
	}
}

// Params lists the sweepable parameters.
func Params() []Param {
	return []Param{ExhaustValve, FuelValve, IgniterAmplitude, OxidizerValve, Volume}
}

func known(p Param) bool {
	for _, k := range Params() {
		if k == p {
			return true
		}
	}
	return false
}

// Point is one evaluated grid point.
type Point struct {
	Params map[Param]float64
	Value  float64
	Status sim.Status
	// Err is set when the run failed or the configuration was rejected.
	Err error
}

type GridSearch struct {
	paramNames []Param
	ranges     [][]float64
}

func NewGridSearch(params []Param, ranges [][]float64) (*GridSearch, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("grid search needs at least one parameter")
	}
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%d parameters but %d ranges", len(params), len(ranges))
	}
	for i, p := range params {
		if !known(p) {
			return nil, fmt.Errorf("unknown parameter: %s", p)
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("parameter %s has no values", p)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Size is the number of grid points.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search runs base with every grid point applied and returns the point
// with the smallest metric (largest when maximize is set) together with
// all points in grid order. Failed points are kept but never chosen.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metric string, maximize bool) (Point, []Point, error) {
	points := make([]Point, 0, g.Size())
	var err error
	g.searchRecursive(ctx, 0, make(map[Param]float64), base, metric, &points, &err)
	if err != nil {
		return Point{}, points, err
	}

	best := -1
	for i, p := range points {
		if p.Err != nil || math.IsNaN(p.Value) {
			continue
		}
		if best < 0 || (maximize && p.Value > points[best].Value) || (!maximize && p.Value < points[best].Value) {
			best = i
		}
	}
	if best < 0 {
		return Point{}, points, fmt.Errorf("no grid point completed")
	}
	return points[best], points, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[Param]float64,
	base *config.Config,
	metric string,
	points *[]Point,
	errp *error,
) {
	if *errp != nil {
		return
	}
	if depth == len(g.paramNames) {
		p, err := evaluate(ctx, base, current, metric)
		if err != nil {
			*errp = err
			return
		}
		*points = append(*points, p)
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := maps.Clone(current)
		newParams[paramName] = val
		g.searchRecursive(ctx, depth+1, newParams, base, metric, points, errp)
	}
}

// evaluate returns an error only for problems that stop the whole search.
func evaluate(ctx context.Context, base *config.Config, params map[Param]float64, metric string) (Point, error) {
	cfg := *base
	for p, v := range params {
		p.apply(&cfg, v)
	}
	point := Point{Params: params, Value: math.NaN()}

	exp := experiment.New(&cfg)
	if err := exp.Setup(); err != nil {
		point.Status = sim.Failed
		point.Err = err
		return point, nil
	}
	res, err := exp.Run(ctx)
	if err != nil {
		return point, err
	}

	point.Status = res.Status
	point.Err = res.Err
	if res.Err == nil {
		v, ok := res.Metrics[metric]
		if !ok {
			return point, fmt.Errorf("unknown metric: %s (available: %v)", metric, sortedNames(res.Metrics))
		}
		point.Value = v
	}

	log.WithFields(log.Fields{
		"params": params,
		"status": res.Status,
		metric:   point.Value,
	}).Debug("grid point evaluated")
	return point, nil
}

func sortedNames(m map[string]float64) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

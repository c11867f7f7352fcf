package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/combustor/internal/optim"
)

// parseGrid turns "name=v1,v2" flags into sweep parameters.
func parseGrid(args []string) ([]optim.Param, [][]float64, error) {
	var params []optim.Param
	var ranges [][]float64
	for _, arg := range args {
		name, list, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, nil, fmt.Errorf("bad --param %q: want name=v1,v2,...", arg)
		}
		var values []float64
		for _, field := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("bad value in --param %q: %w", arg, err)
			}
			values = append(values, v)
		}
		params = append(params, optim.Param(strings.TrimSpace(name)))
		ranges = append(ranges, values)
	}
	return params, ranges, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	params, ranges, err := parseGrid(sweepParams)
	if err != nil {
		return err
	}
	gs, err := optim.NewGridSearch(params, ranges)
	if err != nil {
		return fmt.Errorf("%w (parameters: %v)", err, optim.Params())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("sweeping %d points, t=%gs each...\n", gs.Size(), cfg.Run.Horizon)
	best, all, err := gs.Search(ctx, cfg, metric, maximize)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := make([]string, 0, len(params)+2)
	for _, p := range params {
		header = append(header, strings.ToUpper(string(p)))
	}
	header = append(header, strings.ToUpper(metric), "STATUS")
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, p := range all {
		row := make([]string, 0, len(header))
		for _, name := range params {
			row = append(row, strconv.FormatFloat(p.Params[name], 'g', 4, 64))
		}
		status := p.Status.String()
		if p.Err != nil {
			status += ": " + p.Err.Error()
		}
		row = append(row, strconv.FormatFloat(p.Value, 'g', 6, 64), status)
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()

	if err != nil {
		return err
	}

	names := make([]string, 0, len(best.Params))
	for p, v := range best.Params {
		names = append(names, fmt.Sprintf("%s=%g", p, v))
	}
	sort.Strings(names)
	fmt.Printf("\nbest: %s (%s %g)\n", strings.Join(names, " "), metric, best.Value)
	return nil
}

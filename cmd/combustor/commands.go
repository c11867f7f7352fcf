package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/san-kum/combustor/internal/experiment"
	"github.com/san-kum/combustor/internal/export"
	"github.com/san-kum/combustor/internal/server"
	"github.com/san-kum/combustor/internal/sim"
	"github.com/san-kum/combustor/internal/storage"
	"github.com/san-kum/combustor/internal/viz"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg)
	var observers []sim.Observer
	if trace {
		fmt.Printf("%-14s %-12s %-12s %-12s %-12s\n", "t [s]", "P [MPa]", "T [K]", "rho [kg/m3]", "v [m/s]")
		observers = append(observers, sim.ObserverFunc(func(step int, s sim.Sample) {
			fmt.Printf("%-14.6e %-12.6f %-12.3f %-12.5f %-12.3f\n",
				s.Time, s.Pressure()/1e6, s.Temperature(), s.Density(), s.Velocity)
		}))
	}
	if err := exp.Setup(observers...); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("running %s/%s to t=%gs...\n", cfg.Run.Mechanism, cfg.Run.Integrator, cfg.Run.Horizon)
	res, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%s in %v (%d steps)\n", res.Status, res.Elapsed, res.Steps)

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg.Run.Mechanism, cfg, res)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	if jsonOut != "" {
		if err := export.ExportJSON(jsonOut, cfg.Run.Mechanism, cfg.Run.Integrator, cfg.Run.Horizon, res); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", jsonOut)
	}
	if csvOut != "" {
		f, err := os.Create(csvOut)
		if err != nil {
			return err
		}
		if err := storage.WriteCSV(f, res.Series, res.Devices); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", csvOut)
	}
	if chartOut != "" {
		s := res.Series
		err := export.ChartFile(chartOut, "exhaust", s.Times(), exhaustCurves(s.Velocities(), s.Thrusts())...)
		if err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", chartOut)
	}

	printSummary(res)
	return res.Err
}

func exhaustCurves(velocity, thrust []float64) []export.ChartSeries {
	return []export.ChartSeries{
		{Name: "v [m/s]", Values: velocity},
		{Name: "thrust", Values: thrust, Secondary: true},
	}
}

func printSummary(res *experiment.Result) {
	s := res.Summary
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nsummary:")
	fmt.Fprintf(w, "  samples\t%d\n", s.Samples)
	fmt.Fprintf(w, "  final pressure\t%.4f MPa\n", s.FinalPressure/1e6)
	fmt.Fprintf(w, "  final temperature\t%.2f K\n", s.FinalTemp)
	fmt.Fprintf(w, "  peak pressure\t%.4f MPa\n", s.PeakPressure/1e6)
	fmt.Fprintf(w, "  peak temperature\t%.2f K\n", s.PeakTemperature)
	fmt.Fprintf(w, "  peak thrust\t%.6g\n", s.PeakThrust)
	fmt.Fprintf(w, "  total impulse\t%.6g\n", s.TotalImpulse)
	fmt.Fprintf(w, "  mean velocity\t%.3f m/s\n", s.MeanVelocity)
	w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	exp := experiment.New(cfg)
	if err := exp.Setup(); err != nil {
		return err
	}

	title := fmt.Sprintf("combustor %s/%s", cfg.Run.Mechanism, cfg.Run.Integrator)
	p := tea.NewProgram(viz.NewModel(exp.Network(), title, perTick), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func serve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	return server.NewServer(addr, upgrader, every).Serve(ctx)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tMECH\tINTEG\tHORIZON\tSTEPS\tSTATUS\tP_FINAL[MPa]")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%gs\t%d\t%s\t%.4f\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Mechanism,
			run.Integrator,
			run.Horizon,
			run.Steps,
			run.Status,
			run.Summary.FinalPressure/1e6,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	table, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	if table.Len() == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("status: %s\n", meta.Status)
	fmt.Printf("samples: %d\n\n", table.Len())

	plots := []struct {
		column  string
		caption string
		scale   float64
	}{
		{"pressure", "pressure [MPa]", 1e-6},
		{"temperature", "temperature [K]", 1},
		{"velocity", "exit velocity [m/s]", 1},
		{"thrust", "thrust", 1},
	}
	for _, p := range plots {
		values, ok := table.Column(p.column)
		if !ok {
			continue
		}
		scaled := make([]float64, len(values))
		for i, v := range values {
			scaled[i] = v * p.scale
		}
		fmt.Println(viz.Plot(scaled, p.caption, plotWidth, 10))
		fmt.Println()
	}
	return nil
}

func chartRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	table, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}

	times, ok := table.Column("time")
	if !ok {
		return fmt.Errorf("run %s has no time column", args[0])
	}
	velocity, _ := table.Column("velocity")
	thrust, _ := table.Column("thrust")

	err = export.ChartFile(args[1], args[0], times, exhaustCurves(velocity, thrust)...)
	if err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[1])
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/combustor/internal/config"
	"github.com/san-kum/combustor/internal/experiment"
)

var (
	dataDir   string
	logLevel  string
	logFormat string

	configFile string
	preset     string
	trace      bool
	noSave     bool
	jsonOut    string
	csvOut     string
	chartOut   string

	mechanism    string
	integrator   string
	horizon      float64
	dt           float64
	volume       float64
	fuelValve    float64
	oxValve      float64
	exhaustValve float64
	amplitude    float64
	pulseT0      float64

	sweepParams []string
	metric      string
	maximize    bool

	perTick   int
	addr      string
	every     int
	plotWidth int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "combustor",
		Short:         "0-D rocket combustion chamber simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel, logFormat)
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".combustor", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the chamber to the horizon",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addNetworkFlags(runCmd)
	runCmd.Flags().BoolVar(&trace, "trace", false, "print every sample")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().StringVar(&jsonOut, "json", "", "write the run as JSON to this file")
	runCmd.Flags().StringVar(&csvOut, "csv", "", "write the samples as CSV to this file")
	runCmd.Flags().StringVar(&chartOut, "chart", "", "write a PNG chart to this file")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with live terminal visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addNetworkFlags(liveCmd)
	liveCmd.Flags().IntVar(&perTick, "steps-per-frame", 5, "network steps per frame")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "stream runs over websocket",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&addr, "addr", "localhost:8080", "listen address")
	serveCmd.Flags().IntVar(&every, "every", 1, "stream every n-th sample")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run a parameter grid and rank it by a metric",
		Example: `  combustor sweep --param oxidizer_valve=2e-5,4e-5,8e-5 --metric peak_pressure --maximize
  combustor sweep --param exhaust_valve=1e-4,5e-4 --param volume=0.01,0.02 --horizon 0.002`,
		Args: cobra.NoArgs,
		RunE: runSweep,
	}
	addNetworkFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil, "parameter grid as name=v1,v2,... (repeatable)")
	sweepCmd.Flags().StringVar(&metric, "metric", "total_impulse", "metric to rank by")
	sweepCmd.Flags().BoolVar(&maximize, "maximize", false, "pick the largest metric instead of the smallest")
	sweepCmd.MarkFlagRequired("param")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")

	chartCmd := &cobra.Command{
		Use:   "chart [run_id] [output.png]",
		Short: "render a stored run as a PNG chart",
		Args:  cobra.ExactArgs(2),
		RunE:  chartRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list configuration presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
		},
	}

	registryCmd := &cobra.Command{
		Use:   "mechanisms",
		Short: "list mechanisms and integrators",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			reg := experiment.NewRegistry()
			fmt.Println("mechanisms:")
			for _, m := range reg.ListMechanisms() {
				fmt.Printf("  %s\n", m)
			}
			fmt.Println("integrators:")
			for _, i := range reg.ListIntegrators() {
				fmt.Printf("  %s\n", i)
			}
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, sweepCmd, serveCmd, listCmd, plotCmd, chartCmd, exportCmd, presetsCmd, registryCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func setupLogging(level, format string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)
	log.SetOutput(os.Stderr)

	switch format {
	case "text":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format: %s", format)
	}
	return nil
}

func addNetworkFlags(cmd *cobra.Command) {
	d := config.DefaultConfig()
	cmd.Flags().StringVar(&configFile, "config", "", "config file (yaml, toml or ini)")
	cmd.Flags().StringVar(&preset, "preset", "", "start from a preset")
	cmd.Flags().StringVar(&mechanism, "mechanism", d.Run.Mechanism, "reaction mechanism")
	cmd.Flags().StringVar(&integrator, "integrator", d.Run.Integrator, "integrator (euler, rk4, rk45)")
	cmd.Flags().Float64Var(&horizon, "horizon", d.Run.Horizon, "simulated time [s]")
	cmd.Flags().Float64Var(&dt, "dt", d.Run.Dt, "initial step [s]")
	cmd.Flags().Float64Var(&volume, "volume", d.Chamber.Volume, "chamber volume [m^3]")
	cmd.Flags().Float64Var(&fuelValve, "fuel-valve", d.Valves.Fuel, "fuel valve coefficient [kg/(s Pa)]")
	cmd.Flags().Float64Var(&oxValve, "ox-valve", d.Valves.Oxidizer, "oxidizer valve coefficient [kg/(s Pa)]")
	cmd.Flags().Float64Var(&exhaustValve, "exhaust-valve", d.Valves.Exhaust, "exhaust valve coefficient [kg/(s Pa)]")
	cmd.Flags().Float64Var(&amplitude, "igniter-amplitude", d.Pulse.Amplitude, "igniter peak mass flow [kg/s]")
	cmd.Flags().Float64Var(&pulseT0, "igniter-t0", d.Pulse.T0, "igniter pulse center [s]")
}

// loadConfig starts from a preset or a config file (which replaces the
// preset) and applies the flags that were set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		if cfg = config.GetPreset(preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("mechanism") {
		cfg.Run.Mechanism = mechanism
	}
	if flags.Changed("integrator") {
		cfg.Run.Integrator = integrator
	}
	if flags.Changed("horizon") {
		cfg.Run.Horizon = horizon
	}
	if flags.Changed("dt") {
		cfg.Run.Dt = dt
	}
	if flags.Changed("volume") {
		cfg.Chamber.Volume = volume
	}
	if flags.Changed("fuel-valve") {
		cfg.Valves.Fuel = fuelValve
	}
	if flags.Changed("ox-valve") {
		cfg.Valves.Oxidizer = oxValve
	}
	if flags.Changed("exhaust-valve") {
		cfg.Valves.Exhaust = exhaustValve
	}
	if flags.Changed("igniter-amplitude") {
		cfg.Pulse.Amplitude = amplitude
	}
	if flags.Changed("igniter-t0") {
		cfg.Pulse.T0 = pulseT0
	}
	return cfg, cfg.Validate()
}

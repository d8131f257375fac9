package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/sirsim/internal/config"
	"github.com/san-kum/sirsim/internal/experiment"
	"github.com/san-kum/sirsim/internal/export"
	"github.com/san-kum/sirsim/internal/sim"
	"github.com/san-kum/sirsim/internal/storage"
	"github.com/san-kum/sirsim/internal/telemetry"
	"github.com/san-kum/sirsim/internal/uncertain"
)

var (
	configFile  string
	preset      string
	model       string
	dt          float64
	t0          float64
	t1          float64
	samples     int
	seed        uint64
	outPath     string
	summaryPath string
	svgPath     string
	noStore     bool
	metricsFile string

	// uncertain inputs, parsed with uncertain.ParseSpec
	specFlags = map[string]*string{}
)

var specFlagNames = []struct {
	flag, usage string
}{
	{"beta", "infection rate"},
	{"gamma", "recovery rate"},
	{"birth", "birth rate"},
	{"death", "death rate"},
	{"s0", "initial susceptible fraction"},
	{"i0", "initial infected fraction"},
	{"r0", "initial recovered fraction"},
}

func newRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation",
		Long: `Run the SIR model and write the trajectory.

Uncertain inputs accept a point value ("0.3"), "gaussian(0.75,0.01)",
"uniform(0.2,0.4)" or "gamma(900,0.000333)" (shape, scale).`,
		Args: cobra.NoArgs,
		RunE: runSimulation,
	}

	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().StringVar(&model, "model", config.DefaultModel, "model (vital, closed)")
	runCmd.Flags().Float64Var(&dt, "dt", 0.5, "step size")
	runCmd.Flags().Float64Var(&t0, "t0", 0, "initial time")
	runCmd.Flags().Float64Var(&t1, "t1", 30, "final time")
	runCmd.Flags().IntVar(&samples, "samples", uncertain.DefaultSamples, "samples per uncertain value")
	runCmd.Flags().Uint64Var(&seed, "seed", config.DefaultSeed, "random seed")
	runCmd.Flags().StringVar(&outPath, "out", config.DefaultOutputPath, "trajectory output file (- for stdout)")
	runCmd.Flags().StringVar(&summaryPath, "summary", "", "summary CSV output file")
	runCmd.Flags().StringVar(&svgPath, "svg", "", "SVG chart output file")
	runCmd.Flags().BoolVar(&noStore, "no-store", false, "do not save the run to the store")
	runCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this file")

	specFlags = map[string]*string{}
	for _, f := range specFlagNames {
		specFlags[f.flag] = runCmd.Flags().String(f.flag, "", f.usage)
	}

	runCmd.MarkFlagFilename("config", "yaml", "yml")
	return runCmd
}

// loadRunConfig builds the run configuration: preset or defaults, then the
// config file, then any flags set on the command line.
func loadRunConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("%w: unknown preset: %s (available: %v)", sim.ErrConfiguration, preset, config.ListPresets())
		}
	}

	if configFile != "" {
		var err error
		if cfg, err = config.LoadOnto(configFile, cfg); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("model") {
		cfg.Model = model
	}
	if flags.Changed("dt") {
		cfg.Time.Step = dt
	}
	if flags.Changed("t0") {
		cfg.Time.Initial = t0
	}
	if flags.Changed("t1") {
		cfg.Time.Final = t1
	}
	if flags.Changed("samples") {
		cfg.Samples = samples
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("out") {
		cfg.Output.Path = outPath
	}
	if flags.Changed("summary") {
		cfg.Output.Summary = summaryPath
	}
	if flags.Changed("svg") {
		cfg.Output.SVG = svgPath
	}

	targets := map[string]*uncertain.Spec{
		"beta":  &cfg.Parameters.InfectionRate,
		"gamma": &cfg.Parameters.RecoveryRate,
		"birth": &cfg.Parameters.BirthRate,
		"death": &cfg.Parameters.DeathRate,
		"s0":    &cfg.Initial.Susceptible,
		"i0":    &cfg.Initial.Infected,
		"r0":    &cfg.Initial.Recovered,
	}
	for _, f := range specFlagNames {
		if !flags.Changed(f.flag) {
			continue
		}
		spec, err := uncertain.ParseSpec(*specFlags[f.flag])
		if err != nil {
			return nil, fmt.Errorf("%w: --%s: %w", sim.ErrConfiguration, f.flag, err)
		}
		*targets[f.flag] = spec
	}

	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	if metricsFile == "" {
		metricsFile = env.MetricsFile
	}

	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}

	rec := telemetry.New(cfg.Model)
	err = simulate(cmd, cfg, rec)
	if err != nil {
		rec.RecordError(errorReason(err))
	}
	if metricsFile != "" {
		if werr := rec.WriteFile(metricsFile); werr != nil {
			lg.Warn("failed to write metrics file", "path", metricsFile, "err", werr)
		}
	}
	return err
}

func simulate(cmd *cobra.Command, cfg *config.Config, rec *telemetry.Recorder) error {
	exp, err := experiment.New(cfg, experiment.NewRegistry(), lg)
	if err != nil {
		return err
	}

	lg.Info("starting run",
		"model", exp.ModelName(),
		"step", cfg.Time.Step,
		"uncertain", cfg.IsUncertain(),
	)

	start := time.Now()
	res, err := exp.Run()
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	rec.RecordRun(elapsed.Seconds(), res, exp.QuantileLevels())

	series := export.NewSeries(res.Trajectory, exp.QuantileLevels())
	if err := export.WriteReport(cmd.OutOrStdout(), series); err != nil {
		return &export.SinkError{Path: "stdout", Op: "write", Err: err}
	}
	if err := writeOutputs(cmd.OutOrStdout(), cfg, series); err != nil {
		return err
	}

	lg.Info("run complete",
		"elapsed", elapsed,
		"entries", res.Trajectory.Len(),
		"peak_infected", res.Metrics["peak_infected"],
		"peak_time", res.Metrics["peak_time"],
		"mass_drift", res.Metrics["mass_drift"],
	)

	if noStore {
		return nil
	}
	return storeRun(cmd.Context(), cfg, exp, res)
}

func writeOutputs(stdout io.Writer, cfg *config.Config, series *export.Series) error {
	if cfg.Output.Path == "-" {
		if err := export.WriteTrajectory(stdout, series); err != nil {
			return &export.SinkError{Path: "stdout", Op: "write", Err: err}
		}
	} else if cfg.Output.Path != "" {
		err := export.WriteFileAtomic(cfg.Output.Path, func(w io.Writer) error {
			return export.WriteTrajectory(w, series)
		})
		if err != nil {
			return err
		}
		lg.Info("trajectory written", "path", cfg.Output.Path, "entries", series.Len())
	}

	if cfg.Output.Summary != "" {
		err := export.WriteFileAtomic(cfg.Output.Summary, func(w io.Writer) error {
			return export.WriteSummary(w, series)
		})
		if err != nil {
			return err
		}
		lg.Info("summary written", "path", cfg.Output.Summary)
	}

	if cfg.Output.SVG != "" {
		err := export.WriteFileAtomic(cfg.Output.SVG, func(w io.Writer) error {
			_, err := io.WriteString(w, export.SeriesToSVG(series, 800, 400))
			return err
		})
		if err != nil {
			return err
		}
		lg.Info("chart written", "path", cfg.Output.SVG)
	}
	return nil
}

func storeRun(ctx context.Context, cfg *config.Config, exp *experiment.Experiment, res *sim.Result) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	grid := exp.Grid()
	run := storage.NewRun(storage.RunMetadata{
		Model:       cfg.Model,
		Integrator:  cfg.Integrator,
		Seed:        cfg.Seed,
		Samples:     exp.Samples(),
		InitialTime: grid.InitialTime,
		FinalTime:   grid.FinalTime,
		StepSize:    grid.StepSize,
	}, res, exp.QuantileLevels())

	id, err := st.Save(ctx, run)
	if err != nil {
		return err
	}
	lg.Info("run saved", "id", id, "store", storeKind)
	return nil
}

func errorReason(err error) string {
	switch exitCode(err) {
	case exitConfig:
		return "configuration"
	case exitSink:
		return "sink"
	}
	return "other"
}

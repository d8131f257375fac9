package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/sirsim/internal/config"
	"github.com/san-kum/sirsim/internal/logger"
	"github.com/san-kum/sirsim/internal/sim"
)

const (
	exitOK     = 0
	exitError  = 1
	exitConfig = 2
	exitSink   = 3
)

var (
	dataDir   string
	storeKind string
	logLevel  string
	logFormat string

	env config.Env
	lg  *slog.Logger
)

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

func execute(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitCode(err)
	}
	return exitOK
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, sim.ErrConfiguration):
		return exitConfig
	case errors.Is(err, sim.ErrSinkUnavailable):
		return exitSink
	}
	return exitError
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sirsim",
		Short:         "SIR epidemic simulation with uncertain parameters",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			env, err = config.ParseEnv()
			if err != nil {
				return fmt.Errorf("%w: %w", sim.ErrConfiguration, err)
			}
			applyEnv(cmd)

			if _, err := logger.ParseLevel(logLevel); err != nil {
				return fmt.Errorf("%w: %w", sim.ErrConfiguration, err)
			}
			lg = logger.New(logLevel, logFormat, cmd.ErrOrStderr())
			slog.SetDefault(lg)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".sirsim", "data directory for stored runs")
	rootCmd.PersistentFlags().StringVar(&storeKind, "store", "file", "run store backend (file, redis)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show run summary",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")
	plotCmd.Flags().IntVar(&plotHeight, "height", 15, "plot height")
	plotCmd.Flags().BoolVar(&plotBands, "bands", false, "plot each compartment with its quantile band")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run summary as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&csvOut, "output", "o", "", "output file (default stdout)")

	replayCmd := &cobra.Command{
		Use:   "replay [run_id]",
		Short: "step through a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  replayRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "presets:")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				kind := "point"
				if p.IsUncertain() {
					kind = "uncertain"
				}
				fmt.Fprintf(out, "  %-18s model=%s t=%g..%g h=%g %s\n", name, p.Model, p.Time.Initial, p.Time.Final, p.Time.Step, kind)
			}
			return nil
		},
	}

	rootCmd.AddCommand(newRunCmd(), listCmd, showCmd, plotCmd, exportCSVCmd, replayCmd, presetsCmd)
	return rootCmd
}

// applyEnv fills persistent flags the user did not set from the environment.
func applyEnv(cmd *cobra.Command) {
	flags := cmd.Flags()
	if !flags.Changed("data") {
		dataDir = env.DataDir
	}
	if !flags.Changed("store") {
		storeKind = env.Store
	}
	if !flags.Changed("log-level") {
		logLevel = env.LogLevel
	}
	if !flags.Changed("log-format") {
		logFormat = env.LogFormat
	}
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/sirsim/internal/export"
	"github.com/san-kum/sirsim/internal/sim"
	"github.com/san-kum/sirsim/internal/storage"
	"github.com/san-kum/sirsim/internal/viz"
)

var (
	plotWidth  int
	plotHeight int
	plotBands  bool
	csvOut     string
)

func openStore() (storage.Store, error) {
	switch storeKind {
	case "file", "":
		st := storage.NewFileStore(dataDir)
		if err := st.Init(); err != nil {
			return nil, &export.SinkError{Path: dataDir, Op: "mkdir", Err: err}
		}
		return st, nil
	case "redis":
		st, err := storage.NewRedisStore(env.RedisAddr, env.RedisPassword, env.RedisDB, env.RedisTTL)
		if err != nil {
			return nil, &export.SinkError{Path: env.RedisAddr, Op: "connect", Err: err}
		}
		return st, nil
	}
	return nil, fmt.Errorf("%w: unknown store %q (available: file, redis)", sim.ErrConfiguration, storeKind)
}

func loadRun(ctx context.Context, id string) (*storage.RunMetadata, *export.Series, error) {
	st, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	defer st.Close()

	meta, err := st.Load(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	series, err := st.LoadSeries(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return meta, series, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.List(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tSAMPLES\tSTEP\tENTRIES\tFINAL I\tTIMESTAMP")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%g\t%d\t%.6f\t%s\n",
			r.ID, r.Model, r.Samples, r.StepSize, r.Steps, r.Final.I.Mean,
			r.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	meta, err := st.Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), viz.RenderSummary(meta))
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, series, err := loadRun(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if series.Len() == 0 {
		return fmt.Errorf("run %s has no data", meta.ID)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "model: %s\n", meta.Model)
	fmt.Fprintf(out, "entries: %d\n\n", series.Len())

	if !plotBands {
		fmt.Fprintln(out, viz.PlotCurves(series, plotWidth, plotHeight))
		return nil
	}
	for c := 0; c < 3; c++ {
		fmt.Fprintln(out, viz.PlotBand(series, c, plotWidth, plotHeight))
		fmt.Fprintln(out)
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, series, err := loadRun(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if csvOut == "" {
		if err := export.WriteSummary(cmd.OutOrStdout(), series); err != nil {
			return &export.SinkError{Path: "stdout", Op: "write", Err: err}
		}
		return nil
	}

	err = export.WriteFileAtomic(csvOut, func(w io.Writer) error {
		return export.WriteSummary(w, series)
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "exported to %s\n", csvOut)
	return nil
}

func replayRun(cmd *cobra.Command, args []string) error {
	meta, series, err := loadRun(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if series.Len() == 0 {
		return fmt.Errorf("run %s has no data", meta.ID)
	}

	p := tea.NewProgram(viz.NewReplay(meta.ID, series), tea.WithAltScreen(), tea.WithInput(os.Stdin), tea.WithOutput(cmd.OutOrStdout()))
	_, err = p.Run()
	return err
}

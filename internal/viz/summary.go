package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/sirsim/internal/storage"
	"github.com/san-kum/sirsim/internal/uncertain"
)

// RenderSummary formats a run's metadata, final state and metrics as a
// bordered panel.
func RenderSummary(meta *storage.RunMetadata) string {
	var sb strings.Builder

	sb.WriteString(HeaderStyle.Render("run "+meta.ID) + "\n")
	row := func(label, value string) {
		sb.WriteString(MetricLabel.Render(fmt.Sprintf("%-12s", label)) + MetricValue.Render(value) + "\n")
	}
	row("model", meta.Model)
	row("integrator", meta.Integrator)
	row("created", meta.Timestamp.Format("2006-01-02 15:04:05"))
	row("time", fmt.Sprintf("%g … %g, h = %g", meta.InitialTime, meta.FinalTime, meta.StepSize))
	row("entries", fmt.Sprintf("%d", meta.Steps))
	if meta.Samples > 1 {
		row("samples", fmt.Sprintf("%d (seed %d)", meta.Samples, meta.Seed))
	}

	sb.WriteString("\n")
	finals := [3]uncertain.Summary{meta.Final.S, meta.Final.I, meta.Final.R}
	for c, s := range finals {
		name := CompartmentStyles[c].Render(fmt.Sprintf("%-12s", compartmentNames[c]))
		sb.WriteString(name + FractionBar(s.Mean, 20, CompartmentStyles[c]) + " " + formatSummary(s) + "\n")
	}

	if len(meta.Metrics) > 0 {
		sb.WriteString("\n")
		names := make([]string, 0, len(meta.Metrics))
		for name := range meta.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			v := meta.Metrics[name]
			value := fmt.Sprintf("%.6g", v)
			if name == "domain_violations" && v > 0 {
				value = Warning.Render(value)
			}
			row(name, value)
		}
	}

	return Panel.Render(strings.TrimRight(sb.String(), "\n"))
}

func formatSummary(s uncertain.Summary) string {
	if s.Samples <= 1 {
		return MetricValue.Render(fmt.Sprintf("%.6f", s.Mean))
	}
	parts := []string{MetricValue.Render(fmt.Sprintf("%.6f ± %.6f", s.Mean, s.StdDev))}
	for _, q := range s.Quantiles {
		parts = append(parts, Subtle.Render(fmt.Sprintf("%s %.4f", uncertain.FormatQuantileLevel(q.Level), q.Value)))
	}
	return strings.Join(parts, "  ")
}

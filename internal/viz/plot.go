package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/sirsim/internal/export"
	"github.com/san-kum/sirsim/internal/uncertain"
)

var compartmentNames = [3]string{"susceptible", "infected", "recovered"}

var seriesColors = []asciigraph.AnsiColor{asciigraph.Blue, asciigraph.Red, asciigraph.Green}

// PlotCurves draws the S, I and R mean curves on one chart.
func PlotCurves(s *export.Series, width, height int) string {
	if s.Len() == 0 {
		return ""
	}
	data := [][]float64{s.Column(0), s.Column(1), s.Column(2)}

	graph := asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(3),
		asciigraph.SeriesColors(seriesColors...),
		asciigraph.Caption(fmt.Sprintf("S, I, R mean vs time (t = %g … %g)", s.Times[0], s.Times[len(s.Times)-1])),
	)
	return graph + "\n" + legend()
}

// PlotBand draws one compartment's mean together with its outermost quantile
// curves. Without quantiles only the mean is drawn.
func PlotBand(s *export.Series, compartment, width, height int) string {
	if s.Len() == 0 {
		return ""
	}
	bands := [3][]export.Band{s.S, s.I, s.R}[compartment]

	data := [][]float64{s.Column(compartment)}
	colors := []asciigraph.AnsiColor{seriesColors[compartment]}
	caption := compartmentNames[compartment] + " mean"

	if n := len(s.Levels); n >= 2 {
		lo := make([]float64, len(bands))
		hi := make([]float64, len(bands))
		for k, b := range bands {
			lo[k], hi[k] = b.Quantiles[0], b.Quantiles[n-1]
		}
		data = append(data, lo, hi)
		colors = append(colors, asciigraph.Gray, asciigraph.Gray)
		caption = fmt.Sprintf("%s mean with %s–%s band", compartmentNames[compartment],
			uncertain.FormatQuantileLevel(s.Levels[0]), uncertain.FormatQuantileLevel(s.Levels[n-1]))
	}

	return asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(3),
		asciigraph.SeriesColors(colors...),
		asciigraph.Caption(caption),
	)
}

func legend() string {
	out := ""
	for c, name := range compartmentNames {
		if c > 0 {
			out += "  "
		}
		out += CompartmentStyles[c].Render("■ " + name)
	}
	return out
}

package export

import (
	"fmt"
	"strings"
)

// CurveColors are the stroke colours for S, I and R.
var CurveColors = [3]string{"#4fc3f7", "#ef5350", "#66bb6a"}

// SeriesToSVG draws the three mean curves on a shared time axis. When the
// series carries at least two quantile levels the outermost pair is drawn as a
// translucent band under each curve.
func SeriesToSVG(s *Series, width, height int) string {
	if s.Len() < 2 {
		return ""
	}

	minX, maxX := s.Times[0], s.Times[len(s.Times)-1]
	minY, maxY := 0.0, 1.0
	for _, bands := range [3][]Band{s.S, s.I, s.R} {
		for _, b := range bands {
			lo, hi := b.Mean, b.Mean
			if n := len(b.Quantiles); n >= 2 {
				lo, hi = b.Quantiles[0], b.Quantiles[n-1]
			}
			if lo < minY {
				minY = lo
			}
			if hi > maxY {
				maxY = hi
			}
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	minY -= rangeY * 0.05
	maxY += rangeY * 0.05
	rangeY = maxY - minY

	px := func(t float64) float64 { return (t - minX) / rangeX * float64(width) }
	py := func(v float64) float64 { return float64(height) - (v-minY)/rangeY*float64(height) }

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for c, bands := range [3][]Band{s.S, s.I, s.R} {
		if len(s.Levels) >= 2 {
			writeBand(&sb, s.Times, bands, px, py, CurveColors[c])
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, CurveColors[c]))
		for k, b := range bands {
			if k == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", px(s.Times[k]), py(b.Mean)))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", px(s.Times[k]), py(b.Mean)))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func writeBand(sb *strings.Builder, times []float64, bands []Band, px, py func(float64) float64, color string) {
	last := len(bands[0].Quantiles) - 1
	sb.WriteString(fmt.Sprintf(`<path fill="%s" fill-opacity="0.2" stroke="none" d="M`, color))
	for k, b := range bands {
		sep := " L"
		if k == 0 {
			sep = ""
		}
		sb.WriteString(fmt.Sprintf("%s%.1f,%.1f", sep, px(times[k]), py(b.Quantiles[last])))
	}
	for k := len(bands) - 1; k >= 0; k-- {
		sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", px(times[k]), py(bands[k].Quantiles[0])))
	}
	sb.WriteString(" Z\"/>\n")
}

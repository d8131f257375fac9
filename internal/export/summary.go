package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/san-kum/sirsim/internal/uncertain"
)

var compartments = [3]string{"S", "I", "R"}

func summaryHeader(levels []float64) []string {
	header := []string{"time"}
	for _, c := range compartments {
		header = append(header, c+"_mean", c+"_std")
		for _, p := range levels {
			header = append(header, c+"_"+uncertain.FormatQuantileLevel(p))
		}
	}
	return header
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// WriteSummary writes the series as CSV: time, then mean, standard deviation
// and each quantile for S, I and R.
func WriteSummary(w io.Writer, s *Series) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(summaryHeader(s.Levels)); err != nil {
		return err
	}

	for k, t := range s.Times {
		row := []string{formatFloat(t)}
		for _, b := range [3]Band{s.S[k], s.I[k], s.R[k]} {
			row = append(row, formatFloat(b.Mean), formatFloat(b.StdDev))
			for i := range s.Levels {
				row = append(row, formatFloat(b.Quantiles[i]))
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadSummary parses a file written by WriteSummary. Quantile levels are
// recovered from the header.
func ReadSummary(r io.Reader) (*Series, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("export: read summary: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("export: empty summary")
	}

	levels, err := levelsFromHeader(rows[0])
	if err != nil {
		return nil, err
	}

	width := 1 + 3*(2+len(levels))
	s := &Series{Levels: levels}
	for n, row := range rows[1:] {
		if len(row) != width {
			return nil, fmt.Errorf("export: summary row %d has %d fields, want %d", n+1, len(row), width)
		}
		vals := make([]float64, width)
		for i, field := range row {
			if vals[i], err = strconv.ParseFloat(field, 64); err != nil {
				return nil, fmt.Errorf("export: summary row %d: %w", n+1, err)
			}
		}

		s.Times = append(s.Times, vals[0])
		var bands [3]Band
		off := 1
		for c := range bands {
			bands[c] = Band{Mean: vals[off], StdDev: vals[off+1]}
			if len(levels) > 0 {
				bands[c].Quantiles = append([]float64(nil), vals[off+2:off+2+len(levels)]...)
			}
			off += 2 + len(levels)
		}
		s.S = append(s.S, bands[0])
		s.I = append(s.I, bands[1])
		s.R = append(s.R, bands[2])
	}
	return s, nil
}

func levelsFromHeader(header []string) ([]float64, error) {
	if len(header) < 7 || header[0] != "time" || header[1] != "S_mean" {
		return nil, fmt.Errorf("export: unrecognised summary header %v", header)
	}
	var levels []float64
	for _, col := range header[3:] {
		name, ok := strings.CutPrefix(col, "S_")
		if !ok {
			break
		}
		q, err := uncertain.ParseQuantileLevel(name)
		if err != nil {
			return nil, fmt.Errorf("export: summary column %q: %w", col, err)
		}
		levels = append(levels, q)
	}
	if want := summaryHeader(levels); len(want) != len(header) {
		return nil, fmt.Errorf("export: summary header has %d columns, want %d", len(header), len(want))
	}
	return levels, nil
}

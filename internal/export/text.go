package export

import (
	"bufio"
	"fmt"
	"io"
)

// WriteTrajectory writes one line per entry, "time, S, I, R", six decimals.
// Uncertain compartments are written as their sample mean.
func WriteTrajectory(w io.Writer, s *Series) error {
	bw := bufio.NewWriter(w)
	for k, m := range s.Means() {
		if _, err := fmt.Fprintf(bw, "%.6f, %.6f, %.6f, %.6f\n", s.Times[k], m[0], m[1], m[2]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteReport prints the final compartment means.
func WriteReport(w io.Writer, s *Series) error {
	if s.Len() == 0 {
		return nil
	}
	_, S, I, R := s.Final()
	_, err := fmt.Fprintf(w, "Final susceptibles: %f\nFinal infected: %f\nFinal recovered: %f\n", S.Mean, I.Mean, R.Mean)
	return err
}

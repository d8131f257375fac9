package uncertain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseQuantileLevel parses a quantile level from either p-notation (p5, p95)
// or decimal notation (0.05, 0.95).
//
// Examples:
//   - "p50" → 0.50
//   - "p2.5" → 0.025
//   - "0.95" → 0.95
//
// Returns an error if the format is invalid or the value is out of [0, 1].
func ParseQuantileLevel(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty quantile level")
	}

	if strings.HasPrefix(strings.ToLower(s), "p") {
		percentile, err := strconv.ParseFloat(s[1:], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid p-notation %q: %w", s, err)
		}
		if math.IsNaN(percentile) || percentile < 0 || percentile > 100 {
			return 0, fmt.Errorf("percentile %v out of range [0, 100]", percentile)
		}
		return percentile / 100.0, nil
	}

	q, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid quantile %q: %w", s, err)
	}
	if math.IsNaN(q) || q < 0 || q > 1 {
		return 0, fmt.Errorf("quantile %v out of range [0, 1]", q)
	}
	return q, nil
}

// ParseQuantileLevels parses each level in order.
func ParseQuantileLevels(ss []string) ([]float64, error) {
	levels := make([]float64, 0, len(ss))
	for _, s := range ss {
		q, err := ParseQuantileLevel(s)
		if err != nil {
			return nil, err
		}
		levels = append(levels, q)
	}
	return levels, nil
}

// FormatQuantileLevel formats a level in p-notation, 0.95 → "p95".
func FormatQuantileLevel(q float64) string {
	return "p" + strconv.FormatFloat(math.Round(q*1000)/10, 'f', -1, 64)
}

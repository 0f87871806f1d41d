package series

import (
	"fmt"

	"gonum.org/v1/gonum/interp"
)

// Method selects an interpolation scheme for filling interior gaps.
type Method string

const (
	MethodLinear Method = "linear"
	MethodCubic  Method = "cubic"
	MethodPchip  Method = "pchip"
	MethodAkima  Method = "akima"
)

// ParseMethod converts a CLI/config token into a Method.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodLinear, MethodCubic, MethodPchip, MethodAkima:
		return Method(s), nil
	default:
		return "", fmt.Errorf("unknown interpolation method %q", s)
	}
}

// minPoints is the number of observations each method needs before it
// produces anything beyond the trivial. Below these, interpolation is a
// documented no-op, never an error.
func (m Method) minPoints() int {
	switch m {
	case MethodCubic:
		return 4
	case MethodPchip:
		return 3
	case MethodAkima:
		return 5
	default:
		return 2
	}
}

// InterpStats reports what interpolation did to one series.
type InterpStats struct {
	MissingBefore int
	Filled        int
	Skipped       bool // too few points for the method
}

// Interpolate fills the interior gaps of an annual series using the
// chosen method. Present observations are returned bit-for-bit: only
// absent interior years gain values. Leading and trailing gaps stay
// absent, preserving each method's native behavior of not inventing
// data outside the observed range. Series that are empty, gap-free, or
// too short for the method come back unchanged.
func Interpolate(s *Series, method Method) (*Series, InterpStats, error) {
	stats := InterpStats{MissingBefore: s.Missing().Missing}

	if stats.MissingBefore == 0 {
		return s, stats, nil
	}
	if s.Len() < method.minPoints() {
		stats.Skipped = true
		return s, stats, nil
	}

	xs := make([]float64, s.Len())
	for i, y := range s.Years() {
		xs[i] = float64(y)
	}
	ys := s.Values()

	var predictor interp.FittablePredictor
	switch method {
	case MethodCubic:
		predictor = &interp.NaturalCubic{}
	case MethodPchip:
		predictor = &interp.FritschButland{}
	case MethodAkima:
		predictor = &interp.AkimaSpline{}
	case MethodLinear:
		predictor = &interp.PiecewiseLinear{}
	default:
		return nil, stats, fmt.Errorf("unknown interpolation method %q", method)
	}
	if err := predictor.Fit(xs, ys); err != nil {
		// A fit failure is treated like insufficient data: the caller
		// gets the input back rather than a dead pipeline.
		stats.Skipped = true
		return s, stats, nil
	}

	years := make([]int, 0, s.LastYear()-s.FirstYear()+1)
	values := make([]float64, 0, cap(years))
	for y := s.FirstYear(); y <= s.LastYear(); y++ {
		if v, ok := s.Get(y); ok {
			years = append(years, y)
			values = append(values, v)
			continue
		}
		years = append(years, y)
		values = append(values, predictor.Predict(float64(y)))
		stats.Filled++
	}

	out, err := New(years, values)
	if err != nil {
		return nil, stats, fmt.Errorf("interpolation produced invalid series: %w", err)
	}
	return out, stats, nil
}

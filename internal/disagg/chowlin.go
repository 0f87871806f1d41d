package disagg

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"wdipanel/internal/series"
)

// ChowLin converts an annual series into a monthly one using a related
// higher-frequency indicator. The annual sums of the indicator are
// regressed on the annual values (ordinary least squares through the
// origin, single covariate); the fitted coefficient scales the indicator
// into a predicted monthly trajectory, which is then benchmarked: each
// year's months are rescaled so their sum reproduces the annual value.
// Years inside the output range with no annual observation reuse the
// last available ratio (forward fill).
//
// The output covers the indicator's months intersected with the annual
// series' year range. No overlapping years at all is ErrNoOverlap.
func ChowLin(low *series.Series, indicator *series.Monthly) (*series.Monthly, error) {
	if low.Len() == 0 || indicator.Len() == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrNoOverlap)
	}

	sums := indicator.YearSums()

	// Regression sample: years with both an annual value and indicator
	// coverage.
	var overlap []int
	for y := range sums {
		if _, ok := low.Get(y); ok {
			overlap = append(overlap, y)
		}
	}
	if len(overlap) == 0 {
		return nil, ErrNoOverlap
	}
	sort.Ints(overlap)

	xs := make([]float64, len(overlap))
	ys := make([]float64, len(overlap))
	for i, y := range overlap {
		xs[i] = sums[y].Sum
		v, _ := low.Get(y)
		ys[i] = v
	}
	_, beta := stat.LinearRegression(xs, ys, nil, true)

	// Predicted trajectory, restricted to the annual series' year range.
	var predicted []series.MonthPoint
	predSums := make(map[int]float64)
	for _, p := range indicator.Points() {
		y := p.Date.Year()
		if y < low.FirstYear() || y > low.LastYear() {
			continue
		}
		v := p.Value * beta
		predicted = append(predicted, series.MonthPoint{Date: p.Date, Value: v})
		predSums[y] += v
	}
	if len(predicted) == 0 {
		return nil, ErrNoOverlap
	}

	// Benchmarking: per-year ratio adjustment, forward-filled across
	// years without their own ratio.
	ratio := 1.0
	haveRatio := false
	lastYear := 0
	out := make([]series.MonthPoint, 0, len(predicted))
	for _, p := range predicted {
		y := p.Date.Year()
		if y != lastYear {
			if annual, ok := low.Get(y); ok && predSums[y] != 0 {
				ratio = annual / predSums[y]
				haveRatio = true
			}
			lastYear = y
		}
		v := p.Value
		if haveRatio {
			v *= ratio
		}
		out = append(out, series.MonthPoint{Date: p.Date, Value: v})
	}

	return series.NewMonthly(out)
}

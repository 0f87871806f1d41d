package disagg

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"wdipanel/internal/series"
)

var (
	// ErrInsufficientData reports that a series cannot be disaggregated:
	// fewer than two annual observations, or interior gaps that should
	// have been interpolated away first.
	ErrInsufficientData = errors.New("insufficient data for disaggregation")

	// ErrNotConverged reports that the constrained solve missed its
	// tolerance. The best available monthly series is still returned so
	// the caller can decide whether to keep it.
	ErrNotConverged = errors.New("disaggregation did not meet constraint tolerance")

	// ErrNoOverlap reports that the annual series and the indicator share
	// no years.
	ErrNoOverlap = errors.New("annual series and indicator do not overlap")
)

// DefaultTolerance is the relative tolerance on the aggregation
// constraint A·x = low.
const DefaultTolerance = 1e-6

// Denton converts an annual series into a monthly one by minimizing the
// sum of squared first differences of the monthly vector subject to the
// constraint that each year's twelve months sum to the annual value.
//
// The problem has a closed form: the KKT system
//
//	[ 2D'D  A' ] [x]   [ 0 ]
//	[  A    0  ] [λ] = [low]
//
// with D the first-difference operator and A the 12-ones-per-year block
// aggregation matrix, is a single nonsingular linear solve. tol bounds
// the acceptable relative constraint residual; pass 0 for the default.
func Denton(low *series.Series, tol float64) (*series.Monthly, error) {
	if tol <= 0 {
		tol = DefaultTolerance
	}
	n := low.Len()
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 annual observations, have %d", ErrInsufficientData, n)
	}
	if !low.Contiguous() {
		return nil, fmt.Errorf("%w: annual series has interior gaps", ErrInsufficientData)
	}

	T := 12 * n
	N := T + n

	// K = [[2D'D, A'], [A, 0]]. D'D is tridiagonal with diagonal
	// [1, 2, ..., 2, 1] and off-diagonals -1.
	k := mat.NewDense(N, N, nil)
	for i := 0; i < T; i++ {
		d := 2.0
		if i == 0 || i == T-1 {
			d = 1.0
		}
		k.Set(i, i, 2*d)
		if i > 0 {
			k.Set(i, i-1, -2)
		}
		if i < T-1 {
			k.Set(i, i+1, -2)
		}
	}
	for y := 0; y < n; y++ {
		for m := 0; m < 12; m++ {
			k.Set(12*y+m, T+y, 1)
			k.Set(T+y, 12*y+m, 1)
		}
	}

	rhs := mat.NewVecDense(N, nil)
	for y, v := range low.Values() {
		rhs.SetVec(T+y, v)
	}

	var sol mat.VecDense
	x := make([]float64, T)
	solveErr := sol.SolveVec(k, rhs)
	if solveErr != nil {
		// Fall back to the flat seed: each annual value repeated twelve
		// times at one twelfth, which at least satisfies the constraint.
		for y, v := range low.Values() {
			for m := 0; m < 12; m++ {
				x[12*y+m] = v / 12
			}
		}
	} else {
		for i := 0; i < T; i++ {
			x[i] = sol.AtVec(i)
		}
	}

	monthly, err := monthlyFromVector(low.FirstYear(), x)
	if err != nil {
		return nil, err
	}

	if solveErr != nil {
		return monthly, fmt.Errorf("%w: linear solve failed: %v", ErrNotConverged, solveErr)
	}
	if resid := constraintResidual(low, x); resid > tol {
		return monthly, fmt.Errorf("%w: relative residual %.3g exceeds %.3g", ErrNotConverged, resid, tol)
	}
	return monthly, nil
}

// constraintResidual returns the worst relative deviation of the yearly
// block sums from the annual values.
func constraintResidual(low *series.Series, x []float64) float64 {
	worst := 0.0
	for y, v := range low.Values() {
		sum := 0.0
		for m := 0; m < 12; m++ {
			sum += x[12*y+m]
		}
		scale := math.Abs(v)
		if scale < 1 {
			scale = 1
		}
		if r := math.Abs(sum-v) / scale; r > worst {
			worst = r
		}
	}
	return worst
}

func monthlyFromVector(firstYear int, x []float64) (*series.Monthly, error) {
	points := make([]series.MonthPoint, len(x))
	for i, v := range x {
		points[i] = series.MonthPoint{
			Date:  series.MonthStart(firstYear+i/12, time.Month(i%12+1)),
			Value: v,
		}
	}
	return series.NewMonthly(points)
}

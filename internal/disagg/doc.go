// Package disagg converts annual series into monthly ones under an
// aggregation-consistency constraint: the twelve months of every year
// must reproduce the annual observation.
//
// Two interchangeable models are provided. Denton finds the smoothest
// monthly trajectory (minimal sum of squared first differences) via a
// single closed-form KKT solve. ChowLin scales a related monthly
// indicator by a no-intercept OLS coefficient and benchmarks each year
// back onto the annual value with a ratio adjustment.
package disagg

// Package series provides the per-(country, variable) time series types
// derived from a panel, and gap interpolation over them.
//
// A Series is annual with gaps as absent years; a Monthly carries
// month-start UTC timestamps. Interpolation fills only interior gaps
// using gonum's interp predictors (linear, natural cubic, Fritsch-Butland
// shape-preserving, Akima) and degrades to a no-op when a series is too
// short for the chosen method.
package series

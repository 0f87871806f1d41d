// Package panel pivots tidy observations into a country-year panel:
// one row per (country, year), one column per variable, plus a dense
// 1-based country_id surrogate assigned by lexicographic country rank
// over the filtered country set.
package panel

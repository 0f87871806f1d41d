// Package pipeline composes the per-series transforms over a panel.
//
// A run applies interpolation, frequency disaggregation and the log
// transform, in that fixed order, to every selected (country, variable)
// pair. Pairs are independent, so execution fans out over a bounded
// worker pool; any per-series failure is recorded as a condition on its
// result and never aborts the batch. Every run carries a provenance
// label naming the applied transforms, for output metadata and
// filenames.
package pipeline

// Package exporter writes panels and disaggregated monthly series to
// CSV with UTF-8 BOM for Excel compatibility.
//
// CSVWriter is the core writer (one-shot and streaming); the panel and
// monthly helpers layer the export schemas and filename conventions on
// top of it.
package exporter

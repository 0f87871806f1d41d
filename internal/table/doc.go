// Package table provides the raw tabular representation for uploaded
// economic data files.
//
// A Table is an ordered collection of named, equal-length columns whose
// cells are a tagged union of string, number, and missing. The package
// deliberately performs no cleaning beyond type inference: sentinel
// tokens such as ".." survive as strings so downstream stages can count
// what they drop.
//
// Two readers produce Tables:
//
// ReadCSV: delimited text with a header row, tolerant of ragged records
// and a UTF-8 BOM.
//
// ReadExcel: XLSX workbooks via excelize, with sheet auto-discovery when
// no sheet name is given.
package table

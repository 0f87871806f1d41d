// Package reshape melts a role-assigned raw table into tidy
// (country, variable, year, value) rows.
//
// Value cleaning happens here: sentinel tokens ("..", "", " ") and
// unparseable cells become missing, and observations with a missing
// value or an out-of-range year are dropped. The Report returned with
// every reshape counts those drops so callers can surface them.
package reshape

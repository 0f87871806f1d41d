package table

import (
	"fmt"
	"strconv"
	"strings"
)

// CellKind identifies which variant of the Cell union is populated.
type CellKind int

const (
	KindMissing CellKind = iota
	KindString
	KindNumber
)

// Cell is a tagged union over the value types that appear in spreadsheet
// and CSV exports: a string, a number, or nothing at all. Coercion rules
// live with the consumers (reshape); the table layer records what the
// file actually said.
type Cell struct {
	kind CellKind
	str  string
	num  float64
}

// Missing returns the missing cell.
func Missing() Cell {
	return Cell{kind: KindMissing}
}

// String returns a string-valued cell.
func String(s string) Cell {
	return Cell{kind: KindString, str: s}
}

// Number returns a numeric cell.
func Number(v float64) Cell {
	return Cell{kind: KindNumber, num: v}
}

// Kind reports which variant this cell holds.
func (c Cell) Kind() CellKind { return c.kind }

// IsMissing reports whether the cell holds no value.
func (c Cell) IsMissing() bool { return c.kind == KindMissing }

// Text returns the string payload. Numeric cells are formatted with the
// shortest representation that round-trips.
func (c Cell) Text() string {
	switch c.kind {
	case KindString:
		return c.str
	case KindNumber:
		return strconv.FormatFloat(c.num, 'f', -1, 64)
	default:
		return ""
	}
}

// Float returns the numeric payload. String cells are parsed after
// stripping thousands separators; the second return reports success.
func (c Cell) Float() (float64, bool) {
	switch c.kind {
	case KindNumber:
		return c.num, true
	case KindString:
		v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(c.str), ",", ""), 64)
		if err != nil {
			return 0, false
		}
		return v, true
	default:
		return 0, false
	}
}

// Column is a named, ordered sequence of cells.
type Column struct {
	Name  string
	Cells []Cell
}

// Table is an ordered collection of equal-length columns. It is the raw
// representation of an uploaded file: no role assignment, no cleaning.
type Table struct {
	cols  []Column
	index map[string]int
}

// New creates an empty table.
func New() *Table {
	return &Table{index: make(map[string]int)}
}

// AddColumn appends a column. All columns must have the same length; the
// first column added fixes the row count.
func (t *Table) AddColumn(name string, cells []Cell) error {
	if len(t.cols) > 0 && len(cells) != t.NumRows() {
		return fmt.Errorf("column %q has %d rows, table has %d", name, len(cells), t.NumRows())
	}
	if _, exists := t.index[name]; exists {
		return fmt.Errorf("duplicate column name %q", name)
	}
	t.index[name] = len(t.cols)
	t.cols = append(t.cols, Column{Name: name, Cells: cells})
	return nil
}

// NumRows returns the row count.
func (t *Table) NumRows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return len(t.cols[0].Cells)
}

// NumCols returns the column count.
func (t *Table) NumCols() int { return len(t.cols) }

// Columns returns the columns in file order.
func (t *Table) Columns() []Column { return t.cols }

// ColumnNames returns the column names in file order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column, or nil if absent.
func (t *Table) Column(name string) *Column {
	i, ok := t.index[name]
	if !ok {
		return nil
	}
	return &t.cols[i]
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// DistinctStrings returns the number of distinct non-missing string values
// in the named column. Numeric cells do not count.
func (t *Table) DistinctStrings(name string) int {
	col := t.Column(name)
	if col == nil {
		return 0
	}
	seen := make(map[string]struct{})
	for _, c := range col.Cells {
		if c.Kind() == KindString {
			seen[c.str] = struct{}{}
		}
	}
	return len(seen)
}

// AllNumeric reports whether every non-missing cell in the named column is
// numeric, along with the min and max observed values. Columns with no
// numeric cells report false.
func (t *Table) AllNumeric(name string) (min, max float64, ok bool) {
	col := t.Column(name)
	if col == nil {
		return 0, 0, false
	}
	seen := false
	for _, c := range col.Cells {
		if c.IsMissing() {
			continue
		}
		v, isNum := c.Float()
		if !isNum {
			return 0, 0, false
		}
		if !seen || v < min {
			min = v
		}
		if !seen || v > max {
			max = v
		}
		seen = true
	}
	return min, max, seen
}

// InferCell converts a raw string from a file into a Cell. Empty strings
// become missing; values that parse as floats (after comma stripping)
// become numbers; everything else stays a string. Sentinel tokens like
// ".." survive as strings so that cleaning can count them explicitly.
func InferCell(raw string) Cell {
	if raw == "" {
		return Missing()
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed != "" {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(trimmed, ",", ""), 64); err == nil {
			return Number(v)
		}
	}
	return String(raw)
}

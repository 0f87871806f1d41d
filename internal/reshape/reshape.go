package reshape

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"wdipanel/internal/schema"
	"wdipanel/internal/table"
)

var (
	// ErrNoYearColumns reports that a wide reshape resolved zero year
	// columns. Almost always a wrong role assignment, so it is a distinct
	// condition rather than a silent empty result.
	ErrNoYearColumns = errors.New("no year columns resolved")

	// ErrEmptyReshape reports that no rows survived value cleaning.
	ErrEmptyReshape = errors.New("no rows survived reshaping")
)

// TidyRow is one (country, variable, year, value) observation. Value is
// never missing: rows that fail cleaning are dropped before a TidyRow
// exists.
type TidyRow struct {
	Country      string
	CountryCode  string
	Variable     string
	VariableCode string
	Year         int
	Value        float64
}

// Options controls reshaping.
type Options struct {
	// SelectedYears restricts the wide year columns that are unpivoted.
	// Empty means all resolved year columns.
	SelectedYears []int

	// Sentinels are tokens mapped to missing before numeric coercion.
	// Nil takes the World Bank defaults: "..", "", " ".
	Sentinels []string

	// YearMin and YearMax bound acceptable parsed years. Zero values
	// default to 1900 and 2100.
	YearMin int
	YearMax int
}

func (o *Options) applyDefaults() {
	if o.Sentinels == nil {
		o.Sentinels = []string{"..", "", " "}
	}
	if o.YearMin == 0 {
		o.YearMin = 1900
	}
	if o.YearMax == 0 {
		o.YearMax = 2100
	}
}

// Report records what reshaping dropped. Surfacing the drop counts is a
// required observable, not a log line: callers show it to users so they
// can trust (or distrust) the result.
type Report struct {
	YearColumns  int
	TotalCells   int
	Emitted      int
	DroppedValue int // sentinel, missing, or unparseable value
	DroppedYear  int // year failed to parse or out of range
}

// Dropped returns the total dropped observation count.
func (r Report) Dropped() int { return r.DroppedValue + r.DroppedYear }

// DroppedPct returns dropped observations as a percentage of all cells.
func (r Report) DroppedPct() float64 {
	if r.TotalCells == 0 {
		return 0
	}
	return 100 * float64(r.Dropped()) / float64(r.TotalCells)
}

// Reshape converts a raw table into tidy rows under the given role
// assignment. Wide tables unpivot one row per (table row, year column);
// long tables emit one row per (table row, value column). Duplicate
// observations are not resolved here; that is the pivoter's job.
func Reshape(t *table.Table, a *schema.Assignment, opts Options, logger *slog.Logger) ([]TidyRow, Report, error) {
	opts.applyDefaults()
	if logger == nil {
		logger = slog.Default()
	}

	var rep Report

	if err := a.Validate(); err != nil {
		return nil, rep, fmt.Errorf("invalid role assignment: %w", err)
	}

	var rows []TidyRow
	var err error
	if a.LongYearColumn != "" {
		rows, rep, err = reshapeLong(t, a, opts)
	} else {
		rows, rep, err = reshapeWide(t, a, opts)
	}
	if err != nil {
		return nil, rep, err
	}

	logger.Info("reshaped table",
		slog.Int("year_columns", rep.YearColumns),
		slog.Int("emitted", rep.Emitted),
		slog.Int("dropped", rep.Dropped()),
		slog.String("dropped_pct", fmt.Sprintf("%.1f%%", rep.DroppedPct())))

	if len(rows) == 0 {
		return nil, rep, ErrEmptyReshape
	}
	return rows, rep, nil
}

func reshapeWide(t *table.Table, a *schema.Assignment, opts Options) ([]TidyRow, Report, error) {
	var rep Report

	type yearCol struct {
		name string
		year int
	}
	var yearCols []yearCol
	for _, name := range a.YearColumns() {
		y, ok := schema.YearFromLabel(name)
		if !ok || y < opts.YearMin || y > opts.YearMax {
			continue
		}
		if len(opts.SelectedYears) > 0 && !containsInt(opts.SelectedYears, y) {
			continue
		}
		yearCols = append(yearCols, yearCol{name: name, year: y})
	}
	rep.YearColumns = len(yearCols)
	if len(yearCols) == 0 {
		return nil, rep, ErrNoYearColumns
	}

	countryCol := t.Column(a.CountryColumn())
	variableCol := t.Column(a.VariableColumn())
	codeCol := t.Column(a.CountryCodeColumn())
	varCodeCol := t.Column(a.VariableCodeColumn())

	var rows []TidyRow
	for i := 0; i < t.NumRows(); i++ {
		country := cellText(countryCol, i)
		variable := cellText(variableCol, i)
		if country == "" || variable == "" {
			rep.TotalCells += len(yearCols)
			rep.DroppedValue += len(yearCols)
			continue
		}
		for _, yc := range yearCols {
			rep.TotalCells++
			v, ok := cleanValue(t.Column(yc.name).Cells[i], opts.Sentinels)
			if !ok {
				rep.DroppedValue++
				continue
			}
			rows = append(rows, TidyRow{
				Country:      country,
				CountryCode:  cellText(codeCol, i),
				Variable:     variable,
				VariableCode: cellText(varCodeCol, i),
				Year:         yc.year,
				Value:        v,
			})
			rep.Emitted++
		}
	}
	return rows, rep, nil
}

func reshapeLong(t *table.Table, a *schema.Assignment, opts Options) ([]TidyRow, Report, error) {
	var rep Report
	rep.YearColumns = 1

	countryCol := t.Column(a.CountryColumn())
	codeCol := t.Column(a.CountryCodeColumn())
	yearCol := t.Column(a.LongYearColumn)

	// Every remaining unassigned column is a value column named for its
	// variable, matching how the original dashboard treats a long table.
	var valueCols []*table.Column
	for _, col := range t.Columns() {
		c := col
		switch c.Name {
		case a.CountryColumn(), a.CountryCodeColumn(), a.LongYearColumn:
			continue
		}
		if a.Role(c.Name) == schema.RoleIgnore {
			valueCols = append(valueCols, &c)
		}
	}

	var rows []TidyRow
	for i := 0; i < t.NumRows(); i++ {
		country := cellText(countryCol, i)
		year, yearOK := cellYear(yearCol, i, opts)
		for _, vc := range valueCols {
			rep.TotalCells++
			if country == "" || !yearOK {
				rep.DroppedYear++
				continue
			}
			v, ok := cleanValue(vc.Cells[i], opts.Sentinels)
			if !ok {
				rep.DroppedValue++
				continue
			}
			if len(opts.SelectedYears) > 0 && !containsInt(opts.SelectedYears, year) {
				continue
			}
			rows = append(rows, TidyRow{
				Country:     country,
				CountryCode: cellText(codeCol, i),
				Variable:    vc.Name,
				Year:        year,
				Value:       v,
			})
			rep.Emitted++
		}
	}
	return rows, rep, nil
}

// cleanValue applies the sentinel mapping and numeric coercion. Missing
// cells, sentinel tokens, coercion failures and non-finite values all
// report !ok.
func cleanValue(c table.Cell, sentinels []string) (float64, bool) {
	if c.IsMissing() {
		return 0, false
	}
	if c.Kind() == table.KindString {
		text := c.Text()
		for _, s := range sentinels {
			if text == s {
				return 0, false
			}
		}
	}
	v, ok := c.Float()
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func cellText(col *table.Column, i int) string {
	if col == nil || i >= len(col.Cells) {
		return ""
	}
	return strings.TrimSpace(col.Cells[i].Text())
}

func cellYear(col *table.Column, i int, opts Options) (int, bool) {
	if col == nil || i >= len(col.Cells) {
		return 0, false
	}
	v, ok := col.Cells[i].Float()
	if !ok {
		return 0, false
	}
	y := int(v)
	if float64(y) != v || y < opts.YearMin || y > opts.YearMax {
		return 0, false
	}
	return y, true
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

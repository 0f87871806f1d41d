package panel

import (
	"log/slog"
	"sort"

	"wdipanel/internal/reshape"
	"wdipanel/internal/series"
)

// Filter restricts which tidy rows enter the panel. Zero values mean no
// restriction on that axis; year bounds are inclusive.
type Filter struct {
	Countries []string
	Variables []string
	YearStart int
	YearEnd   int
}

func (f Filter) admits(r reshape.TidyRow) bool {
	if f.YearStart != 0 && r.Year < f.YearStart {
		return false
	}
	if f.YearEnd != 0 && r.Year > f.YearEnd {
		return false
	}
	if len(f.Countries) > 0 && !containsString(f.Countries, r.Country) {
		return false
	}
	if len(f.Variables) > 0 && !containsString(f.Variables, r.Variable) {
		return false
	}
	return true
}

// Row is one (country, year) observation row of a panel.
type Row struct {
	Country     string
	CountryID   int
	CountryCode string
	Year        int
	Values      map[string]float64 // variable -> value, absent when missing
}

// Panel is a country-year table: one row per (country, year) pair, one
// column per variable. Variables keep first-encounter order; rows are
// sorted by (country, year).
type Panel struct {
	rows      []Row
	variables []string
	hasCodes  bool
}

// Summary is the at-a-glance metadata shown to users before export.
type Summary struct {
	Countries int
	Variables int
	YearMin   int
	YearMax   int
	Rows      int
}

// Pivot groups tidy rows into a panel. Duplicate (country, year,
// variable) observations resolve by first occurrence; that tie-break is
// deliberate and documented, not an error. country_id is the 1-based
// lexicographic rank over the countries actually present after
// filtering, so it is stable within one panel but may shift when the
// filter changes.
func Pivot(rows []reshape.TidyRow, filter Filter, logger *slog.Logger) *Panel {
	if logger == nil {
		logger = slog.Default()
	}

	type key struct {
		country string
		year    int
	}

	p := &Panel{}
	cells := make(map[key]*Row)
	varSeen := make(map[string]bool)
	countrySet := make(map[string]bool)
	var order []key

	for _, r := range rows {
		if !filter.admits(r) {
			continue
		}
		if !varSeen[r.Variable] {
			varSeen[r.Variable] = true
			p.variables = append(p.variables, r.Variable)
		}
		countrySet[r.Country] = true
		if r.CountryCode != "" {
			p.hasCodes = true
		}

		k := key{country: r.Country, year: r.Year}
		row, ok := cells[k]
		if !ok {
			row = &Row{
				Country:     r.Country,
				CountryCode: r.CountryCode,
				Year:        r.Year,
				Values:      make(map[string]float64),
			}
			cells[k] = row
			order = append(order, k)
		}
		if _, exists := row.Values[r.Variable]; !exists {
			row.Values[r.Variable] = r.Value
		}
	}

	// Dense 1-based country ids by lexicographic rank.
	countries := make([]string, 0, len(countrySet))
	for c := range countrySet {
		countries = append(countries, c)
	}
	sort.Strings(countries)
	rank := make(map[string]int, len(countries))
	for i, c := range countries {
		rank[c] = i + 1
	}

	sort.Slice(order, func(a, b int) bool {
		if order[a].country != order[b].country {
			return order[a].country < order[b].country
		}
		return order[a].year < order[b].year
	})
	for _, k := range order {
		row := cells[k]
		row.CountryID = rank[row.Country]
		p.rows = append(p.rows, *row)
	}

	logger.Info("pivoted tidy rows into panel",
		slog.Int("rows", len(p.rows)),
		slog.Int("countries", len(countries)),
		slog.Int("variables", len(p.variables)))

	return p
}

// Rows returns the panel rows sorted by (country, year).
func (p *Panel) Rows() []Row { return p.rows }

// Variables returns the variable columns in first-encounter order.
func (p *Panel) Variables() []string { return p.variables }

// HasCountryCodes reports whether any row carries a country code.
func (p *Panel) HasCountryCodes() bool { return p.hasCodes }

// Countries returns the distinct country names in id order.
func (p *Panel) Countries() []string {
	var out []string
	seen := make(map[string]bool)
	for _, r := range p.rows {
		if !seen[r.Country] {
			seen[r.Country] = true
			out = append(out, r.Country)
		}
	}
	return out
}

// Summarize computes the panel's display metadata.
func (p *Panel) Summarize() Summary {
	s := Summary{
		Variables: len(p.variables),
		Rows:      len(p.rows),
		Countries: len(p.Countries()),
	}
	for _, r := range p.rows {
		if s.YearMin == 0 || r.Year < s.YearMin {
			s.YearMin = r.Year
		}
		if r.Year > s.YearMax {
			s.YearMax = r.Year
		}
	}
	return s
}

// Series extracts the annual series of one variable for one country,
// with gaps as absent years.
func (p *Panel) Series(country, variable string) (*series.Series, error) {
	var years []int
	var values []float64
	for _, r := range p.rows {
		if r.Country != country {
			continue
		}
		if v, ok := r.Values[variable]; ok {
			years = append(years, r.Year)
			values = append(values, v)
		}
	}
	return series.New(years, values)
}

func containsString(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

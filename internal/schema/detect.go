package schema

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"wdipanel/internal/table"
)

// DetectOptions tunes the heuristics. Zero values take the defaults that
// match World Bank wide exports.
type DetectOptions struct {
	// CountryDistinctThreshold is the minimum distinct string count for a
	// column to be guessed as the country column. Country lists are long
	// and textual; code and indicator columns are shorter or numeric.
	CountryDistinctThreshold int

	// DetectYearMin and DetectYearMax bound the value range a numeric
	// column must fall in to be guessed as a long-format year column.
	DetectYearMin int
	DetectYearMax int
}

func (o *DetectOptions) applyDefaults() {
	if o.CountryDistinctThreshold == 0 {
		o.CountryDistinctThreshold = 50
	}
	if o.DetectYearMin == 0 {
		o.DetectYearMin = 1960
	}
	if o.DetectYearMax == 0 {
		o.DetectYearMax = 2030
	}
}

var yearToken = regexp.MustCompile(`(19|20)\d\d`)

// YearFromLabel extracts a year from a column name such as
// "2010 [YR2010]" or "2010". It first regex-searches for a 4-digit token
// starting with 19 or 20, then falls back to parsing the first
// whitespace-delimited token as an integer. Results outside [1900, 2100]
// are rejected.
func YearFromLabel(name string) (int, bool) {
	if m := yearToken.FindString(name); m != "" {
		y, err := strconv.Atoi(m)
		if err == nil && y >= 1900 && y <= 2100 {
			return y, true
		}
	}
	fields := strings.Fields(name)
	if len(fields) > 0 {
		y, err := strconv.Atoi(fields[0])
		if err == nil && y >= 1900 && y <= 2100 {
			return y, true
		}
	}
	return 0, false
}

// looksLikeYearColumn reports whether a column name identifies a wide
// year column: it begins with a 19xx/20xx token (possibly followed by a
// bracketed repeat) or its first whitespace token is purely numeric.
func looksLikeYearColumn(name string) bool {
	trimmed := strings.TrimSpace(name)
	if loc := yearToken.FindStringIndex(trimmed); loc != nil && loc[0] == 0 {
		return true
	}
	fields := strings.Fields(trimmed)
	if len(fields) > 0 {
		if _, err := strconv.Atoi(fields[0]); err == nil {
			return true
		}
	}
	return false
}

// Detect inspects a raw table and proposes a role assignment. Detection
// never fails: when no confident guess exists the first column is used
// as a default and Confident is left false, so the caller knows to ask
// for an override.
func Detect(t *table.Table, opts DetectOptions, logger *slog.Logger) *Assignment {
	opts.applyDefaults()
	if logger == nil {
		logger = slog.Default()
	}

	names := t.ColumnNames()
	a := NewAssignment(names)
	if len(names) == 0 {
		return a
	}

	// Country: first string-typed column with enough distinct values.
	for _, name := range names {
		if t.DistinctStrings(name) > opts.CountryDistinctThreshold {
			a.Set(name, RoleCountry)
			a.Confident = true
			break
		}
	}

	// Long-format year column: first numeric column whose range sits
	// inside the plausible year window.
	for _, name := range names {
		if a.Role(name) != RoleIgnore {
			continue
		}
		min, max, ok := t.AllNumeric(name)
		if ok && min >= float64(opts.DetectYearMin) && max <= float64(opts.DetectYearMax) {
			a.Set(name, RoleYear)
			a.LongYearColumn = name
			break
		}
	}

	// Wide year columns by header name. A found long-year column wins;
	// mixing both layouts in one table is not a thing we guess at.
	if a.LongYearColumn == "" {
		for _, name := range names {
			if a.Role(name) == RoleIgnore && looksLikeYearColumn(name) {
				a.Set(name, RoleYear)
			}
		}
	}

	// Variable/indicator column: prefer a header mentioning Series or
	// Indicator; the name columns win over the code columns.
	var variable, variableCode string
	for _, name := range names {
		if a.Role(name) != RoleIgnore {
			continue
		}
		lower := strings.ToLower(name)
		if strings.Contains(lower, "series") || strings.Contains(lower, "indicator") {
			if strings.Contains(lower, "code") {
				if variableCode == "" {
					variableCode = name
				}
			} else if variable == "" {
				variable = name
			}
		}
	}
	if variable != "" {
		a.Set(variable, RoleVariable)
	}
	if variableCode != "" {
		a.Set(variableCode, RoleVariableCode)
	}

	// Country code column: WDI exports pair "Country Name" with
	// "Country Code".
	for _, name := range names {
		if a.Role(name) != RoleIgnore {
			continue
		}
		lower := strings.ToLower(name)
		if strings.Contains(lower, "country") && strings.Contains(lower, "code") {
			a.Set(name, RoleCountryCode)
			break
		}
	}

	// Fall back to the first column for country so the caller always has
	// something to override.
	if a.CountryColumn() == "" {
		a.Set(names[0], RoleCountry)
	}

	logger.Info("detected column roles",
		slog.String("country", a.CountryColumn()),
		slog.String("variable", a.VariableColumn()),
		slog.String("long_year", a.LongYearColumn),
		slog.Int("wide_year_columns", len(a.YearColumns())),
		slog.Bool("confident", a.Confident))

	return a
}

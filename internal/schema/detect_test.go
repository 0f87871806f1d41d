package schema

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wdipanel/internal/table"
)

func TestYearFromLabel(t *testing.T) {
	tests := []struct {
		label string
		year  int
		ok    bool
	}{
		{"2010 [YR2010]", 2010, true},
		{"1999", 1999, true},
		{"2030", 2030, true},
		{"GDP per capita", 0, false},
		{"Series Code", 0, false},
		{"1850", 0, false},
		{"2150", 0, false},
		{"value 2005", 2005, true},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			y, ok := YearFromLabel(tt.label)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.year, y)
			}
		})
	}
}

func TestLooksLikeYearColumn(t *testing.T) {
	assert.True(t, looksLikeYearColumn("2010 [YR2010]"))
	assert.True(t, looksLikeYearColumn("1987"))
	assert.False(t, looksLikeYearColumn("Country Name"))
	assert.False(t, looksLikeYearColumn("Series Name"))
	assert.False(t, looksLikeYearColumn("ca. 2010"))
}

// wideTable builds a WDI-shaped wide table with enough countries to trip
// the distinct-count heuristic.
func wideTable(t *testing.T, countries int) *table.Table {
	t.Helper()
	tbl := table.New()
	var names, codes, series, seriesCodes, y2010, y2011 []table.Cell
	for i := 0; i < countries; i++ {
		names = append(names, table.String(fmt.Sprintf("Country %03d", i)))
		codes = append(codes, table.String(fmt.Sprintf("C%03d", i)))
		series = append(series, table.String("GDP per capita"))
		seriesCodes = append(seriesCodes, table.String("NY.GDP.PCAP.CD"))
		y2010 = append(y2010, table.Number(float64(1000+i)))
		y2011 = append(y2011, table.Number(float64(1100+i)))
	}
	require.NoError(t, tbl.AddColumn("Country Name", names))
	require.NoError(t, tbl.AddColumn("Country Code", codes))
	require.NoError(t, tbl.AddColumn("Series Name", series))
	require.NoError(t, tbl.AddColumn("Series Code", seriesCodes))
	require.NoError(t, tbl.AddColumn("2010 [YR2010]", y2010))
	require.NoError(t, tbl.AddColumn("2011 [YR2011]", y2011))
	return tbl
}

func TestDetectWideFormat(t *testing.T) {
	tbl := wideTable(t, 60)

	a := Detect(tbl, DetectOptions{}, nil)

	assert.Equal(t, "Country Name", a.CountryColumn())
	assert.Equal(t, "Country Code", a.CountryCodeColumn())
	assert.Equal(t, "Series Name", a.VariableColumn())
	assert.Equal(t, "Series Code", a.VariableCodeColumn())
	assert.Equal(t, []string{"2010 [YR2010]", "2011 [YR2011]"}, a.YearColumns())
	assert.Empty(t, a.LongYearColumn)
	assert.True(t, a.Confident)
	assert.NoError(t, a.Validate())
}

func TestDetectLongFormat(t *testing.T) {
	tbl := table.New()
	var names, years, values []table.Cell
	for i := 0; i < 60; i++ {
		names = append(names, table.String(fmt.Sprintf("Country %03d", i)))
		years = append(years, table.Number(float64(1990+i%30)))
		values = append(values, table.Number(float64(10*i)))
	}
	require.NoError(t, tbl.AddColumn("country", names))
	require.NoError(t, tbl.AddColumn("year", years))
	require.NoError(t, tbl.AddColumn("gdp", values))

	a := Detect(tbl, DetectOptions{}, nil)

	assert.Equal(t, "country", a.CountryColumn())
	assert.Equal(t, "year", a.LongYearColumn)
	assert.True(t, a.Confident)
}

func TestDetectFallsBackToFirstColumn(t *testing.T) {
	tbl := table.New()
	require.NoError(t, tbl.AddColumn("x", []table.Cell{table.String("a"), table.String("b")}))
	require.NoError(t, tbl.AddColumn("y", []table.Cell{table.String("c"), table.String("d")}))

	a := Detect(tbl, DetectOptions{}, nil)

	assert.Equal(t, "x", a.CountryColumn(), "default seeds the first column")
	assert.False(t, a.Confident)
}

func TestAssignmentSetIsSingleSlot(t *testing.T) {
	a := NewAssignment([]string{"a", "b"})
	require.NoError(t, a.Set("a", RoleCountry))
	require.NoError(t, a.Set("b", RoleCountry))

	assert.Equal(t, "b", a.CountryColumn())
	assert.Equal(t, RoleIgnore, a.Role("a"))

	assert.Error(t, a.Set("nope", RoleYear))
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("country_code")
	require.NoError(t, err)
	assert.Equal(t, RoleCountryCode, r)

	_, err = ParseRole("bogus")
	assert.Error(t, err)
}

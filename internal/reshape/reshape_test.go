package reshape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wdipanel/internal/schema"
	"wdipanel/internal/table"
)

// wdiWide builds the concrete scenario from the WDI export layout: two
// countries, one series, four value cells, one of them the ".." sentinel.
func wdiWide(t *testing.T) (*table.Table, *schema.Assignment) {
	t.Helper()
	tbl := table.New()
	require.NoError(t, tbl.AddColumn("Country Name", []table.Cell{
		table.String("Albania"), table.String("Belgium"),
	}))
	require.NoError(t, tbl.AddColumn("Series Name", []table.Cell{
		table.String("GDP per capita"), table.String("GDP per capita"),
	}))
	require.NoError(t, tbl.AddColumn("Series Code", []table.Cell{
		table.String("NY.GDP.PCAP.CD"), table.String("NY.GDP.PCAP.CD"),
	}))
	require.NoError(t, tbl.AddColumn("2010 [YR2010]", []table.Cell{
		table.Number(4094.35), table.String(".."),
	}))
	require.NoError(t, tbl.AddColumn("2011 [YR2011]", []table.Cell{
		table.Number(4437.14), table.Number(46662.52),
	}))

	a := schema.NewAssignment(tbl.ColumnNames())
	require.NoError(t, a.Set("Country Name", schema.RoleCountry))
	require.NoError(t, a.Set("Series Name", schema.RoleVariable))
	require.NoError(t, a.Set("Series Code", schema.RoleVariableCode))
	require.NoError(t, a.Set("2010 [YR2010]", schema.RoleYear))
	require.NoError(t, a.Set("2011 [YR2011]", schema.RoleYear))
	return tbl, a
}

func TestReshapeWideDropsSentinel(t *testing.T) {
	tbl, a := wdiWide(t)

	rows, rep, err := Reshape(tbl, a, Options{}, nil)
	require.NoError(t, err)

	// Four cells, one sentinel dropped.
	require.Len(t, rows, 3)
	assert.Equal(t, 2, rep.YearColumns)
	assert.Equal(t, 4, rep.TotalCells)
	assert.Equal(t, 1, rep.Dropped())
	assert.InDelta(t, 25.0, rep.DroppedPct(), 1e-9)

	for _, r := range rows {
		assert.NotEmpty(t, r.Country)
		assert.Equal(t, "GDP per capita", r.Variable)
		assert.Equal(t, "NY.GDP.PCAP.CD", r.VariableCode)
		assert.Contains(t, []int{2010, 2011}, r.Year)
	}

	// The Belgian 2010 sentinel must not appear.
	for _, r := range rows {
		if r.Country == "Belgium" {
			assert.Equal(t, 2011, r.Year)
		}
	}
}

func TestReshapeSelectedYears(t *testing.T) {
	tbl, a := wdiWide(t)

	rows, rep, err := Reshape(tbl, a, Options{SelectedYears: []int{2011}}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, rep.YearColumns)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, 2011, r.Year)
	}
}

func TestReshapeNoYearColumns(t *testing.T) {
	tbl := table.New()
	require.NoError(t, tbl.AddColumn("Country Name", []table.Cell{table.String("Albania")}))
	require.NoError(t, tbl.AddColumn("Series Name", []table.Cell{table.String("GDP")}))
	require.NoError(t, tbl.AddColumn("Notes", []table.Cell{table.String("n/a")}))

	a := schema.NewAssignment(tbl.ColumnNames())
	require.NoError(t, a.Set("Country Name", schema.RoleCountry))
	require.NoError(t, a.Set("Series Name", schema.RoleVariable))

	_, _, err := Reshape(tbl, a, Options{}, nil)
	assert.ErrorIs(t, err, ErrNoYearColumns)
}

func TestReshapeAllSentinelsIsDistinctError(t *testing.T) {
	tbl := table.New()
	require.NoError(t, tbl.AddColumn("Country Name", []table.Cell{table.String("Albania")}))
	require.NoError(t, tbl.AddColumn("Series Name", []table.Cell{table.String("GDP")}))
	require.NoError(t, tbl.AddColumn("2010", []table.Cell{table.String("..")}))

	a := schema.NewAssignment(tbl.ColumnNames())
	require.NoError(t, a.Set("Country Name", schema.RoleCountry))
	require.NoError(t, a.Set("Series Name", schema.RoleVariable))
	require.NoError(t, a.Set("2010", schema.RoleYear))

	_, rep, err := Reshape(tbl, a, Options{}, nil)
	assert.ErrorIs(t, err, ErrEmptyReshape)
	assert.Equal(t, 1, rep.Dropped())
}

func TestReshapeLongFormat(t *testing.T) {
	tbl := table.New()
	require.NoError(t, tbl.AddColumn("country", []table.Cell{
		table.String("Albania"), table.String("Albania"), table.String("Belgium"),
	}))
	require.NoError(t, tbl.AddColumn("year", []table.Cell{
		table.Number(2010), table.Number(2011), table.Number(2010),
	}))
	require.NoError(t, tbl.AddColumn("gdp", []table.Cell{
		table.Number(100), table.String(" "), table.Number(300),
	}))
	require.NoError(t, tbl.AddColumn("population", []table.Cell{
		table.Number(2.9), table.Number(2.9), table.Number(11.0),
	}))

	a := schema.NewAssignment(tbl.ColumnNames())
	require.NoError(t, a.Set("country", schema.RoleCountry))
	require.NoError(t, a.Set("year", schema.RoleYear))
	a.LongYearColumn = "year"

	rows, rep, err := Reshape(tbl, a, Options{}, nil)
	require.NoError(t, err)

	// 3 rows x 2 value columns, one " " sentinel dropped.
	assert.Len(t, rows, 5)
	assert.Equal(t, 6, rep.TotalCells)
	assert.Equal(t, 1, rep.Dropped())

	vars := map[string]int{}
	for _, r := range rows {
		vars[r.Variable]++
	}
	assert.Equal(t, map[string]int{"gdp": 2, "population": 3}, vars)
}

func TestCleanValue(t *testing.T) {
	sentinels := []string{"..", "", " "}

	tests := []struct {
		name string
		cell table.Cell
		want float64
		ok   bool
	}{
		{"number passes", table.Number(5), 5, true},
		{"numeric string passes", table.String("1,234.5"), 1234.5, true},
		{"dot-dot sentinel", table.String(".."), 0, false},
		{"space sentinel", table.String(" "), 0, false},
		{"missing", table.Missing(), 0, false},
		{"garbage", table.String("n/a"), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := cleanValue(tt.cell, sentinels)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, v)
			}
		})
	}
}

package table

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferCell(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind CellKind
	}{
		{"empty becomes missing", "", KindMissing},
		{"plain number", "42.5", KindNumber},
		{"thousands separators", "1,234,567", KindNumber},
		{"negative", "-3.2", KindNumber},
		{"country name", "Albania", KindString},
		{"sentinel stays string", "..", KindString},
		{"single space stays string", " ", KindString},
		{"year token", "2010", KindNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, InferCell(tt.raw).Kind())
		})
	}
}

func TestCellFloat(t *testing.T) {
	v, ok := Number(3.14).Float()
	require.True(t, ok)
	assert.Equal(t, 3.14, v)

	v, ok = String(" 1,200 ").Float()
	require.True(t, ok)
	assert.Equal(t, 1200.0, v)

	_, ok = String("..").Float()
	assert.False(t, ok)

	_, ok = Missing().Float()
	assert.False(t, ok)
}

func TestTableRectangularity(t *testing.T) {
	tbl := New()
	require.NoError(t, tbl.AddColumn("a", []Cell{Number(1), Number(2)}))

	err := tbl.AddColumn("b", []Cell{Number(1)})
	assert.Error(t, err, "short column must be rejected")

	err = tbl.AddColumn("a", []Cell{Number(3), Number(4)})
	assert.Error(t, err, "duplicate column name must be rejected")

	require.NoError(t, tbl.AddColumn("b", []Cell{Number(3), Number(4)}))
	assert.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, 2, tbl.NumCols())
	assert.Equal(t, []string{"a", "b"}, tbl.ColumnNames())
}

func TestDistinctStrings(t *testing.T) {
	tbl := New()
	require.NoError(t, tbl.AddColumn("country", []Cell{
		String("Albania"), String("Belgium"), String("Albania"), Missing(), Number(7),
	}))
	assert.Equal(t, 2, tbl.DistinctStrings("country"))
	assert.Equal(t, 0, tbl.DistinctStrings("nope"))
}

func TestAllNumeric(t *testing.T) {
	tbl := New()
	require.NoError(t, tbl.AddColumn("year", []Cell{Number(2000), Number(2020), Missing()}))
	require.NoError(t, tbl.AddColumn("name", []Cell{String("a"), String("b"), String("c")}))

	min, max, ok := tbl.AllNumeric("year")
	require.True(t, ok)
	assert.Equal(t, 2000.0, min)
	assert.Equal(t, 2020.0, max)

	_, _, ok = tbl.AllNumeric("name")
	assert.False(t, ok)
}

func TestReadCSV(t *testing.T) {
	input := strings.Join([]string{
		`Country Name,Series Name,2010 [YR2010],2011 [YR2011]`,
		`Albania,GDP,100.5,..`,
		`Belgium,GDP,"1,200",1250`,
	}, "\n")

	tbl, err := ReadCSV(strings.NewReader(input), nil)
	require.NoError(t, err)

	assert.Equal(t, 4, tbl.NumCols())
	assert.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, "2010 [YR2010]", tbl.ColumnNames()[2])

	col := tbl.Column("2010 [YR2010]")
	require.NotNil(t, col)
	v, ok := col.Cells[1].Float()
	require.True(t, ok)
	assert.Equal(t, 1200.0, v)

	// ".." survives the table layer as a string.
	col = tbl.Column("2011 [YR2011]")
	require.NotNil(t, col)
	assert.Equal(t, KindString, col.Cells[0].Kind())
	assert.Equal(t, "..", col.Cells[0].Text())
}

func TestReadCSVRaggedRows(t *testing.T) {
	input := "a,b,c\n1,2\n4,5,6\n"
	tbl, err := ReadCSV(strings.NewReader(input), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.NumRows())
	assert.True(t, tbl.Column("c").Cells[0].IsMissing())
}

func TestReadCSVEmpty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""), nil)
	assert.Error(t, err)
}

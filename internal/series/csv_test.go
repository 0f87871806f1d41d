package series

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMonthlyCSV(t *testing.T) {
	input := "month,value\n2010-01,10.5\n2010-02,11\n2010-03,12.25\n"

	m, err := ReadMonthlyCSV(strings.NewReader(input))
	require.NoError(t, err)

	require.Equal(t, 3, m.Len())
	assert.Equal(t, 10.5, m.Points()[0].Value)
	assert.Equal(t, 2010, m.Points()[2].Date.Year())
	assert.Equal(t, 3, int(m.Points()[2].Date.Month()))
}

func TestReadMonthlyCSVNoHeader(t *testing.T) {
	m, err := ReadMonthlyCSV(strings.NewReader("2015-06,100\n2015-07,110\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, m.Len())
}

func TestReadMonthlyCSVErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"header only", "month,value\n"},
		{"bad month", "month,value\n13-2010,5\n"},
		{"bad value", "month,value\n2010-01,abc\n"},
		{"missing column", "month,value\n2010-01\n"},
		{"duplicate month", "2010-01,1\n2010-01,2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadMonthlyCSV(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestReadAnnualCSV(t *testing.T) {
	s, err := ReadAnnualCSV(strings.NewReader("year,value\n2010,100\n2011,112\n"))
	require.NoError(t, err)

	assert.Equal(t, []int{2010, 2011}, s.Years())
	assert.Equal(t, []float64{100, 112}, s.Values())
}

func TestReadAnnualCSVWithBOM(t *testing.T) {
	s, err := ReadAnnualCSV(strings.NewReader("\uFEFF2010,100\n2011,112\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
}

func TestReadAnnualCSVBadYear(t *testing.T) {
	_, err := ReadAnnualCSV(strings.NewReader("2010,100\noops,5\n"))
	assert.Error(t, err)
}

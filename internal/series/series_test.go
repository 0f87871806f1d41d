package series

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSortsAndRejectsDuplicates(t *testing.T) {
	s, err := New([]int{2012, 2010, 2011}, []float64{3, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, []int{2010, 2011, 2012}, s.Years())
	assert.Equal(t, []float64{1, 2, 3}, s.Values())

	_, err = New([]int{2010, 2010}, []float64{1, 2})
	assert.Error(t, err)

	_, err = New([]int{2010}, []float64{1, 2})
	assert.Error(t, err)
}

func TestSeriesAccessors(t *testing.T) {
	s, err := New([]int{2010, 2012, 2015}, []float64{1, 2, 3})
	require.NoError(t, err)

	v, ok := s.Get(2012)
	require.True(t, ok)
	assert.Equal(t, 2.0, v)

	_, ok = s.Get(2011)
	assert.False(t, ok)

	assert.Equal(t, 2010, s.FirstYear())
	assert.Equal(t, 2015, s.LastYear())
	assert.False(t, s.Contiguous())

	st := s.Missing()
	assert.Equal(t, 6, st.Span)
	assert.Equal(t, 3, st.Missing)
	assert.InDelta(t, 0.5, st.Fraction, 1e-12)
}

func TestContiguous(t *testing.T) {
	s, err := New([]int{2010, 2011, 2012}, []float64{1, 2, 3})
	require.NoError(t, err)
	assert.True(t, s.Contiguous())
	assert.Equal(t, 0, s.Missing().Missing)
}

func TestMonthlyNormalizesAndSorts(t *testing.T) {
	m, err := NewMonthly([]MonthPoint{
		{Date: time.Date(2010, time.March, 15, 10, 0, 0, 0, time.UTC), Value: 3},
		{Date: MonthStart(2010, time.January), Value: 1},
		{Date: MonthStart(2010, time.February), Value: 2},
	})
	require.NoError(t, err)

	pts := m.Points()
	require.Len(t, pts, 3)
	assert.Equal(t, MonthStart(2010, time.March), pts[2].Date, "mid-month date normalized to month start")

	_, err = NewMonthly([]MonthPoint{
		{Date: MonthStart(2010, time.January), Value: 1},
		{Date: time.Date(2010, time.January, 20, 0, 0, 0, 0, time.UTC), Value: 2},
	})
	assert.Error(t, err, "two points in the same month must be rejected")
}

func TestYearSums(t *testing.T) {
	m, err := NewMonthly([]MonthPoint{
		{Date: MonthStart(2010, time.November), Value: 5},
		{Date: MonthStart(2010, time.December), Value: 7},
		{Date: MonthStart(2011, time.January), Value: 11},
	})
	require.NoError(t, err)

	sums := m.YearSums()
	assert.Equal(t, YearAggregate{Sum: 12, Months: 2}, sums[2010])
	assert.Equal(t, YearAggregate{Sum: 11, Months: 1}, sums[2011])
}

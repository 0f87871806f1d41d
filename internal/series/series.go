package series

import (
	"fmt"
	"sort"
	"time"
)

// Series is an annual time series: strictly increasing years with one
// float value each. Gaps are represented by absent years, never by
// sentinel values.
type Series struct {
	years  []int
	values []float64
}

// New builds a Series from parallel year/value slices. Years are sorted
// and must be distinct.
func New(years []int, values []float64) (*Series, error) {
	if len(years) != len(values) {
		return nil, fmt.Errorf("years and values length mismatch: %d vs %d", len(years), len(values))
	}
	idx := make([]int, len(years))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return years[idx[a]] < years[idx[b]] })

	s := &Series{
		years:  make([]int, len(years)),
		values: make([]float64, len(values)),
	}
	for i, j := range idx {
		s.years[i] = years[j]
		s.values[i] = values[j]
	}
	for i := 1; i < len(s.years); i++ {
		if s.years[i] == s.years[i-1] {
			return nil, fmt.Errorf("duplicate year %d", s.years[i])
		}
	}
	return s, nil
}

// Len returns the number of observations.
func (s *Series) Len() int { return len(s.years) }

// Years returns the observation years in increasing order.
func (s *Series) Years() []int { return s.years }

// Values returns the values aligned with Years.
func (s *Series) Values() []float64 { return s.values }

// Get returns the value for a year, if present.
func (s *Series) Get(year int) (float64, bool) {
	i := sort.SearchInts(s.years, year)
	if i < len(s.years) && s.years[i] == year {
		return s.values[i], true
	}
	return 0, false
}

// FirstYear returns the earliest observation year. Zero if empty.
func (s *Series) FirstYear() int {
	if len(s.years) == 0 {
		return 0
	}
	return s.years[0]
}

// LastYear returns the latest observation year. Zero if empty.
func (s *Series) LastYear() int {
	if len(s.years) == 0 {
		return 0
	}
	return s.years[len(s.years)-1]
}

// Contiguous reports whether the series has no interior gaps.
func (s *Series) Contiguous() bool {
	for i := 1; i < len(s.years); i++ {
		if s.years[i] != s.years[i-1]+1 {
			return false
		}
	}
	return true
}

// MissingStats describes the interior gaps of a series: years between
// the first and last observation with no value.
type MissingStats struct {
	Span     int // years from first to last observation, inclusive
	Missing  int
	Fraction float64
}

// Missing computes interior gap statistics.
func (s *Series) Missing() MissingStats {
	if len(s.years) == 0 {
		return MissingStats{}
	}
	span := s.LastYear() - s.FirstYear() + 1
	missing := span - len(s.years)
	st := MissingStats{Span: span, Missing: missing}
	if span > 0 {
		st.Fraction = float64(missing) / float64(span)
	}
	return st
}

// MonthPoint is one month-start observation of a monthly series.
type MonthPoint struct {
	Date  time.Time
	Value float64
}

// Monthly is a monthly time series with month-start UTC timestamps,
// strictly increasing. Gaps are absent points.
type Monthly struct {
	points []MonthPoint
}

// MonthStart returns the canonical month-start timestamp.
func MonthStart(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

// NewMonthly builds a Monthly from points, sorting by date. Dates are
// normalized to month starts and must be distinct.
func NewMonthly(points []MonthPoint) (*Monthly, error) {
	ps := make([]MonthPoint, len(points))
	for i, p := range points {
		ps[i] = MonthPoint{Date: MonthStart(p.Date.Year(), p.Date.Month()), Value: p.Value}
	}
	sort.Slice(ps, func(a, b int) bool { return ps[a].Date.Before(ps[b].Date) })
	for i := 1; i < len(ps); i++ {
		if ps[i].Date.Equal(ps[i-1].Date) {
			return nil, fmt.Errorf("duplicate month %s", ps[i].Date.Format("2006-01"))
		}
	}
	return &Monthly{points: ps}, nil
}

// Len returns the number of monthly observations.
func (m *Monthly) Len() int { return len(m.points) }

// Points returns the observations in time order.
func (m *Monthly) Points() []MonthPoint { return m.points }

// YearAggregate is the per-year roll-up of a monthly series.
type YearAggregate struct {
	Sum    float64
	Months int
}

// YearSums aggregates monthly values into per-year sums along with the
// number of months observed in each year.
func (m *Monthly) YearSums() map[int]YearAggregate {
	out := make(map[int]YearAggregate)
	for _, p := range m.points {
		e := out[p.Date.Year()]
		e.Sum += p.Value
		e.Months++
		out[p.Date.Year()] = e
	}
	return out
}

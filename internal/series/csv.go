package series

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// ReadMonthlyCSV parses a two-column (month, value) CSV into a Monthly
// series. Months are "2006-01" formatted; a header row is skipped if
// the first field does not parse as a month.
func ReadMonthlyCSV(r io.Reader) (*Monthly, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var points []MonthPoint
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record %d: %w", line+1, err)
		}
		line++
		if len(record) < 2 {
			return nil, fmt.Errorf("record %d: need month,value columns", line)
		}
		date, err := time.Parse("2006-01", strings.TrimSpace(strings.TrimPrefix(record[0], "\uFEFF")))
		if err != nil {
			if line == 1 {
				continue // header
			}
			return nil, fmt.Errorf("record %d: bad month %q", line, record[0])
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("record %d: bad value %q", line, record[1])
		}
		points = append(points, MonthPoint{Date: date, Value: value})
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("no monthly observations in input")
	}
	return NewMonthly(points)
}

// ReadAnnualCSV parses a two-column (year, value) CSV into a Series,
// skipping a header row if present.
func ReadAnnualCSV(r io.Reader) (*Series, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var years []int
	var values []float64
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record %d: %w", line+1, err)
		}
		line++
		if len(record) < 2 {
			return nil, fmt.Errorf("record %d: need year,value columns", line)
		}
		year, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(record[0], "\uFEFF")))
		if err != nil {
			if line == 1 {
				continue // header
			}
			return nil, fmt.Errorf("record %d: bad year %q", line, record[0])
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("record %d: bad value %q", line, record[1])
		}
		years = append(years, year)
		values = append(values, value)
	}
	if len(years) == 0 {
		return nil, fmt.Errorf("no annual observations in input")
	}
	return New(years, values)
}

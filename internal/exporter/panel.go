package exporter

import (
	"fmt"
	"strconv"
	"strings"

	"wdipanel/internal/panel"
	"wdipanel/internal/series"
)

// PanelFileName builds the export filename for a panel: the year range
// and, when transforms were applied, the provenance label.
func PanelFileName(yearStart, yearEnd int, label string) string {
	name := fmt.Sprintf("wdi_panel_%d_%d", yearStart, yearEnd)
	if label != "" {
		name += "_" + label
	}
	return name + ".csv"
}

// WritePanelCSV exports a panel: header
// country,country_id[,country_code],year,<variables...>, one row per
// (country, year), missing cells empty.
func (w *CSVWriter) WritePanelCSV(fileName string, p *panel.Panel) error {
	headers := []string{"country", "country_id"}
	if p.HasCountryCodes() {
		headers = append(headers, "country_code")
	}
	headers = append(headers, "year")
	headers = append(headers, p.Variables()...)

	records := make([][]string, 0, len(p.Rows()))
	for _, row := range p.Rows() {
		rec := []string{row.Country, strconv.Itoa(row.CountryID)}
		if p.HasCountryCodes() {
			rec = append(rec, row.CountryCode)
		}
		rec = append(rec, strconv.Itoa(row.Year))
		for _, v := range p.Variables() {
			if val, ok := row.Values[v]; ok {
				rec = append(rec, strconv.FormatFloat(val, 'f', -1, 64))
			} else {
				rec = append(rec, "")
			}
		}
		records = append(records, rec)
	}

	return w.WriteCSV(fileName, WriteOptions{
		Headers:   headers,
		Records:   records,
		BOMPrefix: true,
	})
}

// MonthlyFileName builds the export filename for one disaggregated
// series.
func MonthlyFileName(country, variable, label string) string {
	name := fmt.Sprintf("monthly_%s_%s", slug(country), slug(variable))
	if label != "" {
		name += "_" + label
	}
	return name + ".csv"
}

// WriteMonthlyCSV exports one monthly series with header
// country,variable,month,value.
func (w *CSVWriter) WriteMonthlyCSV(fileName, country, variable string, m *series.Monthly) error {
	records := make([][]string, 0, m.Len())
	for _, p := range m.Points() {
		records = append(records, []string{
			country,
			variable,
			p.Date.Format("2006-01"),
			strconv.FormatFloat(p.Value, 'f', -1, 64),
		})
	}
	return w.WriteCSV(fileName, WriteOptions{
		Headers:   []string{"country", "variable", "month", "value"},
		Records:   records,
		BOMPrefix: true,
	})
}

// slug makes a name safe for filenames.
func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

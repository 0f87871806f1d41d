package table

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadExcel reads the first plausible sheet of an XLSX workbook into a
// Table. If sheetName is non-empty, that sheet is used; otherwise the
// first sheet whose leading row looks like a header (at least two
// non-empty cells) wins.
func ReadExcel(filePath, sheetName string, logger *slog.Logger) (*Table, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	var rows [][]string
	var chosen string

	if sheetName != "" {
		rows, err = f.GetRows(sheetName)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
		}
		chosen = sheetName
	} else {
		for _, name := range f.GetSheetList() {
			testRows, testErr := f.GetRows(name)
			if testErr != nil || len(testRows) < 2 {
				continue
			}
			nonEmpty := 0
			for _, cell := range testRows[0] {
				if strings.TrimSpace(cell) != "" {
					nonEmpty++
				}
			}
			if nonEmpty >= 2 {
				rows = testRows
				chosen = name
				break
			}
		}
		if chosen == "" {
			return nil, fmt.Errorf("could not find a data sheet in %s", filePath)
		}
	}

	if len(rows) < 1 {
		return nil, fmt.Errorf("sheet %q is empty", chosen)
	}

	logger.Info("reading Excel sheet",
		slog.String("sheet_name", chosen),
		slog.Int("total_rows", len(rows)))

	header := rows[0]
	columns := make([][]Cell, len(header))
	for _, row := range rows[1:] {
		// Skip rows that are entirely blank.
		hasData := false
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				hasData = true
				break
			}
		}
		if !hasData {
			continue
		}
		for i := range header {
			if i < len(row) {
				columns[i] = append(columns[i], InferCell(row[i]))
			} else {
				columns[i] = append(columns[i], Missing())
			}
		}
	}

	t := New()
	for i, name := range header {
		colName := strings.TrimSpace(name)
		if colName == "" {
			colName = fmt.Sprintf("column_%d", i+1)
		}
		if err := t.AddColumn(colName, columns[i]); err != nil {
			if err := t.AddColumn(fmt.Sprintf("%s_%d", colName, i+1), columns[i]); err != nil {
				return nil, err
			}
		}
	}

	logger.Info("parsed Excel input",
		slog.Int("columns", t.NumCols()),
		slog.Int("rows", t.NumRows()))

	return t, nil
}

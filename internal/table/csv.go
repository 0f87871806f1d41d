package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ReadCSV parses delimited text into a Table. The first record is the
// header; remaining records become rows with per-cell type inference.
// Short records are padded with missing cells, matching how spreadsheet
// exports trail off.
func ReadCSV(r io.Reader, logger *slog.Logger) (*Table, error) {
	if logger == nil {
		logger = slog.Default()
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged exports are common
	reader.TrimLeadingSpace = false

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty input: no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Strip a UTF-8 BOM from the first header cell if present.
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	columns := make([][]Cell, len(header))
	rowCount := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record %d: %w", rowCount+1, err)
		}
		for i := range header {
			if i < len(record) {
				columns[i] = append(columns[i], InferCell(record[i]))
			} else {
				columns[i] = append(columns[i], Missing())
			}
		}
		rowCount++
	}

	t := New()
	for i, name := range header {
		colName := name
		if colName == "" {
			colName = fmt.Sprintf("column_%d", i+1)
		}
		if err := t.AddColumn(colName, columns[i]); err != nil {
			// Duplicate headers happen in hand-edited exports; suffix them.
			if err := t.AddColumn(fmt.Sprintf("%s_%d", colName, i+1), columns[i]); err != nil {
				return nil, err
			}
		}
	}

	logger.Info("parsed CSV input",
		slog.Int("columns", t.NumCols()),
		slog.Int("rows", t.NumRows()))

	return t, nil
}

package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Options configures Load.
type Options struct {
	Sheet   string  // spreadsheet sheet name; empty selects the first sheet
	Columns Columns // header names; empty fields use DefaultColumns
}

// Load reads every record from the file at path. The reader is chosen by extension:
// .xlsx and .xlsm are read as spreadsheets, .csv as comma-separated text.
// The first row must be a header naming the configured columns.
func Load(path string, opts Options) ([]Record, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputNotFound, err)
	}
	cols := opts.Columns.WithDefaults()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return loadXLSX(path, opts.Sheet, cols)
	case ".csv":
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInputNotFound, err)
		}
		defer file.Close()
		return ReadCSV(file, cols)
	default:
		return nil, fmt.Errorf("%w: unsupported file extension %q; valid: .xlsx, .xlsm, .csv", ErrInputMalformed, filepath.Ext(path))
	}
}

// ReadCSV reads records from comma-separated text with a header row.
func ReadCSV(r io.Reader, cols Columns) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: reading CSV: %v", ErrInputMalformed, err)
	}
	return parseRows(rows, cols.WithDefaults())
}

// parseRows converts a header row plus data rows into records. Blank rows are skipped.
func parseRows(rows [][]string, cols Columns) ([]Record, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no header row", ErrInputMalformed)
	}
	index, err := locateColumns(rows[0], cols)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		line := i + 2 // 1-based, counting the header
		values := make([]float64, len(index))
		for f, col := range index {
			v, err := parseCell(row, col)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d, column %q: %v", ErrInputMalformed, line, rows[0][col], err)
			}
			values[f] = v
		}
		records = append(records, Record{
			Row:              len(records),
			Cement:           values[0],
			Water:            values[1],
			Superplasticizer: values[2],
			Age:              values[3],
			Strength:         values[4],
		})
	}
	return records, nil
}

// locateColumns returns, for each name in cols.Names(), its index in header.
// Matching ignores case and surrounding whitespace.
func locateColumns(header []string, cols Columns) ([]int, error) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		key := normalizeHeader(h)
		if _, dup := positions[key]; !dup {
			positions[key] = i
		}
	}
	names := cols.Names()
	index := make([]int, len(names))
	var missing []string
	for f, name := range names {
		col, ok := positions[normalizeHeader(name)]
		if !ok {
			missing = append(missing, name)
			continue
		}
		index[f] = col
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing column(s) %s", ErrInputMalformed, strings.Join(missing, ", "))
	}
	return index, nil
}

// normalizeHeader also drops the byte-order mark spreadsheet exports put before the first cell.
func normalizeHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(s, "\uFEFF")))
}

func parseCell(row []string, col int) (float64, error) {
	if col >= len(row) || strings.TrimSpace(row[col]) == "" {
		return 0, fmt.Errorf("empty cell")
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", row[col])
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("must be a finite number, got %q", row[col])
	}
	return v, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

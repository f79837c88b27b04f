package dataset

import (
	"fmt"
	"io"
	"slices"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

func loadXLSX(path, sheet string, cols Columns) ([]Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening spreadsheet: %v", ErrInputMalformed, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logrus.Warnf("closing spreadsheet %s: %v", path, err)
		}
	}()
	return readWorkbook(f, sheet, cols)
}

// ReadXLSX reads records from a spreadsheet stream. An empty sheet name selects the
// first sheet.
func ReadXLSX(r io.Reader, sheet string, cols Columns) ([]Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: opening spreadsheet: %v", ErrInputMalformed, err)
	}
	defer f.Close()
	return readWorkbook(f, sheet, cols.WithDefaults())
}

func readWorkbook(f *excelize.File, sheet string, cols Columns) ([]Record, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrInputMalformed)
	}
	if sheet == "" {
		sheet = sheets[0]
	} else if !slices.Contains(sheets, sheet) {
		return nil, fmt.Errorf("%w: sheet %q not found; available: %v", ErrInputMalformed, sheet, sheets)
	}

	// Raw values keep full precision regardless of the cell's number format.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: reading sheet %q: %v", ErrInputMalformed, sheet, err)
	}
	logrus.Debugf("read %d rows from sheet %q", len(rows), sheet)
	return parseRows(rows, cols)
}

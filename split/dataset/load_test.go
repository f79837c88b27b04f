package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var fullHeader = []interface{}{
	"cement", "blast_furnace_slag", "fly_ash", "water", "superplasticizer",
	"coarse_aggregate", "fine_aggregate", "age", "concrete_compressive_strength",
}

var fullRows = [][]interface{}{
	{540.0, 0.0, 0.0, 162.0, 2.5, 1040.0, 676.0, 28, 79.99},
	{540.0, 0.0, 0.0, 162.0, 2.5, 1055.0, 676.0, 28, 61.89},
	{332.5, 142.5, 0.0, 228.0, 0.0, 932.0, 594.0, 270, 40.27},
}

// writeWorkbook saves header and rows to a new .xlsx file in a temp dir and returns its path.
func writeWorkbook(t *testing.T, sheet string, header []interface{}, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
		require.NoError(t, f.DeleteSheet("Sheet1"))
	}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	path := filepath.Join(t.TempDir(), "concrete_data.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoad_XLSX_ReadsSelectedColumns(t *testing.T) {
	// GIVEN a workbook with the full concrete header
	path := writeWorkbook(t, "Sheet1", fullHeader, fullRows)

	// WHEN loaded with default columns
	records, err := Load(path, Options{})
	require.NoError(t, err)

	// THEN the five fields are read in order
	require.Len(t, records, 3)
	assert.Equal(t, Record{Row: 0, Cement: 540, Water: 162, Superplasticizer: 2.5, Age: 28, Strength: 79.99}, records[0])
	assert.Equal(t, Record{Row: 2, Cement: 332.5, Water: 228, Superplasticizer: 0, Age: 270, Strength: 40.27}, records[2])
}

func TestLoad_XLSX_NamedSheet(t *testing.T) {
	path := writeWorkbook(t, "mixtures", fullHeader, fullRows[:1])

	records, err := Load(path, Options{Sheet: "mixtures"})
	require.NoError(t, err)
	assert.Len(t, records, 1)

	_, err = Load(path, Options{Sheet: "missing"})
	assert.ErrorIs(t, err, ErrInputMalformed)
}

func TestLoad_XLSX_MissingColumn(t *testing.T) {
	header := []interface{}{"cement", "water", "age", "concrete_compressive_strength"}
	path := writeWorkbook(t, "Sheet1", header, [][]interface{}{{540.0, 162.0, 28, 79.99}})

	_, err := Load(path, Options{})

	assert.ErrorIs(t, err, ErrInputMalformed)
	assert.ErrorContains(t, err, "superplasticizer")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.xlsx"), Options{})
	assert.ErrorIs(t, err, ErrInputNotFound)
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	_, err := Load(path, Options{})
	assert.ErrorIs(t, err, ErrInputMalformed)
}

func TestLoad_CSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concrete.csv")
	content := "cement,water,superplasticizer,age,concrete_compressive_strength\n" +
		"540,162,2.5,28,79.99\n" +
		"332.5,228,0,270,40.27\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	records, err := Load(path, Options{})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 332.5, records[1].Cement)
	assert.Equal(t, 1, records[1].Row)
}

func TestReadCSV_CustomColumnsAndHeaderNormalization(t *testing.T) {
	// GIVEN UCI-style headers with odd spacing and case
	input := " Cement (kg) , Water (kg),SP (kg),Age (day),Strength (MPa)\n" +
		"540,162,2.5,28,79.99\n"
	cols := Columns{
		Cement:           "cement (kg)",
		Water:            "water (kg)",
		Superplasticizer: "sp (kg)",
		Age:              "age (day)",
		Strength:         "strength (mpa)",
	}

	records, err := ReadCSV(strings.NewReader(input), cols)
	require.NoError(t, err)
	assert.Equal(t, []float64{540, 162, 2.5, 28, 79.99}, records[0].Values())
}

func TestReadCSV_SkipsBlankRows(t *testing.T) {
	input := "cement,water,superplasticizer,age,concrete_compressive_strength\n" +
		"1,2,3,4,5\n" +
		",,,,\n" +
		"6,7,8,9,10\n"

	records, err := ReadCSV(strings.NewReader(input), Columns{})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 1, records[1].Row)
	assert.Equal(t, 6.0, records[1].Cement)
}

func TestReadCSV_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{"empty input", "", "no header row"},
		{"non-numeric cell", "cement,water,superplasticizer,age,concrete_compressive_strength\n1,2,x,4,5\n", "row 2, column \"superplasticizer\""},
		{"short row", "cement,water,superplasticizer,age,concrete_compressive_strength\n1,2,3\n", "empty cell"},
		{"non-finite value", "cement,water,superplasticizer,age,concrete_compressive_strength\n1,2,3,NaN,5\n", "finite"},
		{"missing columns", "cement,water\n1,2\n", "missing column(s) superplasticizer, age, concrete_compressive_strength"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input), Columns{})
			assert.ErrorIs(t, err, ErrInputMalformed)
			assert.ErrorContains(t, err, tt.message)
		})
	}
}

func TestColumns_WithDefaults(t *testing.T) {
	cols := Columns{Strength: "mpa"}.WithDefaults()

	assert.Equal(t, []string{"cement", "water", "superplasticizer", "age", "mpa"}, cols.Names())
}

func TestReadXLSX_Stream(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	header := []interface{}{"Age", "Cement", "Water", "Superplasticizer", "Concrete_Compressive_Strength"}
	row := []interface{}{90, 380.0, 228.0, 0.0, 52.91}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &row))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	records, err := ReadXLSX(buf, "", Columns{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []float64{380, 228, 0, 90, 52.91}, records[0].Values())
}

func TestReadXLSX_NotASpreadsheet(t *testing.T) {
	_, err := ReadXLSX(strings.NewReader("cement,water"), "", Columns{})
	assert.ErrorIs(t, err, ErrInputMalformed)
}

func TestReadCSV_ByteOrderMark(t *testing.T) {
	// GIVEN a CSV exported with a UTF-8 byte-order mark
	input := "\uFEFFcement,water,superplasticizer,age,concrete_compressive_strength\n" +
		"540,162,2.5,28,79.99\n"

	records, err := ReadCSV(strings.NewReader(input), Columns{})

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 540.0, records[0].Cement)
}

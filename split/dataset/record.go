// Package dataset reads concrete-mixture measurements from spreadsheet or CSV files.
// Records are immutable once read; callers own the returned slices.
package dataset

import "errors"

var (
	// ErrInputNotFound is returned when the dataset file does not exist or cannot be opened.
	ErrInputNotFound = errors.New("dataset not found")
	// ErrInputMalformed is returned when the dataset lacks a required column, has an
	// unsupported format, or holds a cell that is not a finite number.
	ErrInputMalformed = errors.New("dataset malformed")
)

// Record is one row of the concrete-mixture dataset.
type Record struct {
	Row              int // zero-based data-row position in the input
	Cement           float64
	Water            float64
	Superplasticizer float64
	Age              float64
	Strength         float64 // concrete compressive strength
}

// Values returns the measured fields in output order:
// cement, water, superplasticizer, age, strength.
func (r Record) Values() []float64 {
	return []float64{r.Cement, r.Water, r.Superplasticizer, r.Age, r.Strength}
}

// Columns names the header cell for each record field.
type Columns struct {
	Cement           string `yaml:"cement"`
	Water            string `yaml:"water"`
	Superplasticizer string `yaml:"superplasticizer"`
	Age              string `yaml:"age"`
	Strength         string `yaml:"strength"`
}

// DefaultColumns returns the header names used by concrete_data.xlsx.
func DefaultColumns() Columns {
	return Columns{
		Cement:           "cement",
		Water:            "water",
		Superplasticizer: "superplasticizer",
		Age:              "age",
		Strength:         "concrete_compressive_strength",
	}
}

// WithDefaults fills empty names from DefaultColumns.
func (c Columns) WithDefaults() Columns {
	d := DefaultColumns()
	if c.Cement == "" {
		c.Cement = d.Cement
	}
	if c.Water == "" {
		c.Water = d.Water
	}
	if c.Superplasticizer == "" {
		c.Superplasticizer = d.Superplasticizer
	}
	if c.Age == "" {
		c.Age = d.Age
	}
	if c.Strength == "" {
		c.Strength = d.Strength
	}
	return c
}

// Names returns the header names in Record.Values order.
func (c Columns) Names() []string {
	return []string{c.Cement, c.Water, c.Superplasticizer, c.Age, c.Strength}
}

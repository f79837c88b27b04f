package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/inference-sim/concrete-split/split/dataset"
)

// FieldNames are the record fields in dataset.Record.Values order.
var FieldNames = []string{"cement", "water", "superplasticizer", "age", "strength"}

// ColumnStats aggregates one record field.
type ColumnStats struct {
	Name   string
	Mean   float64
	StdDev float64 // sample standard deviation; 0 for fewer than two records
	Min    float64
	Max    float64
}

// Summary aggregates a record sequence.
// Safe for nil or empty input (Count is 0 and Columns hold zero values).
type Summary struct {
	Count   int
	Columns []ColumnStats
}

// Summarize computes per-field statistics over records.
func Summarize(records []dataset.Record) Summary {
	summary := Summary{Count: len(records), Columns: make([]ColumnStats, len(FieldNames))}
	columns := make([][]float64, len(FieldNames))
	for _, r := range records {
		for i, v := range r.Values() {
			columns[i] = append(columns[i], v)
		}
	}
	for i, name := range FieldNames {
		cs := ColumnStats{Name: name}
		if values := columns[i]; len(values) > 0 {
			cs.Mean = stat.Mean(values, nil)
			cs.Min = floats.Min(values)
			cs.Max = floats.Max(values)
			if len(values) > 1 {
				cs.StdDev = stat.StdDev(values, nil)
			}
		}
		summary.Columns[i] = cs
	}
	return summary
}

// WriteSummary writes a titled per-column table for a named subset.
func WriteSummary(w io.Writer, name string, s Summary) error {
	if _, err := fmt.Fprintf(w, "%s (%d records)\n", name, s.Count); err != nil {
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header("column", "mean", "stddev", "min", "max")
	for _, c := range s.Columns {
		if err := table.Append([]string{c.Name, fixed3(c.Mean), fixed3(c.StdDev), fixed3(c.Min), fixed3(c.Max)}); err != nil {
			return err
		}
	}
	return table.Render()
}

func fixed3(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

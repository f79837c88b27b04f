// Package report writes split results in the two-block text format read by the
// strength-prediction trainer, and summarizes record columns.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/inference-sim/concrete-split/split/dataset"
)

// FormatRecord returns cement, water, superplasticizer, age and strength separated by
// single spaces, each in the shortest decimal form that round-trips.
func FormatRecord(r dataset.Record) string {
	values := r.Values()
	fields := make([]string, len(values))
	for i, v := range values {
		fields[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(fields, " ")
}

// WriteBlocks writes the test block followed by the training block. Each block is a
// line holding the record count followed by one FormatRecord line per record.
func WriteBlocks(w io.Writer, test, train []dataset.Record) error {
	bw := bufio.NewWriter(w)
	for _, block := range [][]dataset.Record{test, train} {
		if _, err := fmt.Fprintln(bw, len(block)); err != nil {
			return err
		}
		for _, r := range block {
			if _, err := fmt.Fprintln(bw, FormatRecord(r)); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

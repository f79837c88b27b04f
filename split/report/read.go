package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/inference-sim/concrete-split/split/dataset"
)

// ReadBlocks parses output written by WriteBlocks: the test block followed by the
// training block. Record.Row is the position within its block. Errors wrap
// dataset.ErrInputMalformed.
func ReadBlocks(r io.Reader) (test, train []dataset.Record, err error) {
	scanner := bufio.NewScanner(r)
	line := 0
	next := func() (string, bool) {
		for scanner.Scan() {
			line++
			if text := strings.TrimSpace(scanner.Text()); text != "" {
				return text, true
			}
		}
		return "", false
	}

	blocks := make([][]dataset.Record, 2)
	for b, name := range []string{"test", "training"} {
		header, ok := next()
		if !ok {
			if err := scanner.Err(); err != nil {
				return nil, nil, fmt.Errorf("%w: reading blocks: %v", dataset.ErrInputMalformed, err)
			}
			return nil, nil, fmt.Errorf("%w: missing %s block", dataset.ErrInputMalformed, name)
		}
		count, err := strconv.Atoi(header)
		if err != nil || count < 0 {
			return nil, nil, fmt.Errorf("%w: line %d: %s block count %q is not a non-negative integer", dataset.ErrInputMalformed, line, name, header)
		}
		records := make([]dataset.Record, 0, count)
		for i := 0; i < count; i++ {
			text, ok := next()
			if !ok {
				return nil, nil, fmt.Errorf("%w: %s block declares %d rows, found %d", dataset.ErrInputMalformed, name, count, i)
			}
			rec, err := parseRecordLine(text)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: line %d: %v", dataset.ErrInputMalformed, line, err)
			}
			rec.Row = i
			records = append(records, rec)
		}
		blocks[b] = records
	}
	if extra, ok := next(); ok {
		return nil, nil, fmt.Errorf("%w: line %d: unexpected content after training block: %q", dataset.ErrInputMalformed, line, extra)
	}
	return blocks[0], blocks[1], nil
}

func parseRecordLine(text string) (dataset.Record, error) {
	fields := strings.Fields(text)
	if len(fields) != len(FieldNames) {
		return dataset.Record{}, fmt.Errorf("expected %d values, got %d", len(FieldNames), len(fields))
	}
	values := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return dataset.Record{}, fmt.Errorf("%s: not a number: %q", FieldNames[i], f)
		}
		values[i] = v
	}
	return dataset.Record{
		Cement:           values[0],
		Water:            values[1],
		Superplasticizer: values[2],
		Age:              values[3],
		Strength:         values[4],
	}, nil
}

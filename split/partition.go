package split

import (
	"math/rand"

	"github.com/samber/lo"
)

// Partition splits records into the test sequence (positions in set) and the training
// sequence (all other positions). Positions are zero-based and counted over every record.
// Order is preserved within each output; every record lands in exactly one of them.
func Partition[T any](records []T, set IndexSet) (test, train []T) {
	return lo.FilterReject(records, func(_ T, pos int) bool {
		return set.Contains(pos)
	})
}

// Result holds a sampled index set together with the partition it produced.
type Result[T any] struct {
	Indices IndexSet
	Test    []T
	Train   []T
}

// Unmatched returns the number of sampled positions that selected no record.
func (r *Result[T]) Unmatched() int {
	return r.Indices.Len() - len(r.Test)
}

// Split samples sampleSize positions out of datasetSize and partitions records by them.
// A datasetSize of zero uses len(records).
func Split[T any](rng *rand.Rand, records []T, datasetSize, sampleSize int, opts SampleOptions) (*Result[T], error) {
	if datasetSize == 0 {
		datasetSize = len(records)
	}
	indices, err := SampleIndices(rng, datasetSize, sampleSize, opts)
	if err != nil {
		return nil, err
	}
	test, train := Partition(records, indices)
	return &Result[T]{Indices: indices, Test: test, Train: train}, nil
}

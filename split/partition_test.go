package split

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartition_FiveRecords(t *testing.T) {
	// GIVEN records at positions 0..4 and the index set {1, 3}
	records := []string{"r0", "r1", "r2", "r3", "r4"}

	// WHEN partitioned
	test, train := Partition(records, NewIndexSet(1, 3))

	// THEN test holds r1, r3 and train the rest, in input order
	assert.Equal(t, []string{"r1", "r3"}, test)
	assert.Equal(t, []string{"r0", "r2", "r4"}, train)
}

func TestPartition_EmptySet_AllTraining(t *testing.T) {
	records := []int{10, 20, 30}

	test, train := Partition(records, NewIndexSet())

	assert.Empty(t, test)
	assert.Equal(t, records, train)
}

func TestPartition_FullSet_AllTest(t *testing.T) {
	records := []int{10, 20, 30}

	test, train := Partition(records, NewIndexSet(0, 1, 2))

	assert.Equal(t, records, test)
	assert.Empty(t, train)
}

func TestPartition_OutOfRangeIndex_SelectsNothing(t *testing.T) {
	// GIVEN an index equal to the record count (the inclusive-range edge)
	records := []int{10, 20, 30}

	test, train := Partition(records, NewIndexSet(0, 3))

	assert.Equal(t, []int{10}, test)
	assert.Equal(t, []int{20, 30}, train)
}

func TestPartition_Idempotent(t *testing.T) {
	records := make([]int, 100)
	for i := range records {
		records[i] = i * 3
	}
	set, err := SampleIndices(newTestRNG(11), len(records), 30, SampleOptions{})
	require.NoError(t, err)

	test1, train1 := Partition(records, set)
	test2, train2 := Partition(records, set)

	assert.Equal(t, test1, test2)
	assert.Equal(t, train1, train2)
}

func TestSplit_ReferenceConstants_ConservesRecords(t *testing.T) {
	records := make([]int, 699)
	for i := range records {
		records[i] = i
	}

	for seed := int64(0); seed < 10; seed++ {
		for _, mode := range []RangeMode{RangeExact, RangeInclusive} {
			// WHEN 175 of 699 records are split off
			result, err := Split(newTestRNG(seed), records, 699, 175, SampleOptions{Range: mode})
			require.NoError(t, err)

			// THEN the index set has 175 entries and every record lands exactly once
			assert.Equal(t, 175, result.Indices.Len())
			assert.Equal(t, 699, len(result.Test)+len(result.Train))
			assert.Equal(t, 175-result.Unmatched(), len(result.Test))
			assertOrderedUnion(t, records, result.Test, result.Train)
			if mode == RangeExact {
				assert.Equal(t, 0, result.Unmatched())
			}
		}
	}
}

func TestSplit_ZeroDatasetSize_UsesRecordCount(t *testing.T) {
	records := []int{1, 2, 3, 4}

	result, err := Split(newTestRNG(2), records, 0, 4, SampleOptions{})
	require.NoError(t, err)

	assert.Equal(t, records, result.Test)
	assert.Empty(t, result.Train)
}

func TestSplit_InvalidSampleSize(t *testing.T) {
	_, err := Split(newTestRNG(2), []int{1, 2}, 0, 3, SampleOptions{})
	assert.ErrorIs(t, err, ErrInvalidSampleSize)

	_, err = Split(newTestRNG(2), []int{1, 2}, -5, 1, SampleOptions{})
	assert.ErrorIs(t, err, ErrInvalidSampleSize)
}

// assertOrderedUnion checks that test and train are disjoint, order-preserving subsequences
// of records whose union is records. Records must be distinct.
func assertOrderedUnion(t *testing.T, records, test, train []int) {
	t.Helper()
	i, j := 0, 0
	for _, r := range records {
		switch {
		case i < len(test) && test[i] == r:
			i++
		case j < len(train) && train[j] == r:
			j++
		default:
			t.Fatalf("record %d missing or out of order", r)
		}
	}
	assert.Equal(t, len(test), i)
	assert.Equal(t, len(train), j)
}

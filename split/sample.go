package split

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

// RangeMode selects the interval sampling draws candidate positions from.
type RangeMode string

const (
	// RangeExact draws from [0, N-1], the positions that exist in an N-row dataset.
	RangeExact RangeMode = "exact"
	// RangeInclusive draws from [0, N]. Reproduces selections made with the legacy
	// categorizer, where a draw of N selects no record.
	RangeInclusive RangeMode = "inclusive"
)

// Strategy selects how SampleIndices picks unique positions.
type Strategy string

const (
	// StrategyAuto uses rejection sampling for sparse samples and shuffling otherwise.
	StrategyAuto Strategy = "auto"
	// StrategyRejection draws uniformly and redraws duplicates. The number of draws is
	// bounded; once exhausted the remaining positions are picked by shuffling.
	StrategyRejection Strategy = "rejection"
	// StrategyShuffle runs a partial Fisher-Yates shuffle over the range and keeps the prefix.
	StrategyShuffle Strategy = "shuffle"
)

// Valid value registries.
var (
	validRangeModes = map[RangeMode]bool{
		RangeExact:     true,
		RangeInclusive: true,
		"":             true, // empty defaults to exact
	}
	validStrategies = map[Strategy]bool{
		StrategyAuto:      true,
		StrategyRejection: true,
		StrategyShuffle:   true,
		"":                true, // empty defaults to auto
	}
)

// IsValidRangeMode returns true if the given string is a recognized range mode.
func IsValidRangeMode(mode string) bool {
	return validRangeModes[RangeMode(mode)]
}

// IsValidStrategy returns true if the given string is a recognized sampling strategy.
func IsValidStrategy(strategy string) bool {
	return validStrategies[Strategy(strategy)]
}

// Span returns the number of candidate positions for a dataset of size n.
// The inclusive span saturates at math.MaxInt.
func (m RangeMode) Span(n int) int {
	if m == RangeInclusive && n < math.MaxInt {
		return n + 1
	}
	return n
}

// SampleOptions configures SampleIndices. The zero value samples from the exact range
// with the auto strategy.
type SampleOptions struct {
	Range    RangeMode
	Strategy Strategy
}

// IndexSet is the set of row positions selected for the test subset.
// Read-only once returned by SampleIndices. The zero value is an empty set.
type IndexSet struct {
	set mapset.Set[int]
}

// NewIndexSet builds an IndexSet from explicit positions.
func NewIndexSet(positions ...int) IndexSet {
	return IndexSet{set: mapset.NewThreadUnsafeSet(positions...)}
}

// Contains reports whether pos was selected.
func (s IndexSet) Contains(pos int) bool {
	return s.set != nil && s.set.Contains(pos)
}

// Len returns the number of selected positions.
func (s IndexSet) Len() int {
	if s.set == nil {
		return 0
	}
	return s.set.Cardinality()
}

// Sorted returns the selected positions in ascending order.
func (s IndexSet) Sorted() []int {
	if s.set == nil {
		return []int{}
	}
	positions := s.set.ToSlice()
	slices.Sort(positions)
	return positions
}

// SampleIndices draws sampleSize unique positions for a dataset of datasetSize rows.
// Returns an error wrapping ErrInvalidSampleSize if sampleSize is negative, exceeds
// datasetSize, or exceeds the number of candidates in the configured range.
// Always terminates.
func SampleIndices(rng *rand.Rand, datasetSize, sampleSize int, opts SampleOptions) (IndexSet, error) {
	if rng == nil {
		return IndexSet{}, errors.New("sampling requires a random source")
	}
	if !validRangeModes[opts.Range] {
		return IndexSet{}, fmt.Errorf("unknown range mode %q; valid: exact, inclusive", opts.Range)
	}
	if !validStrategies[opts.Strategy] {
		return IndexSet{}, fmt.Errorf("unknown sampling strategy %q; valid: auto, rejection, shuffle", opts.Strategy)
	}
	if datasetSize < 0 {
		return IndexSet{}, fmt.Errorf("%w: dataset size must be non-negative, got %d", ErrInvalidSampleSize, datasetSize)
	}
	if sampleSize < 0 {
		return IndexSet{}, fmt.Errorf("%w: sample size must be non-negative, got %d", ErrInvalidSampleSize, sampleSize)
	}
	if sampleSize > datasetSize {
		return IndexSet{}, fmt.Errorf("%w: sample size %d exceeds dataset size %d", ErrInvalidSampleSize, sampleSize, datasetSize)
	}
	span := opts.Range.Span(datasetSize)
	if sampleSize > span {
		return IndexSet{}, fmt.Errorf("%w: range of %d positions cannot supply %d unique values", ErrInvalidSampleSize, span, sampleSize)
	}

	set := mapset.NewThreadUnsafeSetWithSize[int](sampleSize)
	switch opts.Strategy {
	case StrategyShuffle:
		fillByShuffle(rng, span, sampleSize, set)
	case StrategyRejection:
		fillByRejection(rng, span, sampleSize, set)
	default:
		if sampleSize <= span/2 {
			fillByRejection(rng, span, sampleSize, set)
		} else {
			fillByShuffle(rng, span, sampleSize, set)
		}
	}
	return IndexSet{set: set}, nil
}

// maxRejectionDraws bounds rejection sampling. When k is at most half the span the expected
// number of draws stays below 1.4k, so hitting the bound means the range is nearly exhausted.
func maxRejectionDraws(k int) int {
	return 8*k + 32
}

func fillByRejection(rng *rand.Rand, span, k int, set mapset.Set[int]) {
	budget := maxRejectionDraws(k)
	for draws := 0; set.Cardinality() < k; draws++ {
		if draws == budget {
			fillByShuffle(rng, span, k, set)
			return
		}
		set.Add(rng.Intn(span))
	}
}

// fillByShuffle adds positions from [0, span) not already in set until it holds k values.
func fillByShuffle(rng *rand.Rand, span, k int, set mapset.Set[int]) {
	need := k - set.Cardinality()
	if need <= 0 {
		return
	}
	remaining := make([]int, 0, span-set.Cardinality())
	for pos := 0; pos < span; pos++ {
		if !set.Contains(pos) {
			remaining = append(remaining, pos)
		}
	}
	for i := 0; i < need; i++ {
		j := i + rng.Intn(len(remaining)-i)
		remaining[i], remaining[j] = remaining[j], remaining[i]
		set.Add(remaining[i])
	}
}

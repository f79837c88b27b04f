package split

import "errors"

// ErrInvalidSampleSize is returned when the requested sample cannot be drawn from the
// dataset: a negative size, a sample larger than the dataset, or a sampling range with
// fewer than K distinct values.
var ErrInvalidSampleSize = errors.New("invalid sample size")

// Package split draws a random test subset of row positions and partitions a dataset
// into test and training sequences.
//
// # Reading Guide
//
//   - rng.go: seeded random streams, one per stage of a run
//   - sample.go: SampleIndices and the sampling strategies
//   - partition.go: Partition and the Split convenience wrapper
//
// Sub-packages:
//   - split/dataset/: Record type and the .xlsx / .csv readers
//   - split/report/: two-block output reader/writer and per-column summaries
//   - split/network/: strength-prediction network trained on a split
//
// Nothing in this package reads global random state. Callers pass a *rand.Rand,
// usually obtained from Streams.Get(StreamSample).
package split

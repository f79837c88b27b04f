package split

import (
	"hash/fnv"
	"math/rand"
	"time"
)

// Stream names one consumer of randomness within a run. Each stream gets its own
// generator so drawing more values in one stage never shifts another stage.
type Stream string

const (
	// StreamSample selects the test rows. It is seeded with the run seed itself, so a
	// logged seed reproduces the split with any tool that seeds math/rand the same way.
	StreamSample Stream = "sample"
	// StreamWeights initializes network weights.
	StreamWeights Stream = "weights"
	// StreamEpochOrder shuffles the training rows before each epoch.
	StreamEpochOrder Stream = "epoch_order"
)

// ClockSeed returns a seed for runs where the user did not pick one.
func ClockSeed() int64 {
	return time.Now().UnixNano()
}

// Streams hands out one seeded generator per Stream for a single run.
// Not safe for concurrent use.
type Streams struct {
	seed       int64
	generators map[Stream]*rand.Rand
}

// NewStreams creates the generators for a run seeded with seed.
func NewStreams(seed int64) *Streams {
	return &Streams{seed: seed, generators: make(map[Stream]*rand.Rand)}
}

// Seed returns the run seed.
func (s *Streams) Seed() int64 {
	return s.seed
}

// Get returns the generator for stream, creating it on first use.
// Repeated calls return the same generator.
func (s *Streams) Get(stream Stream) *rand.Rand {
	if rng, ok := s.generators[stream]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(streamSeed(s.seed, stream)))
	s.generators[stream] = rng
	return rng
}

// streamSeed mixes the stream name into the run seed. StreamSample keeps the raw seed.
func streamSeed(seed int64, stream Stream) int64 {
	if stream == StreamSample {
		return seed
	}
	h := fnv.New64a()
	h.Write([]byte(stream))
	return seed ^ int64(h.Sum64())
}

package sort_experiment

import (
	"math/rand"
	"time"

	"nickandperla.net/sort_experiment/sorts"
)

// Generator produces benchmark input. It owns its random source so that a run
// is reproducible from its seed; it is not safe for concurrent use.
type Generator struct {
	Seed int64
	rand *rand.Rand
}

// NewGenerator seeds a Generator. If seed is 0, the current time is used
// (non-deterministic) and recorded in Generator.Seed.
func NewGenerator(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		Seed: seed,
		rand: rand.New(rand.NewSource(seed)),
	}
}

// NewGeneratorFromSource wraps src. seed must be the value src was seeded
// with; it is what a recorded run stores for replay.
func NewGeneratorFromSource(src rand.Source, seed int64) *Generator {
	return &Generator{Seed: seed, rand: rand.New(src)}
}

// Generate returns a fresh Sequence of size elements, each drawn uniformly
// from [minValue, minValue+maxValue]. The upper bound is an offset from
// minValue, not an absolute value. size and maxValue must not be negative.
func (g *Generator) Generate(size int, minValue, maxValue int64) sorts.Sequence {
	seq := make(sorts.Sequence, size)
	for i := range seq {
		seq[i] = minValue + g.rand.Int63n(1+maxValue)
	}
	return seq
}

package matching

import (
	"math/rand/v2"
	"sync"
)

const JitterSpread = 3

// Jitter perturbs a catalog percentage for presentation variety. It is
// applied by the ranker, never inside CalculateCatalog.
type Jitter interface {
	Apply(score int) int
}

type NoJitter struct{}

func (NoJitter) Apply(score int) int {
	return clampInt(score, 0, 100)
}

// RandomJitter adds a uniform integer in [-JitterSpread, +JitterSpread] and
// clamps to [0, 100]. It is safe for concurrent use.
type RandomJitter struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomJitter returns a reproducible source for a non-zero seed and a
// randomly seeded one for seed 0.
func NewRandomJitter(seed uint64) *RandomJitter {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &RandomJitter{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (j *RandomJitter) Apply(score int) int {
	j.mu.Lock()
	delta := j.rng.IntN(2*JitterSpread+1) - JitterSpread
	j.mu.Unlock()
	return clampInt(score+delta, 0, 100)
}

package fallback

import (
	"math/rand/v2"
	"sync"
)

// Rand picks an index in [0, n). Implementations must be safe for concurrent use.
type Rand interface {
	IntN(n int) int
}

type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewLockedRand returns a seeded PCG source guarded by a mutex.
func NewLockedRand(seed uint64) Rand {
	return &lockedRand{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (r *lockedRand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(n)
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

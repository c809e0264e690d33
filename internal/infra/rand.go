package infra

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Rand is the random source injected into prompt building and image
// generation so tests can pin their output.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// LockedRand is a Rand safe for concurrent use by request handlers.
type LockedRand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRand returns a LockedRand seeded with seed, or with the current time when
// seed is zero.
func NewRand(seed uint64) *LockedRand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &LockedRand{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (r *LockedRand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.IntN(n)
}

func (r *LockedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Float64()
}

package utils

import (
	"math/rand"
	"sync"
)

// lockedSource serializes access to a rand.Source64 so one *rand.Rand can be
// shared by engines stepping different owners on different workers
type lockedSource struct {
	mu  sync.Mutex
	src rand.Source64
}

func (s *lockedSource) Int63() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Int63()
}

func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Uint64()
}

func (s *lockedSource) Seed(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.src.Seed(seed)
}

// NewLockedRand returns a seeded *rand.Rand that is safe for concurrent use.
// Read is the one method that still needs external locking.
func NewLockedRand(seed int64) *rand.Rand {
	return rand.New(&lockedSource{src: rand.NewSource(seed).(rand.Source64)})
}

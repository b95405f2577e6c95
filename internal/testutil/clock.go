package testutil

import (
	"sync"

	"github.com/roach88/ducks/internal/store"
)

// DeterministicClock is a store.Clock for tests.
//
// Unlike store.NewClock, DeterministicClock can be reset for reuse, so the
// same scenario run twice yields identical seq values and dispatch ids.
//
// Thread-safety: all methods are safe for concurrent use via an internal mutex.
type DeterministicClock struct {
	mu  sync.Mutex
	seq int64
}

var _ store.Clock = (*DeterministicClock)(nil)

// NewDeterministicClock creates a clock whose first Next returns 1.
func NewDeterministicClock() *DeterministicClock {
	return &DeterministicClock{}
}

// Next increments and returns the sequence number.
//
// Monotonic: always returns seq+1 until Reset.
func (c *DeterministicClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// Current returns the last value handed out.
func (c *DeterministicClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Reset rewinds the clock to 0.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = 0
}

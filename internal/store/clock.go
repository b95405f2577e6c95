package store

import "sync/atomic"

// Clock hands out dispatch sequence numbers.
type Clock interface {
	Next() int64
	Current() int64
}

// LogicalClock is a monotonic counter. The first Next returns 1.
// Safe for concurrent use.
type LogicalClock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0.
func NewClock() *LogicalClock {
	return &LogicalClock{}
}

// NewClockAt creates a clock that continues after start.
// Used when a store resumes from a recorded session.
func NewClockAt(start int64) *LogicalClock {
	c := &LogicalClock{}
	c.seq.Store(start)
	return c
}

// Next increments the clock and returns the new value.
func (c *LogicalClock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last value handed out.
func (c *LogicalClock) Current() int64 {
	return c.seq.Load()
}

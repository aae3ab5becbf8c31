package testutil

import "sync"

// StepClock is a monotonic logical counter for numbering trace events.
// Wall-clock time never appears in traces.
//
// Safe for concurrent use.
type StepClock struct {
	mu  sync.Mutex
	seq int64
}

// NewStepClock returns a clock whose first Next() is 1.
func NewStepClock() *StepClock {
	return &StepClock{}
}

// Next increments and returns the sequence number.
func (c *StepClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

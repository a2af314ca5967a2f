package testutil

import "sync"

// DeterministicClock numbers swaps from 1 for every engine it is given to,
// so traces and golden files see the same seq values on every run. It
// satisfies engine.Sequencer.
type DeterministicClock struct {
	mu  sync.Mutex
	seq int64
}

// NewDeterministicClock creates a clock at 0.
func NewDeterministicClock() *DeterministicClock {
	return &DeterministicClock{}
}

func (c *DeterministicClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

func (c *DeterministicClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

package engine

import "sync/atomic"

// Sequencer numbers swap attempts. Sequence numbers keep increasing across
// restarts, so a ledger can order swaps from every session of one engine.
type Sequencer interface {
	Next() int64
	Current() int64
}

// Clock is the default Sequencer: an atomic counter starting at 0.
type Clock struct {
	seq atomic.Int64
}

// NewClock returns a clock whose first Next is 1.
func NewClock() *Clock {
	return &Clock{}
}

// Next advances the clock and returns the new value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last value handed out.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}

package testutil

import (
	"fmt"
	"sync"
)

// ScriptedSource replays a fixed sequence of draws for deterministic boards.
//
// Each call to IntN(n) returns the next scripted value modulo n. Once the
// script is exhausted, draws go to the fallback; without a fallback the
// source panics, which catches scenarios that refill more than they declare.
//
// Thread-safety: ScriptedSource is safe for concurrent use via internal mutex.
type ScriptedSource struct {
	mu       sync.Mutex
	values   []int
	idx      int
	fallback interface{ IntN(int) int }
}

// NewScriptedSource creates a source that returns values in order.
//
// Example:
//
//	src := NewScriptedSource(3, 1, 2)
//	src.IntN(5) // 3
//	src.IntN(5) // 1
//	src.IntN(5) // 2
//	src.IntN(5) // panic: script exhausted
func NewScriptedSource(values ...int) *ScriptedSource {
	return &ScriptedSource{values: values}
}

// WithFallback sets the source used once the script runs out.
func (s *ScriptedSource) WithFallback(fallback interface{ IntN(int) int }) *ScriptedSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fallback = fallback
	return s
}

// IntN returns the next scripted value reduced modulo n.
func (s *ScriptedSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.idx >= len(s.values) {
		if s.fallback != nil {
			return s.fallback.IntN(n)
		}
		panic(fmt.Sprintf("ScriptedSource: script exhausted after %d draws", s.idx))
	}
	v := s.values[s.idx] % n
	if v < 0 {
		v += n
	}
	s.idx++
	return v
}

// Used returns how many scripted values have been consumed.
func (s *ScriptedSource) Used() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idx
}

// Remaining returns how many scripted values are left.
func (s *ScriptedSource) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values) - s.idx
}

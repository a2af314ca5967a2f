package testutil

import (
	"fmt"
	"sync"
)

// FixedSessionIDs hands out predictable session IDs: "<prefix>-1",
// "<prefix>-2", and so on. It satisfies engine.SessionIDGenerator.
//
// An empty prefix defaults to "test-session".
type FixedSessionIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewFixedSessionIDs creates a generator with the given prefix.
func NewFixedSessionIDs(prefix string) *FixedSessionIDs {
	if prefix == "" {
		prefix = "test-session"
	}
	return &FixedSessionIDs{prefix: prefix}
}

// Generate returns the next ID in the sequence.
func (g *FixedSessionIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}

package engine

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/swapboard/internal/board"
	"github.com/roach88/swapboard/internal/testutil"
)

func TestClock_CountsFromOne(t *testing.T) {
	c := NewClock()
	assert.Equal(t, int64(0), c.Current())
	assert.Equal(t, int64(1), c.Next())
	assert.Equal(t, int64(2), c.Next())
	assert.Equal(t, int64(2), c.Current())
}

func TestClock_ConcurrentNextIsUnique(t *testing.T) {
	c := NewClock()
	const goroutines, calls = 50, 100

	var wg sync.WaitGroup
	seqs := make(chan int64, goroutines*calls)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < calls; j++ {
				seqs <- c.Next()
			}
		}()
	}
	wg.Wait()
	close(seqs)

	seen := make(map[int64]bool)
	for seq := range seqs {
		require.False(t, seen[seq], "seq %d handed out twice", seq)
		seen[seq] = true
	}
	assert.Len(t, seen, goroutines*calls)
	assert.Equal(t, int64(goroutines*calls), c.Current())
}

func TestSwapSeq_SpansSessions(t *testing.T) {
	ctx := context.Background()
	rec := &fakeRecorder{}
	src := testutil.NewScriptedSource(iY, iG, iB).WithFallback(board.SeededSource(3))
	g := board.MustParseGrid(smallRules().BoardPalette(), settledSmall...)
	e, err := New(smallRules(),
		WithInitialGrid(g),
		WithSource(src),
		WithSessionIDs(testutil.NewFixedSessionIDs("")),
		WithRecorder(rec),
		WithLogger(nil),
	)
	require.NoError(t, err)

	// Ignored input takes no sequence number.
	e.TrySwap(ctx, board.Pos{Row: 0, Col: 0}, board.Pos{Row: 2, Col: 2})
	reverted := e.TrySwap(ctx, board.Pos{Row: 0, Col: 0}, board.Pos{Row: 1, Col: 0})
	accepted := e.TrySwap(ctx, board.Pos{Row: 0, Col: 2}, board.Pos{Row: 1, Col: 2})
	assert.Equal(t, int64(1), reverted.Seq)
	assert.Equal(t, int64(2), accepted.Seq)

	require.True(t, e.Restart(ctx))
	sum := e.End(ctx)

	require.Len(t, rec.sessions, 2)
	assert.Equal(t, int64(0), rec.sessions[0].StartedSeq)
	assert.Equal(t, int64(2), rec.sessions[0].EndedSeq)
	assert.Equal(t, int64(2), sum.StartedSeq)
	assert.Equal(t, int64(2), sum.EndedSeq)
}

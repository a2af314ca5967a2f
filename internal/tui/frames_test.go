package tui

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/swapboard/internal/engine"
)

func TestFrameQueue_FIFO(t *testing.T) {
	q := newFrameQueue()

	for _, k := range []engine.EventKind{engine.EventSwapped, engine.EventCleared, engine.EventSettled} {
		require.True(t, q.Enqueue(frame{kind: k}))
	}

	for _, want := range []engine.EventKind{engine.EventSwapped, engine.EventCleared, engine.EventSettled} {
		f, ok := q.TryDequeue()
		require.True(t, ok)
		assert.Equal(t, want, f.kind)
	}

	_, ok := q.TryDequeue()
	assert.False(t, ok, "dequeue from empty queue should return false")
}

func TestFrameQueue_Len(t *testing.T) {
	q := newFrameQueue()
	assert.Equal(t, 0, q.Len())

	q.Enqueue(frame{kind: engine.EventSwapped})
	q.Enqueue(frame{kind: engine.EventReverted})
	assert.Equal(t, 2, q.Len())

	q.TryDequeue()
	assert.Equal(t, 1, q.Len())
}

func TestFrameQueue_WaitSignals(t *testing.T) {
	q := newFrameQueue()
	q.Enqueue(frame{kind: engine.EventSwapped})

	select {
	case <-q.Wait():
	case <-time.After(100 * time.Millisecond):
		t.Fatal("enqueue did not signal")
	}
}

func TestFrameQueue_Close(t *testing.T) {
	q := newFrameQueue()
	q.Close()
	q.Close()

	assert.False(t, q.Enqueue(frame{kind: engine.EventSwapped}), "enqueue after close should return false")

	select {
	case <-q.Wait():
	case <-time.After(100 * time.Millisecond):
		t.Fatal("close did not wake waiters")
	}
}

func TestFrameQueue_ThreadSafe(t *testing.T) {
	q := newFrameQueue()

	const producers = 8
	const perProducer = 100

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Enqueue(frame{kind: engine.EventCleared})
			}
		}()
	}
	wg.Wait()

	n := 0
	for {
		if _, ok := q.TryDequeue(); !ok {
			break
		}
		n++
	}
	assert.Equal(t, producers*perProducer, n)
}

func TestFrame_Animated(t *testing.T) {
	assert.True(t, frame{kind: engine.EventCleared}.animated())
	assert.True(t, frame{kind: engine.EventReverted}.animated())
	assert.False(t, frame{kind: engine.EventTick}.animated())
	assert.False(t, frame{kind: engine.EventSelected}.animated())
}

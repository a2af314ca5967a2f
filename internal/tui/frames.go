package tui

import (
	"sync"

	"github.com/roach88/swapboard/internal/board"
	"github.com/roach88/swapboard/internal/engine"
)

// frame is one engine event waiting to be shown.
type frame struct {
	kind    engine.EventKind
	grid    board.Grid
	session engine.Session
}

// animated reports whether the frame is a board phase that is held on
// screen for a frame delay.
func (f frame) animated() bool {
	switch f.kind {
	case engine.EventSwapped, engine.EventReverted, engine.EventCleared,
		engine.EventCollapsed, engine.EventRefilled, engine.EventSettled:
		return true
	default:
		return false
	}
}

// frameQueue is a thread-safe FIFO of frames.
//
// The engine delivers events on whichever goroutine drove it, so frames
// may be enqueued from outside the draw loop, which consumes them at its
// own pace.
type frameQueue struct {
	mu     sync.Mutex
	frames []frame
	closed bool
	signal chan struct{} // buffered, size 1
}

func newFrameQueue() *frameQueue {
	return &frameQueue{
		frames: make([]frame, 0, 16),
		signal: make(chan struct{}, 1),
	}
}

// Enqueue adds a frame to the back of the queue.
// Returns false if the queue is closed.
func (q *frameQueue) Enqueue(f frame) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.frames = append(q.frames, f)

	// Non-blocking; the buffer of 1 coalesces signals.
	select {
	case q.signal <- struct{}{}:
	default:
	}

	return true
}

// TryDequeue removes the front frame without blocking.
func (q *frameQueue) TryDequeue() (frame, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.frames) == 0 {
		return frame{}, false
	}

	f := q.frames[0]
	q.frames[0] = frame{}

	if len(q.frames) == 1 {
		q.frames = q.frames[:0]
	} else {
		q.frames = q.frames[1:]
	}

	return f, true
}

// Wait returns a channel that signals when frames may be available.
func (q *frameQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the current queue length.
func (q *frameQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.frames)
}

// Close stops the queue accepting frames and wakes waiters.
func (q *frameQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.closed = true
	close(q.signal)
}

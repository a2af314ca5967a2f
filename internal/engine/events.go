package engine

import (
	"context"

	"github.com/roach88/swapboard/internal/board"
)

// EventKind names a state change a presenter may want to show.
type EventKind string

const (
	EventSelected   EventKind = "selected"
	EventDeselected EventKind = "deselected"
	EventSwapped    EventKind = "swapped"
	EventReverted   EventKind = "reverted"
	EventCleared    EventKind = "cleared"
	EventCollapsed  EventKind = "collapsed"
	EventRefilled   EventKind = "refilled"
	EventSettled    EventKind = "settled"
	EventTick       EventKind = "tick"
	EventEnded      EventKind = "ended"
	EventRestarted  EventKind = "restarted"
)

// Event is one observable step. Grid is a snapshot of the board at that
// step; Pass is set for cleared, collapsed and refilled events.
type Event struct {
	Kind    EventKind
	Seq     int64
	A, B    board.Pos
	Pass    *board.Pass
	Grid    board.Grid
	Session Session
}

// Observer receives events after the engine has released its state lock
// but before the busy gate opens.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// Observe calls f(ev).
func (f ObserverFunc) Observe(ev Event) { f(ev) }

// Recorder persists settled swaps and finished sessions. Failures are
// logged and play continues.
type Recorder interface {
	RecordSwap(ctx context.Context, out Outcome) error
	RecordSession(ctx context.Context, s Summary) error
}

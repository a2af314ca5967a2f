// Package engine runs a match-3 game session on top of package board.
//
// The engine owns the grid, the score and countdown, and the player's
// pending selection. Presentation layers drive it with Select (or TrySwap)
// and Tick, and watch it through Observers.
//
// BUSY GATE:
// One swap may be in flight at a time. TrySwap takes the gate with a
// compare-and-swap and releases it exactly once when the swap has settled,
// after observers have been notified. Any Select, TrySwap or Restart that
// arrives while the gate is held, including one issued from inside an
// Observer, is ignored.
//
// LOCKING:
// A mutex guards the grid and session so that readers on other goroutines
// (a terminal event loop, a countdown ticker) see consistent snapshots.
// Observers and the Recorder are always called with the mutex released, so
// they may read the engine freely.
//
// OUTCOMES:
// Bad input is not an error. Every call returns a value describing what
// happened: ignored (with a Reason), reverted, or accepted.
package engine

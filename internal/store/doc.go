// Package store provides a SQLite-backed ledger of finished sessions and
// the swaps played in them.
//
// The ledger is write-mostly: the engine records through the
// engine.Recorder interface and the CLI reads it back for history
// listings. Board contents are never persisted and nothing in the ledger
// is ever loaded back into an engine.
//
// # Ordering
//
//   - Swaps are ordered by seq (the engine's logical clock), never by
//     wall time: ORDER BY seq ASC
//   - Sessions are listed most recently recorded first
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store

// Package board implements the match-3 tile grid and its rules engine.
//
// Everything in this package is synchronous and free of shared state. A
// Grid is a plain value; callers that need to publish it across goroutines
// hand out copies via Clone.
//
// # Resolution Loop
//
// After an accepted swap the grid is driven to a fixed point by Resolve:
//
//	Scanning → Clearing → Collapsing → Refilling → Scanning … → Idle
//
// Scanning flags every window of three equal non-empty cells along rows and
// columns. Overlapping windows and row/column intersections flag the same
// coordinate more than once; under ScoreWindows every entry is worth points.
//
// The loop has no iteration cap. It stops only when a scan comes back clean.
package board

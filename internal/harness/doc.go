// Package harness runs scripted games against the real engine and checks
// their outcomes.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: row_match
//	description: "A horizontal triple clears and refills"
//	rules:                # optional overrides, validated by the rules schema
//	  scoring: unique
//	grid:                 # starting board, one string per row
//	  - RRG
//	  - GBR
//	  - BYG
//	refill: [Y, G, B]     # colours drawn for refills, in order
//	seed: 7               # optional, drawn from once refill runs out
//	steps:
//	  - swap: {a: {row: 0, col: 2}, b: {row: 1, col: 2}}
//	    expect:
//	      status: accepted
//	      score_delta: 30
//	      grid: [YGB, GBG, BYG]
//	  - select: {row: 0, col: 0}
//	    expect: {action: selected}
//	  - tick: 60
//	assertions:
//	  - type: final_score
//	    score: 30
//	  - type: event_order
//	    events: [swapped, cleared, collapsed, refilled, settled]
//
// Board size defaults to the size of grid. Without a seed, a scenario
// that draws more colours than refill lists fails with an error.
//
// # Assertion Types
//
//   - final_score: session score after the last step
//   - final_grid: board after the last step
//   - stable: the final board is full and holds no match
//   - event_order: event kinds appear in this relative order
//   - event_count: an event kind appears exactly N times
//   - ledger: number of swaps and sessions written to the ledger
//
// # Deterministic Testing
//
// Every run uses a scripted colour source, testutil.DeterministicClock,
// testutil.FixedSessionIDs and a fresh in-memory ledger, so traces are
// identical across runs and can be compared with golden files.
package harness

package engine

import "github.com/google/uuid"

// SessionIDGenerator names game sessions.
// Implemented by UUIDv7Generator (production) and testutil.FixedSessionIDs (tests).
type SessionIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 session IDs, so ledger
// listings sort by start time.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Session is the mutable state of one timed game.
type Session struct {
	ID        string `json:"id"`
	Score     int    `json:"score"`
	Remaining int    `json:"remaining"` // seconds
	Running   bool   `json:"running"`
}

// Stats counts what happened during a session.
type Stats struct {
	Accepted       int `json:"accepted"`
	Reverted       int `json:"reverted"`
	Ignored        int `json:"ignored"`
	Passes         int `json:"passes"`
	LongestCascade int `json:"longest_cascade"`
	Cleared        int `json:"cleared"`
}

// Summary is the end-of-session record handed to the Recorder.
type Summary struct {
	SessionID  string `json:"session_id"`
	Rows       int    `json:"rows"`
	Cols       int    `json:"cols"`
	Colors     int    `json:"colors"`
	Score      int    `json:"score"`
	Stats      Stats  `json:"stats"`
	StartedSeq int64  `json:"started_seq"`
	EndedSeq   int64  `json:"ended_seq"`
}

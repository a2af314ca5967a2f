package engine

import "github.com/roach88/swapboard/internal/board"

// Status classifies the result of a swap attempt.
type Status int

const (
	// StatusIgnored means the input was dropped and nothing changed.
	StatusIgnored Status = iota
	// StatusReverted means the swap formed no match and was undone.
	StatusReverted
	// StatusAccepted means the swap formed a match and the board resolved.
	StatusAccepted
)

func (s Status) String() string {
	switch s {
	case StatusIgnored:
		return "ignored"
	case StatusReverted:
		return "reverted"
	case StatusAccepted:
		return "accepted"
	default:
		return "unknown"
	}
}

// MarshalText renders the status by name in JSON and YAML.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Reason explains why input was ignored.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonOutOfBounds Reason = "out_of_bounds"
	ReasonNotAdjacent Reason = "not_adjacent"
	ReasonBusy        Reason = "busy"
	ReasonNotRunning  Reason = "not_running"
)

// Outcome describes a settled swap attempt.
//
// Grid is a snapshot taken when the attempt settled; for ignored input it
// is the unchanged board. Seq is zero for ignored input.
type Outcome struct {
	Status     Status       `json:"status"`
	Reason     Reason       `json:"reason,omitempty"`
	SessionID  string       `json:"session_id,omitempty"`
	Seq        int64        `json:"seq,omitempty"`
	A          board.Pos    `json:"a"`
	B          board.Pos    `json:"b"`
	ScoreDelta int          `json:"score_delta"`
	Passes     []board.Pass `json:"-"`
	Grid       board.Grid   `json:"-"`
}

// Accepted reports whether the swap was committed.
func (o Outcome) Accepted() bool { return o.Status == StatusAccepted }

// Cleared returns the number of distinct cells emptied across all passes.
func (o Outcome) Cleared() int {
	return board.Resolution{Passes: o.Passes}.Cleared()
}

// SelectAction classifies the result of a Select call.
type SelectAction string

const (
	SelectIgnored    SelectAction = "ignored"
	SelectSelected   SelectAction = "selected"
	SelectDeselected SelectAction = "deselected"
	SelectSwapped    SelectAction = "swapped"
)

// SelectResult describes what a pick did. Swap is set when the pick
// completed an adjacent pair.
type SelectResult struct {
	Action SelectAction
	Reason Reason
	Swap   *Outcome
}

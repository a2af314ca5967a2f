package harness

// TraceEvent is one engine event observed during a run. Grid is set for
// board phase events only.
type TraceEvent struct {
	Step   int      `json:"step"`
	Kind   string   `json:"kind"`
	Seq    int64    `json:"seq,omitempty"`
	Points int      `json:"points,omitempty"`
	Score  int      `json:"score"`
	Grid   []string `json:"grid,omitempty"`
}

// StepResult is what a step did.
type StepResult struct {
	Step       int    `json:"step"`
	Op         string `json:"op"`
	Action     string `json:"action,omitempty"`
	Status     string `json:"status,omitempty"`
	Reason     string `json:"reason,omitempty"`
	ScoreDelta int    `json:"score_delta,omitempty"`
	Passes     int    `json:"passes,omitempty"`
}

// FinalState is the engine state after the last step.
type FinalState struct {
	SessionID string   `json:"session_id"`
	Score     int      `json:"score"`
	Remaining int      `json:"remaining"`
	Running   bool     `json:"running"`
	Grid      []string `json:"grid"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expectation and assertion held.
	Pass bool `json:"pass"`

	Steps []StepResult `json:"steps"`
	Trace []TraceEvent `json:"trace"`
	Final FinalState   `json:"final"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Stable is true when the final board is full and holds no match.
	Stable bool `json:"-"`

	// LedgerSwaps and LedgerSessions count rows written to the ledger.
	LedgerSwaps    int `json:"-"`
	LedgerSessions int `json:"-"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Steps:  []StepResult{},
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

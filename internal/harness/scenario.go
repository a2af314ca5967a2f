package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/swapboard/internal/board"
)

// Scenario is a scripted game with expectations.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Rules overrides the default rules. Keys are those of a rules file.
	Rules map[string]any `yaml:"rules,omitempty"`

	// Grid is the starting board in palette symbols.
	Grid []string `yaml:"grid"`

	// Refill lists the colours handed out for refills, in draw order.
	Refill []string `yaml:"refill,omitempty"`

	// Seed, when set, seeds the source used after Refill runs out.
	Seed *uint64 `yaml:"seed,omitempty"`

	// SessionPrefix names sessions "<prefix>-1", "<prefix>-2", ...
	// Defaults to "test-session".
	SessionPrefix string `yaml:"session_prefix,omitempty"`

	Steps      []Step      `yaml:"steps"`
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one input to the engine. Exactly one of Swap, Select, Tick,
// Restart or End is set.
type Step struct {
	Swap    *SwapStep  `yaml:"swap,omitempty"`
	Select  *board.Pos `yaml:"select,omitempty"`
	Tick    int        `yaml:"tick,omitempty"`
	Restart bool       `yaml:"restart,omitempty"`
	End     bool       `yaml:"end,omitempty"`

	// Expect is checked after the step. Only fields that are set are
	// compared.
	Expect *Expect `yaml:"expect,omitempty"`
}

// SwapStep is a direct swap attempt.
type SwapStep struct {
	A board.Pos `yaml:"a"`
	B board.Pos `yaml:"b"`
}

// Expect holds the expected state after a step.
type Expect struct {
	Status     string     `yaml:"status,omitempty"`
	Reason     string     `yaml:"reason,omitempty"`
	Action     string     `yaml:"action,omitempty"`
	ScoreDelta *int       `yaml:"score_delta,omitempty"`
	Passes     *int       `yaml:"passes,omitempty"`
	Score      *int       `yaml:"score,omitempty"`
	Remaining  *int       `yaml:"remaining,omitempty"`
	Running    *bool      `yaml:"running,omitempty"`
	Grid       []string   `yaml:"grid,omitempty"`
	Selection  *board.Pos `yaml:"selection,omitempty"`
}

// Op names the input kind of a step.
func (s Step) Op() string {
	switch {
	case s.Swap != nil:
		return OpSwap
	case s.Select != nil:
		return OpSelect
	case s.Tick > 0:
		return OpTick
	case s.Restart:
		return OpRestart
	case s.End:
		return OpEnd
	default:
		return ""
	}
}

// Step operations.
const (
	OpSwap    = "swap"
	OpSelect  = "select"
	OpTick    = "tick"
	OpRestart = "restart"
	OpEnd     = "end"
)

// Assertion validates the finished run.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	Score  *int     `yaml:"score,omitempty"`  // final_score
	Grid   []string `yaml:"grid,omitempty"`   // final_grid
	Events []string `yaml:"events,omitempty"` // event_order
	Event  string   `yaml:"event,omitempty"`  // event_count
	Count  *int     `yaml:"count,omitempty"`  // event_count

	Swaps    *int `yaml:"swaps,omitempty"`    // ledger
	Sessions *int `yaml:"sessions,omitempty"` // ledger
}

// Assertion type constants.
const (
	AssertFinalScore = "final_score"
	AssertFinalGrid  = "final_grid"
	AssertStable     = "stable"
	AssertEventOrder = "event_order"
	AssertEventCount = "event_count"
	AssertLedger     = "ledger"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field checking.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Grid) == 0 {
		return fmt.Errorf("grid is required and must be non-empty")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, step); err != nil {
			return err
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(index int, s Step) error {
	ops := 0
	if s.Swap != nil {
		ops++
	}
	if s.Select != nil {
		ops++
	}
	if s.Tick != 0 {
		ops++
	}
	if s.Restart {
		ops++
	}
	if s.End {
		ops++
	}

	if ops != 1 {
		return fmt.Errorf("steps[%d]: exactly one of swap, select, tick, restart, end is required", index)
	}
	if s.Tick < 0 {
		return fmt.Errorf("steps[%d]: tick must be positive", index)
	}
	if s.Expect == nil {
		return nil
	}
	if s.Expect.Status != "" && s.Swap == nil && s.Select == nil {
		return fmt.Errorf("steps[%d].expect: status only applies to swap and select", index)
	}
	if s.Expect.Action != "" && s.Select == nil {
		return fmt.Errorf("steps[%d].expect: action only applies to select", index)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertFinalScore:
		if a.Score == nil {
			return fmt.Errorf("assertions[%d]: score is required for final_score", index)
		}
	case AssertFinalGrid:
		if len(a.Grid) == 0 {
			return fmt.Errorf("assertions[%d]: grid is required for final_grid", index)
		}
	case AssertStable:
	case AssertEventOrder:
		if len(a.Events) == 0 {
			return fmt.Errorf("assertions[%d]: events list is required for event_order", index)
		}
	case AssertEventCount:
		if a.Event == "" {
			return fmt.Errorf("assertions[%d]: event is required for event_count", index)
		}
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for event_count", index)
		}
	case AssertLedger:
		if a.Swaps == nil && a.Sessions == nil {
			return fmt.Errorf("assertions[%d]: swaps or sessions is required for ledger", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}

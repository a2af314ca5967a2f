package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/swapboard/internal/canonical"
)

// TraceSnapshot is the golden-file form of a run.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	Steps        []StepResult `json:"steps"`
	Trace        []TraceEvent `json:"trace"`
	Final        FinalState   `json:"final"`
}

// Snapshot renders a run as canonical JSON.
func Snapshot(scenario *Scenario, result *Result) ([]byte, error) {
	return canonical.Marshal(TraceSnapshot{
		ScenarioName: scenario.Name,
		Steps:        result.Steps,
		Trace:        result.Trace,
		Final:        result.Final,
	})
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against its golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, scenario *Scenario, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenario, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)
	return nil
}

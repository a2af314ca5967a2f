package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/swapboard/internal/board"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	path := writeScenario(t, `
name: valid
description: "A valid scenario"
rules:
  scoring: unique
grid: [RRG, GBR, BYG]
refill: ["Y", "G", "B"]
steps:
  - swap: {a: {row: 0, col: 2}, b: {row: 1, col: 2}}
    expect:
      status: accepted
      score_delta: 30
  - select: {row: 1, col: 1}
  - tick: 5
  - restart: true
  - end: true
assertions:
  - type: final_score
    score: 0
`)

	s, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "valid", s.Name)
	assert.Equal(t, []string{"RRG", "GBR", "BYG"}, s.Grid)
	assert.Equal(t, []string{"Y", "G", "B"}, s.Refill)
	assert.Equal(t, "unique", s.Rules["scoring"])
	require.Len(t, s.Steps, 5)

	assert.Equal(t, OpSwap, s.Steps[0].Op())
	assert.Equal(t, board.Pos{Row: 0, Col: 2}, s.Steps[0].Swap.A)
	assert.Equal(t, board.Pos{Row: 1, Col: 2}, s.Steps[0].Swap.B)
	require.NotNil(t, s.Steps[0].Expect)
	assert.Equal(t, "accepted", s.Steps[0].Expect.Status)
	assert.Equal(t, 30, *s.Steps[0].Expect.ScoreDelta)

	assert.Equal(t, OpSelect, s.Steps[1].Op())
	assert.Equal(t, OpTick, s.Steps[2].Op())
	assert.Equal(t, 5, s.Steps[2].Tick)
	assert.Equal(t, OpRestart, s.Steps[3].Op())
	assert.Equal(t, OpEnd, s.Steps[4].Op())
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing name",
			yaml: `
description: "x"
grid: [RRG]
steps: [{end: true}]
`,
			want: "name is required",
		},
		{
			name: "missing description",
			yaml: `
name: x
grid: [RRG]
steps: [{end: true}]
`,
			want: "description is required",
		},
		{
			name: "missing grid",
			yaml: `
name: x
description: "x"
steps: [{end: true}]
`,
			want: "grid is required",
		},
		{
			name: "missing steps",
			yaml: `
name: x
description: "x"
grid: [RRG]
`,
			want: "steps list is required",
		},
		{
			name: "step with two ops",
			yaml: `
name: x
description: "x"
grid: [RRG]
steps:
  - select: {row: 0, col: 0}
    end: true
`,
			want: "steps[0]: exactly one of",
		},
		{
			name: "empty step",
			yaml: `
name: x
description: "x"
grid: [RRG]
steps:
  - expect: {score: 0}
`,
			want: "steps[0]: exactly one of",
		},
		{
			name: "negative tick",
			yaml: `
name: x
description: "x"
grid: [RRG]
steps:
  - tick: -1
`,
			want: "tick must be positive",
		},
		{
			name: "status on tick",
			yaml: `
name: x
description: "x"
grid: [RRG]
steps:
  - tick: 1
    expect: {status: accepted}
`,
			want: "status only applies to swap and select",
		},
		{
			name: "action on swap",
			yaml: `
name: x
description: "x"
grid: [RRG]
steps:
  - swap: {a: {row: 0, col: 0}, b: {row: 0, col: 1}}
    expect: {action: selected}
`,
			want: "action only applies to select",
		},
		{
			name: "unknown assertion",
			yaml: `
name: x
description: "x"
grid: [RRG]
steps: [{end: true}]
assertions:
  - type: trace_contains
`,
			want: `unknown assertion type "trace_contains"`,
		},
		{
			name: "final_score without score",
			yaml: `
name: x
description: "x"
grid: [RRG]
steps: [{end: true}]
assertions:
  - type: final_score
`,
			want: "score is required for final_score",
		},
		{
			name: "event_count negative",
			yaml: `
name: x
description: "x"
grid: [RRG]
steps: [{end: true}]
assertions:
  - type: event_count
    event: tick
    count: -1
`,
			want: "count must be non-negative",
		},
		{
			name: "ledger without counts",
			yaml: `
name: x
description: "x"
grid: [RRG]
steps: [{end: true}]
assertions:
  - type: ledger
`,
			want: "swaps or sessions is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseScenario_MalformedYAML(t *testing.T) {
	_, err := ParseScenario([]byte("name: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseScenario_UnknownFieldsRejected(t *testing.T) {
	_, err := ParseScenario([]byte(`
name: x
description: "x"
grid: [RRG]
steps:
  - swapp: {a: {row: 0, col: 0}, b: {row: 0, col: 1}}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "swapp")
}

func TestParseScenario_EventCountZeroAllowed(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: x
description: "x"
grid: [RRG]
steps: [{end: true}]
assertions:
  - type: event_count
    event: cleared
    count: 0
`))
	require.NoError(t, err)
	assert.Equal(t, 0, *s.Assertions[0].Count)
}

func TestLoadScenario_TestdataScenarios(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			s, err := LoadScenario(path)
			require.NoError(t, err)
			assert.NotEmpty(t, s.Steps)
		})
	}
}

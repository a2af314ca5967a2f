package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenariosDir = "../harness/testdata/scenarios"

const rowMatchScenario = `name: row_match
description: A horizontal triple clears
grid:
  - RRG
  - GBR
  - BYG
refill: ["Y", "G", "B"]
steps:
  - swap: {a: {row: 0, col: 2}, b: {row: 1, col: 2}}
    expect:
      status: accepted
      score: 30
`

const failingScenario = `name: wrong_score
description: Asserts a score the swap cannot reach
grid:
  - RRG
  - GBR
  - BYG
refill: ["Y", "G", "B"]
steps:
  - swap: {a: {row: 0, col: 2}, b: {row: 1, col: 2}}
assertions:
  - type: final_score
    score: 999
`

func writeScenario(t *testing.T, dir, name, src string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0644))
}

func runTestCmd(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewTestCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestTestCommandMissingArgs(t *testing.T) {
	_, err := runTestCmd(t, "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentScenariosDir(t *testing.T) {
	_, err := runTestCmd(t, "text", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommandEmptyScenariosDir(t *testing.T) {
	out, err := runTestCmd(t, "text", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")
}

func TestTestCommandEmptyScenariosDirJSON(t *testing.T) {
	out, err := runTestCmd(t, "json", t.TempDir())
	require.NoError(t, err)

	var response CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &response))
	assert.Equal(t, "ok", response.Status)
}

func TestTestCommandRunsCheckedInScenarios(t *testing.T) {
	out, err := runTestCmd(t, "text", scenariosDir)
	require.NoError(t, err, out)

	assert.Contains(t, out, "✓ row_match")
	assert.Contains(t, out, "✓ cascade")
	assert.Contains(t, out, "✓ eight_by_eight")
	assert.Contains(t, out, "Test Summary: 7 passed, 0 failed, 7 total")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTestCommandFilter(t *testing.T) {
	out, err := runTestCmd(t, "json", scenariosDir, "--filter", "*_scoring")
	require.NoError(t, err)

	var response struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &response))
	assert.Equal(t, "ok", response.Status)
	assert.Equal(t, 2, response.Data.Total)
	assert.Equal(t, 2, response.Data.Passed)
	for _, s := range response.Data.Scenarios {
		assert.Contains(t, []string{"unique_scoring", "window_scoring"}, s.Name)
	}
}

func TestTestCommandUpdateThenCompare(t *testing.T) {
	root := t.TempDir()
	scenarios := filepath.Join(root, "scenarios")
	writeScenario(t, scenarios, "row_match.yaml", rowMatchScenario)

	out, err := runTestCmd(t, "text", scenarios, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ row_match (golden updated)")

	golden := filepath.Join(root, "golden", "row_match.golden")
	data, err := os.ReadFile(golden)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"scenario_name":"row_match"`)

	out, err = runTestCmd(t, "text", scenarios)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ row_match\n")

	require.NoError(t, os.WriteFile(golden, []byte("{}"), 0644))
	out, err = runTestCmd(t, "text", scenarios)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "trace does not match golden file")
}

func TestTestCommandGoldenFlag(t *testing.T) {
	root := t.TempDir()
	scenarios := filepath.Join(root, "scenarios")
	goldenDir := filepath.Join(root, "elsewhere")
	writeScenario(t, scenarios, "row_match.yaml", rowMatchScenario)

	_, err := runTestCmd(t, "text", scenarios, "--update", "--golden", goldenDir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(goldenDir, "row_match.golden"))
	assert.NoFileExists(t, filepath.Join(root, "golden", "row_match.golden"))
}

func TestTestCommandFailingScenario(t *testing.T) {
	scenarios := filepath.Join(t.TempDir(), "scenarios")
	writeScenario(t, scenarios, "wrong_score.yaml", failingScenario)
	writeScenario(t, scenarios, "row_match.yaml", rowMatchScenario)

	out, err := runTestCmd(t, "text", scenarios)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ wrong_score")
	assert.Contains(t, out, "✓ row_match")
	assert.Contains(t, out, "Test Summary: 1 passed, 1 failed, 2 total")
}

func TestTestCommandFailingScenarioJSON(t *testing.T) {
	scenarios := filepath.Join(t.TempDir(), "scenarios")
	writeScenario(t, scenarios, "wrong_score.yaml", failingScenario)

	out, err := runTestCmd(t, "json", scenarios)
	require.Error(t, err)

	var response CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &response))
	assert.Equal(t, "error", response.Status)
	require.NotNil(t, response.Error)
	assert.Equal(t, ErrCodeTestFailed, response.Error.Code)
}

func TestTestCommandInvalidScenarioFile(t *testing.T) {
	scenarios := filepath.Join(t.TempDir(), "scenarios")
	writeScenario(t, scenarios, "broken.yaml", "name: broken\nbogus: true\n")

	out, err := runTestCmd(t, "text", scenarios)
	require.Error(t, err)
	assert.Contains(t, out, "✗ broken.yaml")
	assert.Contains(t, out, "failed to load scenario")
}

func TestTestHelpText(t *testing.T) {
	out, err := runTestCmd(t, "text", "--help")
	require.NoError(t, err)

	assert.Contains(t, out, "scenarios-dir")
	assert.Contains(t, out, "--update")
	assert.Contains(t, out, "--filter")
	assert.Contains(t, out, "--golden")
}

func TestFindScenarioFiles(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "a.yaml", "")
	writeScenario(t, dir, "b.yml", "")
	writeScenario(t, dir, "c.txt", "")
	writeScenario(t, filepath.Join(dir, "nested"), "d.yaml", "")

	files, err := findScenarioFiles(dir, "")
	require.NoError(t, err)
	assert.Len(t, files, 3)

	files, err = findScenarioFiles(dir, "a")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "a.yaml", filepath.Base(files[0]))

	_, err = findScenarioFiles(dir, "[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter pattern")
}

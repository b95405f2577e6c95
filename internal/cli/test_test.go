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

const harnessScenarios = "../harness/testdata/scenarios"

const passingScenario = `name: bump
description: "Increment twice"
session: "s-bump"
steps:
  - dispatch: counter/increment
    args: { num: 2 }
  - dispatch: counter/increment
    expect:
      state: { counter: { count: 3 } }
`

const failingScenario = `name: wrong
description: "Expects the wrong count"
session: "s-wrong"
steps:
  - dispatch: counter/increment
    args: { num: 2 }
    expect:
      state: { counter: { count: 5 } }
`

func runTestCmd(format string, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	cmd := NewTestCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// scenarioDir lays out <root>/scenarios with the given files and returns
// the scenarios directory.
func scenarioDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "scenarios")
	require.NoError(t, os.MkdirAll(dir, 0755))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func TestTestCommandMissingArgs(t *testing.T) {
	_, err := runTestCmd("text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentScenariosDir(t *testing.T) {
	_, err := runTestCmd("text", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommandEmptyScenariosDir(t *testing.T) {
	out, err := runTestCmd("text", scenarioDir(t, nil))
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}

func TestTestCommandEmptyScenariosDirJSON(t *testing.T) {
	out, err := runTestCmd("json", scenarioDir(t, nil))
	require.NoError(t, err)

	var response struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &response))
	assert.Equal(t, "ok", response.Status)
	assert.Equal(t, 0, response.Data.Total)
}

func TestTestCommandHarnessScenarios(t *testing.T) {
	out, err := runTestCmd("text", harnessScenarios)
	require.NoError(t, err)

	assert.Contains(t, out, "✓ counter_steps")
	assert.Contains(t, out, "✓ sign_in_out")
	assert.Contains(t, out, "✓ slices_independent")
	assert.Contains(t, out, "Results: 3 passed, 0 failed, 3 total")
}

func TestTestCommandFilter(t *testing.T) {
	out, err := runTestCmd("text", harnessScenarios, "--filter", "sign_*")
	require.NoError(t, err)

	assert.Contains(t, out, "sign_in_out")
	assert.NotContains(t, out, "counter_steps")
	assert.Contains(t, out, "1 total")
}

func TestTestCommandUpdateWritesGolden(t *testing.T) {
	goldenDir := filepath.Join(t.TempDir(), "golden")

	out, err := runTestCmd("text", harnessScenarios, "--filter", "sign_in_out", "--update", "--golden-dir", goldenDir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ sign_in_out (golden updated)")

	written, err := os.ReadFile(filepath.Join(goldenDir, "sign_in_out.golden"))
	require.NoError(t, err)
	expected, err := os.ReadFile("../harness/testdata/golden/sign_in_out.golden")
	require.NoError(t, err)
	assert.Equal(t, string(bytes.TrimSpace(expected)), string(bytes.TrimSpace(written)))
}

func TestTestCommandNoGoldenUsesChecksOnly(t *testing.T) {
	dir := scenarioDir(t, map[string]string{"bump.yaml": passingScenario})

	out, err := runTestCmd("text", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ bump")
}

func TestTestCommandGoldenMismatch(t *testing.T) {
	dir := scenarioDir(t, map[string]string{"bump.yaml": passingScenario})
	goldenDir := filepath.Join(filepath.Dir(dir), "golden")
	require.NoError(t, os.MkdirAll(goldenDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(goldenDir, "bump.golden"), []byte(`{"stale":true}`), 0644))

	out, err := runTestCmd("text", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ bump")
	assert.Contains(t, out, "does not match golden file")
}

func TestTestCommandFailingScenario(t *testing.T) {
	dir := scenarioDir(t, map[string]string{
		"bump.yaml":  passingScenario,
		"wrong.yaml": failingScenario,
	})

	out, err := runTestCmd("text", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✓ bump")
	assert.Contains(t, out, "✗ wrong")
	assert.Contains(t, out, "Results: 1 passed, 1 failed, 2 total")
}

func TestTestCommandFailingScenarioJSON(t *testing.T) {
	dir := scenarioDir(t, map[string]string{"wrong.yaml": failingScenario})

	out, err := runTestCmd("json", dir)
	require.Error(t, err)

	var response struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
		Error  *CLIError  `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &response))
	assert.Equal(t, "error", response.Status)
	require.NotNil(t, response.Error)
	assert.Equal(t, CodeScenarioFailed, response.Error.Code)
	require.Len(t, response.Data.Scenarios, 1)
	assert.False(t, response.Data.Scenarios[0].Pass)
	assert.NotEmpty(t, response.Data.Scenarios[0].Errors)
}

func TestTestCommandInvalidScenario(t *testing.T) {
	dir := scenarioDir(t, map[string]string{"broken.yaml": "name: Broken\nsteps: []\n"})

	out, err := runTestCmd("text", dir)
	require.Error(t, err)
	assert.Contains(t, out, "✗ broken.yaml")
	assert.Contains(t, out, "failed to load scenario")
}

func TestGoldenFilePath(t *testing.T) {
	assert.Equal(t, filepath.Join("testdata", "golden", "bump.golden"), goldenFilePath(filepath.Join("testdata", "golden"), "bump"))
}

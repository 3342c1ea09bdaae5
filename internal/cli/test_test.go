package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `name: pair
description: "mic pair"
channels:
  - {net: a, type: mic_in, compatible: [mic_out], from: "U1:x"}
  - {net: a, type: mic_out, from: "U2:x"}
assertions:
  - {type: mapped, pair: ["U1:x", "U2:x"]}
`

const failingScenario = `name: wrong
description: "expects a mapping that cannot exist"
channels:
  - {net: a, type: sense, from: "U1:x"}
assertions:
  - {type: mapping_count, count: 1}
`

func TestTestCommand_RepositoryScenarios(t *testing.T) {
	cmd := NewTestCommand(&RootOptions{Format: "text"})

	out, _, err := execute(cmd, filepath.Join("..", "harness", "testdata", "scenarios"))
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ mic_pair")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTestCommand_MissingArgs(t *testing.T) {
	cmd := NewTestCommand(&RootOptions{Format: "text"})
	_, _, err := execute(cmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommand_NonExistentDir(t *testing.T) {
	cmd := NewTestCommand(&RootOptions{Format: "text"})
	_, _, err := execute(cmd, "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommand_EmptyDir(t *testing.T) {
	cmd := NewTestCommand(&RootOptions{Format: "text"})
	out, _, err := execute(cmd, t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")
}

func TestTestCommand_FailureJSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "scenarios")
	writeFile(t, dir, "pair.yaml", passingScenario)
	writeFile(t, dir, "wrong.yaml", failingScenario)
	cmd := NewTestCommand(&RootOptions{Format: "json"})

	out, _, err := execute(cmd, dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
		Error  *CLIError  `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, 1, resp.Data.Passed)
	assert.Equal(t, 1, resp.Data.Failed)
	assert.Equal(t, 2, resp.Data.Total)
	require.Len(t, resp.Data.Scenarios, 2)
	assert.Equal(t, "wrong", resp.Data.Scenarios[1].Name)
	assert.NotEmpty(t, resp.Data.Scenarios[1].Errors)
}

func TestTestCommand_Filter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "scenarios")
	writeFile(t, dir, "pair.yaml", passingScenario)
	writeFile(t, dir, "wrong.yaml", failingScenario)
	cmd := NewTestCommand(&RootOptions{Format: "text"})

	out, _, err := execute(cmd, dir, "--filter", "pa*")
	require.NoError(t, err)
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
}

func TestTestCommand_UpdateThenCompare(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "scenarios")
	writeFile(t, dir, "pair.yaml", passingScenario)

	_, _, err := execute(NewTestCommand(&RootOptions{Format: "text"}), dir, "--update")
	require.NoError(t, err)
	golden := filepath.Join(root, "golden", "pair.golden")
	require.FileExists(t, golden)

	_, _, err = execute(NewTestCommand(&RootOptions{Format: "text"}), dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(golden, []byte("{}\n"), 0o644))
	out, _, err := execute(NewTestCommand(&RootOptions{Format: "text"}), dir)
	require.Error(t, err)
	assert.Contains(t, out, "does not match golden file")
}

package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/wireplan/internal/ir"
)

func TestTraceCommand_FindsDisconnect(t *testing.T) {
	dir := setupRunDir(t)
	cmd := NewTraceCommand(&RootOptions{Format: "text"})

	out, _, err := execute(cmd, "--connectors", filepath.Join(dir, "connectors.csv"), "J1", "J2")
	require.NoError(t, err)
	assert.Contains(t, out, "J1 -> J2")
	assert.Contains(t, out, "Disconnects: P1")
}

func TestTraceCommand_JSON(t *testing.T) {
	dir := setupRunDir(t)
	cmd := NewTraceCommand(&RootOptions{Format: "json"})

	out, _, err := execute(cmd, "--connectors", filepath.Join(dir, "connectors.csv"), "J1", "J2")
	require.NoError(t, err)

	var resp struct {
		Status string             `json:"status"`
		Data   ir.DisconnectTrace `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Found)
	assert.Equal(t, []string{"P1"}, resp.Data.Disconnects)
	assert.Equal(t, []string{"audio1", "audio1_far"}, resp.Data.VisitedNets)
}

func TestTraceCommand_NoDisconnectOnPath(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "connectors.csv", "connector,net\nJ1,N1\nJ2,N1\n")
	cmd := NewTraceCommand(&RootOptions{Format: "text"})

	out, _, err := execute(cmd, "--connectors", path, "J1", "J2")
	require.NoError(t, err)
	assert.Contains(t, out, "No disconnects on path.")
}

func TestTraceCommand_DisconnectEndpointListed(t *testing.T) {
	dir := setupRunDir(t)
	cmd := NewTraceCommand(&RootOptions{Format: "text"})

	out, _, err := execute(cmd, "--connectors", filepath.Join(dir, "connectors.csv"), "J1", "P1")
	require.NoError(t, err)
	assert.Contains(t, out, "Disconnects: P1")
}

func TestTraceCommand_NoPath(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "connectors.csv", "connector,net\nJ1,N1\nJ2,N2\n")
	cmd := NewTraceCommand(&RootOptions{Format: "text"})

	out, _, err := execute(cmd, "--connectors", path, "J1", "J2")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E030]: no connector path from J1 to J2")
}

func TestTraceCommand_UnknownConnector(t *testing.T) {
	dir := setupRunDir(t)
	cmd := NewTraceCommand(&RootOptions{Format: "text"})

	out, _, err := execute(cmd, "--connectors", filepath.Join(dir, "connectors.csv"), "J1", "J9")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, `unknown connector "J9"`)
}

func TestTraceCommand_MissingFlag(t *testing.T) {
	cmd := NewTraceCommand(&RootOptions{Format: "text"})
	_, _, err := execute(cmd, "J1", "J2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connectors")
}

package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/wireplan/internal/engine"
	"github.com/roach88/wireplan/internal/ir"
	"github.com/roach88/wireplan/internal/store"
)

type mapResponse struct {
	Status string        `json:"status"`
	Data   engine.Report `json:"data"`
	Error  *CLIError     `json:"error"`
}

func setupRunDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "channels.csv", testChannels)
	writeFile(t, dir, "connectors.csv", testConnectors)
	writeFile(t, dir, "run.yaml", testConfig)
	return dir
}

func runMapJSON(t *testing.T, runID string, args ...string) (mapResponse, error) {
	t.Helper()
	cmd := newMapCommand(&MapOptions{
		RootOptions: &RootOptions{Format: "json"},
		RunIDs:      engine.RunIDFunc(func() string { return runID }),
	})
	out, _, err := execute(cmd, args...)

	var resp mapResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "output: %s", out)
	return resp, err
}

func TestMapCommand_ConfigRun(t *testing.T) {
	dir := setupRunDir(t)

	resp, err := runMapJSON(t, "run-1", "--config", filepath.Join(dir, "run.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)

	r := resp.Data
	assert.Equal(t, "run-1", r.RunID)
	assert.Equal(t, 3, r.Nets)
	assert.Equal(t, 5, r.Channels)
	assert.Equal(t, []string{"U3:ch1"}, r.Unmapped)
	assert.NotEmpty(t, r.Digest)

	var got []string
	for _, m := range r.NewMappings {
		got = append(got, m.From+"->"+m.To)
	}
	assert.Equal(t, []string{
		"U1:ch0->U2:ch0",
		"U1:sh->shield_bus-shield",
		"U2:sh->shield_bus-shield",
	}, got)

	require.Len(t, r.Annotations, 1)
	assert.Equal(t, ir.Annotation{
		From: "U1:ch0", To: "U2:ch0", Disconnects: []string{"P1"}, PathFound: true,
	}, r.Annotations[0])
}

func TestMapCommand_SecondRunAddsNothing(t *testing.T) {
	dir := setupRunDir(t)
	cfg := filepath.Join(dir, "run.yaml")

	first, err := runMapJSON(t, "run-1", "--config", cfg)
	require.NoError(t, err)
	second, err := runMapJSON(t, "run-2", "--config", cfg)
	require.NoError(t, err)

	assert.Empty(t, second.Data.NewMappings)
	assert.Equal(t, first.Data.Digest, second.Data.Digest)
}

func TestMapCommand_FlagsOverrideConfig(t *testing.T) {
	dir := setupRunDir(t)
	other := filepath.Join(t.TempDir(), "other.db")

	_, err := runMapJSON(t, "run-1", "--config", filepath.Join(dir, "run.yaml"), "--db", other)
	require.NoError(t, err)

	st, err := store.Open(other)
	require.NoError(t, err)
	defer st.Close()
	records, err := st.Mappings(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestMapCommand_WithoutConfig(t *testing.T) {
	dir := setupRunDir(t)

	resp, err := runMapJSON(t, "run-1",
		"--channels", filepath.Join(dir, "channels.csv"),
		"--db", filepath.Join(dir, "flags.db"),
	)
	require.NoError(t, err)

	// Without the junction config the chassis channels have nothing to
	// join, and chassis declares no compatibility of its own.
	assert.Len(t, resp.Data.NewMappings, 1)
	assert.Equal(t, []string{"U3:ch1", "U1:sh", "U2:sh"}, resp.Data.Unmapped)
	assert.Empty(t, resp.Data.Annotations)
}

func TestMapCommand_MissingChannels(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "run.yaml", "store: x.db\n")

	resp, err := runMapJSON(t, "run-1", "--config", filepath.Join(dir, "run.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeConfig, resp.Error.Code)
}

func TestMapCommand_UnknownConfigField(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "run.yaml", "chanels: c.csv\n")

	resp, err := runMapJSON(t, "run-1", "--config", filepath.Join(dir, "run.yaml"))
	require.Error(t, err)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeConfig, resp.Error.Code)
}

func TestMapCommand_ConsistencyViolationExitsTwo(t *testing.T) {
	dir := setupRunDir(t)
	dbPath := filepath.Join(dir, "wireplan.db")

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	_, err = st.Record(context.Background(), "U1:ch0", "U9:ch0", store.Meta{Net: "audio1", RunID: "old"})
	require.NoError(t, err)
	require.NoError(t, st.Close())

	// U1:ch0 is already mapped, so the row forcing it onto U2:ch0 conflicts.
	writeFile(t, dir, "channels.csv", "net,type,from_device,from_channel,to_device,to_channel\naudio1,mic_in,U1,ch0,U2,ch0\n")

	resp, err := runMapJSON(t, "run-1", "--config", filepath.Join(dir, "run.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.ErrorIs(t, err, store.ErrConsistency)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeConsistency, resp.Error.Code)
}

func TestMapCommand_TextOutput(t *testing.T) {
	dir := setupRunDir(t)
	cmd := newMapCommand(&MapOptions{
		RootOptions: &RootOptions{Format: "text"},
		RunIDs:      engine.NewRunSequence("run"),
	})

	out, _, err := execute(cmd, "--config", filepath.Join(dir, "run.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "Run run-1: 3 net(s), 5 channel(s)")
	assert.Contains(t, out, "+ U1:ch0 -> U2:ch0 (pair, net audio1)")
	assert.Contains(t, out, "? U3:ch1")
	assert.Contains(t, out, "U1:ch0 -> U2:ch0 via P1")
}

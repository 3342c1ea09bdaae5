package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// writeFile writes content to name inside dir and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// execute runs cmd with args and returns stdout, stderr and the error.
func execute(cmd *cobra.Command, args ...string) (string, string, error) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

const testChannels = `net,type,compatible,from_device,from_channel
audio1,mic_in,mic_out,U1,ch0
audio1,mic_out,,U2,ch0
shield_bus,chassis,,U1,sh
shield_bus,chassis,,U2,sh
sense1,sense,,U3,ch1
`

const testConnectors = `connector,device,net,disconnect,channels
J1,U1,audio1,,ch0;sh
P1,,audio1,true,
P1,,audio1_far,true,
J2,U2,audio1_far,,ch0;sh
`

const testConfig = `store: wireplan.db
channels: channels.csv
connectors: connectors.csv
junctions:
  - name: shield
    types: [chassis]
`

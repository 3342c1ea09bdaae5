package tables

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/wireplan/internal/ir"
)

func TestReadChannels(t *testing.T) {
	src := `net,type,library,compatible,from_device,from_channel,to_device,to_channel,splice
audio1,mic_in,,mic_out;line_out;mic_out,U1,ch0,,,
audio1,mic_out,acme,,U2,ch0,,,
pwr,sense,,,U1,3,U2,7,
gnd,return,,,PSU,rtn,,,S1
# comment lines are ignored
bad,x,,,,ch9,,,
`
	rows, warnings, err := ReadChannels(strings.NewReader(src))
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, rows, 5)

	assert.Equal(t, ir.NewChannelKey("U1", "ch0"), rows[0].Key)
	assert.Equal(t, "audio1", rows[0].Net)
	assert.Equal(t, []ir.TypeRef{{Name: "line_out"}, {Name: "mic_out"}}, rows[0].Type.Compatible)
	assert.Equal(t, 2, rows[0].Line)

	assert.Equal(t, ir.TypeRef{Library: "acme", Name: "mic_out"}, rows[1].Type.Type)

	require.NotNil(t, rows[2].To)
	assert.Equal(t, ir.NewChannelKey("U2", "7"), *rows[2].To)

	assert.Equal(t, "S1", rows[3].Splice)

	// Missing device is passed through for the engine to reject.
	assert.False(t, rows[4].Key.Valid())
	assert.Equal(t, 7, rows[4].Line)
}

func TestReadChannels_ColumnOrderAndCase(t *testing.T) {
	src := "From_Channel,FROM_DEVICE,Type,Net,extra\nch0,U1,mic_in,audio1,whatever\n"
	rows, _, err := ReadChannels(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "U1:ch0", rows[0].Key.String())
	assert.Nil(t, rows[0].To)
}

func TestReadChannels_MissingColumns(t *testing.T) {
	_, _, err := ReadChannels(strings.NewReader("net,type\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "from_device")

	_, _, err = ReadChannels(strings.NewReader(""))
	assert.Error(t, err)
}

func TestReadChannels_BadQuoteWarns(t *testing.T) {
	src := "net,type,from_device,from_channel\nn,a,U\"1,ch0\nn,b,U2,ch0\n"
	rows, warnings, err := ReadChannels(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, "channels", warnings[0].Source)
	require.Len(t, rows, 1)
	assert.Equal(t, "U2:ch0", rows[0].Key.String())
}

func TestReadConnectors(t *testing.T) {
	src := `connector,device,net,disconnect,channels
J1,U1,N1,false,ch0;ch1
J2,,N1,true,
J2,,N2,TRUE,
J3,U2,N2,,ch0
,U9,N3,false,
J4,U3,N3,maybe,
`
	rows, warnings, err := ReadConnectors(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, rows, 4)
	require.Len(t, warnings, 2)
	assert.Equal(t, 6, warnings[0].Line)
	assert.Contains(t, warnings[1].Message, "maybe")

	assert.Equal(t, ir.Connector{Ref: "J1", Device: "U1", Nets: []string{"N1"}, Channels: []string{"ch0", "ch1"}}, rows[0])
	assert.True(t, rows[1].Disconnect)
	assert.True(t, rows[2].Disconnect)
	assert.False(t, rows[3].Disconnect)
}

func TestLoadChannels_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channels.csv")
	require.NoError(t, os.WriteFile(path, []byte("net,type,from_device,from_channel\nn,a,U1,1\n"), 0o644))

	rows, _, err := LoadChannels(path)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, _, err = LoadChannels(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestLoadConnectors_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "connectors.csv")
	require.NoError(t, os.WriteFile(path, []byte("connector,net\nJ1,N1\n"), 0o644))

	rows, _, err := LoadConnectors(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"N1"}, rows[0].Nets)
}

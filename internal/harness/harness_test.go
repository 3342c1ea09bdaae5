package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScenarios runs every scenario under testdata/scenarios and compares
// each result with its golden file.
func TestScenarios(t *testing.T) {
	files, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), ".yaml")
		t.Run(name, func(t *testing.T) {
			s, err := LoadScenario(file)
			require.NoError(t, err)

			result, err := RunWithGolden(t, s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "assertions failed: %v", result.Errors)
		})
	}
}

func TestRun_FailedAssertionsAreReported(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: wrong_expectations
description: "Every assertion here is false"
channels:
  - {net: audio1, type: mic_in, compatible: [mic_out], from: "U1:ch0"}
  - {net: audio1, type: mic_out, from: "U2:ch0"}
  - {net: audio1, type: sense, from: "U3:ch0"}
connectors:
  - {ref: J1, nets: [N1]}
  - {ref: J2, nets: [N2]}
assertions:
  - {type: mapped, pair: ["U1:ch0", "U3:ch0"]}
  - {type: unmapped, keys: ["U2:ch0"]}
  - {type: mapping_count, count: 2}
  - {type: junction, junction: audio1-bus, members: ["U3:ch0"]}
  - {type: disconnects, from: J1, to: J2, expect: [], found: true}
`))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 5)
	assert.Contains(t, result.Errors[0], "U1:ch0 -> U2:ch0")
	assert.Contains(t, result.Errors[1], "U2:ch0 mapped to U1:ch0")
	assert.Contains(t, result.Errors[2], "Expected: 2")
	assert.Contains(t, result.Errors[3], "audio1-bus")
	assert.Contains(t, result.Errors[4], "found=false")
}

func TestRun_InvalidLibrary(t *testing.T) {
	s := &Scenario{
		Name:        "bad_library",
		Description: "library does not compile",
		Runs:        1,
		Library:     "type: {",
		Assertions:  []Assertion{{Type: AssertMappingCount}},
	}
	_, err := Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to compile library")
}

func TestRun_ConsistencyViolationAborts(t *testing.T) {
	s := &Scenario{
		Name:        "conflict",
		Description: "two forced partners for one channel",
		Runs:        1,
		Channels: []ChannelRow{
			{Net: "n1", Type: "x", From: "U1:a", To: "U2:a"},
			{Net: "n2", Type: "x", From: "U3:a", To: "U1:a"},
		},
		Assertions: []Assertion{{Type: AssertMappingCount}},
	}
	_, err := Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run 1")
}

func TestResult_Last(t *testing.T) {
	r := NewResult()
	assert.Nil(t, r.Last())
	assert.True(t, r.Pass)

	r.AddError("boom")
	assert.False(t, r.Pass)
	assert.Equal(t, []string{"boom"}, r.Errors)
}

package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/wireplan/internal/engine"
	"github.com/roach88/wireplan/internal/ir"
)

// Snapshot is the golden-file form of a scenario result. The store digest
// is left out so golden files stay readable when the hash scheme changes.
type Snapshot struct {
	ScenarioName string               `json:"scenario_name"`
	Runs         []RunSnapshot        `json:"runs"`
	Mappings     []ir.MappingRecord   `json:"mappings"`
	Annotations  []ir.Annotation      `json:"annotations,omitempty"`
	Traces       []ir.DisconnectTrace `json:"traces,omitempty"`
}

// RunSnapshot is the per-run part of a Snapshot.
type RunSnapshot struct {
	RunID       string              `json:"run_id"`
	NewMappings int                 `json:"new_mappings"`
	Unmapped    []string            `json:"unmapped"`
	Warnings    []engine.RowWarning `json:"warnings,omitempty"`
}

// NewSnapshot builds the snapshot of a result.
func NewSnapshot(name string, result *Result) Snapshot {
	snap := Snapshot{
		ScenarioName: name,
		Runs:         make([]RunSnapshot, 0, len(result.Reports)),
		Mappings:     result.Mappings,
		Traces:       result.Traces,
	}
	for _, r := range result.Reports {
		snap.Runs = append(snap.Runs, RunSnapshot{
			RunID:       r.RunID,
			NewMappings: len(r.NewMappings),
			Unmapped:    r.Unmapped,
			Warnings:    r.Warnings,
		})
	}
	if last := result.Last(); last != nil {
		snap.Annotations = last.Annotations
	}
	return snap
}

// MarshalSnapshot renders the golden-file bytes of a result.
func MarshalSnapshot(name string, result *Result) ([]byte, error) {
	data, err := json.MarshalIndent(NewSnapshot(name, result), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// RunWithGolden executes a scenario and compares the result against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the result doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	return result, AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an already computed result against a golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := MarshalSnapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}

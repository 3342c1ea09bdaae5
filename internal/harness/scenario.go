package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/wireplan/internal/config"
	"github.com/roach88/wireplan/internal/ir"
)

// Scenario defines a wiring scenario.
type Scenario struct {
	// Name uniquely identifies this scenario; it also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Runs is how many times the engine runs over the same input against
	// the same store. Defaults to 1.
	Runs int `yaml:"runs,omitempty"`

	// Library is inline CUE source for the device library.
	Library string `yaml:"library,omitempty"`

	Junctions  []config.JunctionConfig `yaml:"junctions,omitempty"`
	Channels   []ChannelRow            `yaml:"channels"`
	Connectors []ConnectorRow          `yaml:"connectors,omitempty"`

	// Traces are disconnect traces to run after the last engine run.
	Traces []TraceStep `yaml:"traces,omitempty"`

	Assertions []Assertion `yaml:"assertions"`
}

// ChannelRow is the scenario form of a channel-table row.
type ChannelRow struct {
	Net        string   `yaml:"net"`
	Type       string   `yaml:"type"`
	Compatible []string `yaml:"compatible,omitempty"`
	From       string   `yaml:"from"`
	To         string   `yaml:"to,omitempty"`
	Splice     string   `yaml:"splice,omitempty"`
}

// ConnectorRow is the scenario form of a connector.
type ConnectorRow struct {
	Ref        string   `yaml:"ref"`
	Device     string   `yaml:"device,omitempty"`
	Nets       []string `yaml:"nets"`
	Disconnect bool     `yaml:"disconnect,omitempty"`
	Channels   []string `yaml:"channels,omitempty"`
}

// TraceStep requests a disconnect trace between two connectors.
type TraceStep struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Assertion validates the outcome of a scenario.
type Assertion struct {
	Type string `yaml:"type"`

	// Pair is the two channel keys expected to be mapped (mapped).
	Pair []string `yaml:"pair,omitempty"`

	// Junction and Members (junction).
	Junction string   `yaml:"junction,omitempty"`
	Members  []string `yaml:"members,omitempty"`

	// Keys are channel keys expected unmapped (unmapped).
	Keys []string `yaml:"keys,omitempty"`

	// Count (mapping_count, new_mappings).
	Count int `yaml:"count,omitempty"`

	// From, To, Expect and Found (disconnects).
	From   string   `yaml:"from,omitempty"`
	To     string   `yaml:"to,omitempty"`
	Expect []string `yaml:"expect,omitempty"`
	Found  *bool    `yaml:"found,omitempty"`
}

// Assertion type constants.
const (
	AssertMapped       = "mapped"
	AssertJunction     = "junction"
	AssertUnmapped     = "unmapped"
	AssertMappingCount = "mapping_count"
	AssertNewMappings  = "new_mappings"
	AssertDisconnects  = "disconnects"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field checking.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Runs < 0 {
		return fmt.Errorf("runs must not be negative")
	}
	if s.Runs == 0 {
		s.Runs = 1
	}
	if len(s.Assertions) == 0 && len(s.Traces) == 0 {
		return fmt.Errorf("at least one assertion or trace is required")
	}

	cfg := config.Config{Junctions: s.Junctions}
	if err := cfg.Validate(); err != nil {
		return err
	}

	for i, a := range s.Assertions {
		switch a.Type {
		case AssertMapped:
			if len(a.Pair) != 2 {
				return fmt.Errorf("assertions[%d]: mapped requires a pair of two keys", i)
			}
		case AssertJunction:
			if a.Junction == "" {
				return fmt.Errorf("assertions[%d]: junction requires a junction key", i)
			}
		case AssertUnmapped:
			if len(a.Keys) == 0 {
				return fmt.Errorf("assertions[%d]: unmapped requires keys", i)
			}
		case AssertMappingCount, AssertNewMappings:
		case AssertDisconnects:
			if a.From == "" || a.To == "" {
				return fmt.Errorf("assertions[%d]: disconnects requires from and to", i)
			}
		default:
			return fmt.Errorf("assertions[%d]: unknown assertion type %q", i, a.Type)
		}
	}
	return nil
}

// channels converts the scenario rows to engine input. Keys that do not
// parse are passed through empty so the engine reports them.
func (s *Scenario) channels() []ir.Channel {
	out := make([]ir.Channel, 0, len(s.Channels))
	for i, row := range s.Channels {
		c := ir.Channel{
			Net:    ir.Normalize(row.Net),
			Type:   ir.TypeDecl{Type: ir.ParseTypeRef(row.Type)},
			Splice: ir.Normalize(row.Splice),
			Line:   i + 1,
		}
		c.Key, _ = ir.ParseChannelKey(row.From)
		for _, t := range row.Compatible {
			c.Type.Compatible = append(c.Type.Compatible, ir.ParseTypeRef(t))
		}
		if row.To != "" {
			to, _ := ir.ParseChannelKey(row.To)
			c.To = &to
		}
		out = append(out, c)
	}
	return out
}

func (s *Scenario) connectors() []ir.Connector {
	out := make([]ir.Connector, 0, len(s.Connectors))
	for _, row := range s.Connectors {
		out = append(out, ir.Connector{
			Ref:        row.Ref,
			Device:     row.Device,
			Nets:       row.Nets,
			Disconnect: row.Disconnect,
			Channels:   row.Channels,
		})
	}
	return out
}

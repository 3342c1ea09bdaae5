// Package config reads the YAML run configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/wireplan/internal/engine"
	"github.com/roach88/wireplan/internal/ir"
)

// DefaultStore is the store path used when the config names none.
const DefaultStore = "wireplan.db"

// Config describes one mapping run.
type Config struct {
	// Store is the SQLite mapping store.
	Store string `yaml:"store"`

	// Library is a directory of CUE device-library files. Optional: rows
	// may declare compatibility themselves.
	Library string `yaml:"library,omitempty"`

	// Channels is the channel-to-net CSV table.
	Channels string `yaml:"channels"`

	// Connectors is the connector-to-net CSV table. Optional; without it no
	// disconnect annotations are produced.
	Connectors string `yaml:"connectors,omitempty"`

	Junctions []JunctionConfig `yaml:"junctions,omitempty"`
}

// JunctionConfig is the YAML form of engine.Junction.
type JunctionConfig struct {
	Name   string   `yaml:"name"`
	Types  []string `yaml:"types,omitempty"`
	Forced []string `yaml:"forced,omitempty"`
}

// Load reads and validates a config file. Relative paths inside it are
// resolved against the file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.resolve(filepath.Dir(path))
	return cfg, nil
}

// Parse decodes and validates config YAML. Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Store == "" {
		cfg.Store = DefaultStore
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks junction declarations.
func (c *Config) Validate() error {
	seen := make(map[string]bool)
	for i, j := range c.Junctions {
		name := ir.Normalize(j.Name)
		if name == "" {
			return fmt.Errorf("junctions[%d]: name is required", i)
		}
		if seen[name] {
			return fmt.Errorf("junctions[%d]: duplicate junction %q", i, name)
		}
		seen[name] = true
		for _, f := range j.Forced {
			if _, err := ir.ParseChannelKey(f); err != nil {
				return fmt.Errorf("junctions[%d] (%s): forced: %w", i, name, err)
			}
		}
	}
	return nil
}

// EngineJunctions converts the junction declarations for the engine.
// Validate must have succeeded.
func (c *Config) EngineJunctions() []engine.Junction {
	out := make([]engine.Junction, 0, len(c.Junctions))
	for _, j := range c.Junctions {
		ej := engine.Junction{Name: ir.Normalize(j.Name)}
		for _, t := range j.Types {
			if ref := ir.ParseTypeRef(t); !ref.IsZero() {
				ej.Types = append(ej.Types, ref)
			}
		}
		for _, f := range j.Forced {
			k, _ := ir.ParseChannelKey(f)
			ej.Forced = append(ej.Forced, k)
		}
		out = append(out, ej)
	}
	return out
}

func (c *Config) resolve(base string) {
	abs := func(p string) string {
		if p == "" || p == ":memory:" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	c.Store = abs(c.Store)
	c.Library = abs(c.Library)
	c.Channels = abs(c.Channels)
	c.Connectors = abs(c.Connectors)
}

package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/wireplan/internal/compat"
	"github.com/roach88/wireplan/internal/config"
	"github.com/roach88/wireplan/internal/engine"
	"github.com/roach88/wireplan/internal/library"
	"github.com/roach88/wireplan/internal/store"
	"github.com/roach88/wireplan/internal/trace"
)

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh in-memory database. The engine runs
// scenario.Runs times over the same input with run ids "run-1", "run-2",
// and so on, then the trace steps run and the assertions are evaluated.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	var lib *compat.Library
	if scenario.Library != "" {
		lib, err = library.CompileString(scenario.Library)
		if err != nil {
			return nil, fmt.Errorf("failed to compile library: %w", err)
		}
	}

	runs := scenario.Runs
	if runs < 1 {
		runs = 1
	}
	cfg := config.Config{Junctions: scenario.Junctions}
	eng := engine.New(st, lib,
		engine.WithJunctions(cfg.EngineJunctions()...),
		engine.WithRunIDGenerator(engine.NewRunSequence("run")),
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))), // Suppress logs in tests
	)

	ctx := context.Background()
	in := engine.Input{Channels: scenario.channels(), Connectors: scenario.connectors()}

	result := NewResult()
	for i := 0; i < runs; i++ {
		report, err := eng.Run(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", i+1, err)
		}
		result.Reports = append(result.Reports, report)
	}

	result.Mappings, err = st.Mappings(ctx)
	if err != nil {
		return nil, err
	}

	tracer := trace.New(in.Connectors)
	for _, step := range scenario.Traces {
		result.Traces = append(result.Traces, tracer.Trace(step.From, step.To))
	}

	actx := &AssertionContext{Ctx: ctx, Store: st, Tracer: tracer}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}
	return result, nil
}

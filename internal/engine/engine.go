package engine

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/roach88/wireplan/internal/compat"
	"github.com/roach88/wireplan/internal/ir"
	"github.com/roach88/wireplan/internal/store"
	"github.com/roach88/wireplan/internal/trace"
)

// MappingStore is the durable record the engine writes its decisions to.
// *store.Store implements it.
type MappingStore interface {
	Contains(ctx context.Context, key string) (bool, error)
	Record(ctx context.Context, a, b string, meta store.Meta) (bool, error)
	RecordToJunction(ctx context.Context, key, junction string, meta store.Meta) (bool, error)
	Mappings(ctx context.Context) ([]ir.MappingRecord, error)
	Annotate(ctx context.Context, a ir.Annotation) error
	Digest(ctx context.Context) (string, error)
}

// Input is everything one run reads.
type Input struct {
	Channels   []ir.Channel
	Connectors []ir.Connector

	// Warnings raised while the tables were parsed; carried into the
	// report.
	Warnings []RowWarning
}

// Engine maps channels onto connections, one run at a time.
type Engine struct {
	store      MappingStore
	resolver   *compat.Resolver
	aggregator *Aggregator
	matcher    *Matcher
	runIDs     RunIDGenerator
	logger     *slog.Logger
	junctions  []Junction
}

// EngineOption allows configuration of engine parameters.
type EngineOption func(*Engine)

// WithJunctions configures junction aggregation.
func WithJunctions(junctions ...Junction) EngineOption {
	return func(e *Engine) {
		e.junctions = append(e.junctions, junctions...)
	}
}

// WithRunIDGenerator overrides the default UUIDv7 run identifiers.
func WithRunIDGenerator(g RunIDGenerator) EngineOption {
	return func(e *Engine) {
		e.runIDs = g
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates an Engine writing to s and judging compatibility against lib.
// A nil lib means only row-level declarations count.
func New(s MappingStore, lib *compat.Library, opts ...EngineOption) *Engine {
	e := &Engine{
		store:    s,
		resolver: compat.NewResolver(lib),
		runIDs:   UUIDv7Generator{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.aggregator = NewAggregator(e.junctions, e.logger)
	e.matcher = NewMatcher(e.resolver, e.logger)
	return e
}

// Run maps every net of in and annotates pair mappings with disconnects.
//
// Malformed rows are skipped and reported as warnings. The only errors
// returned are store failures and consistency violations (an already
// mapped channel being given a different partner), which abort the run.
// Every mapping written before the abort is complete and durable.
func (e *Engine) Run(ctx context.Context, in Input) (*Report, error) {
	runID := e.runIDs.Generate()
	report := &Report{
		RunID:       runID,
		NewMappings: []ir.MappingRecord{},
		Unmapped:    []string{},
		Warnings:    append([]RowWarning{}, in.Warnings...),
	}
	l := newLedger(e.store, runID)

	nets := e.groupByNet(in.Channels, report)
	names := make([]string, 0, len(nets))
	for n := range nets {
		names = append(names, n)
	}
	slices.Sort(names)
	report.Nets = len(names)

	e.logger.Info("mapping run started", "run_id", runID, "nets", len(names), "channels", report.Channels)

	for _, net := range names {
		channels := nets[net]
		if err := e.runNet(ctx, l, net, channels); err != nil {
			return report, err
		}
		for _, c := range channels {
			mapped, err := l.isMapped(ctx, c.Key)
			if err != nil {
				return report, err
			}
			if !mapped {
				report.Unmapped = append(report.Unmapped, c.Key.String())
			}
		}
	}
	report.NewMappings = append(report.NewMappings, l.added...)

	if len(in.Connectors) > 0 {
		anns, err := e.annotate(ctx, trace.New(in.Connectors))
		if err != nil {
			return report, err
		}
		report.Annotations = anns
	}

	digest, err := e.store.Digest(ctx)
	if err != nil {
		return report, fmt.Errorf("digest: %w", err)
	}
	report.Digest = digest

	for _, w := range report.Warnings {
		e.logger.Warn("skipped row", "source", w.Source, "line", w.Line, "reason", w.Message)
	}
	e.logger.Info("mapping run finished",
		"run_id", runID,
		"new_mappings", len(report.NewMappings),
		"unmapped", len(report.Unmapped),
		"warnings", len(report.Warnings),
	)
	return report, nil
}

// runNet applies the stages to one net in their fixed order.
func (e *Engine) runNet(ctx context.Context, l *ledger, net string, channels []ir.Channel) error {
	e.logger.Debug("mapping net", "net", net, "channels", len(channels))

	if err := forcedPairs(ctx, l, net, channels); err != nil {
		return err
	}
	if err := spliceNet(ctx, l, net, channels); err != nil {
		return err
	}
	if err := e.aggregator.AggregateNet(ctx, l, net, channels); err != nil {
		return err
	}
	return e.matcher.MatchNet(ctx, l, net, channels)
}

// forcedPairs records rows that name their partner explicitly. These are
// operator decisions and bypass type compatibility. A forced pair that
// contradicts an existing mapping is a consistency violation.
func forcedPairs(ctx context.Context, l *ledger, net string, channels []ir.Channel) error {
	for _, c := range channels {
		if c.To == nil {
			continue
		}
		if err := l.pair(ctx, net, c.Key, *c.To); err != nil {
			return err
		}
	}
	return nil
}

// groupByNet validates channel rows and buckets them by net, each bucket
// sorted by key. Rows are deduplicated by key: identical repeats are
// dropped silently, conflicting repeats keep the smallest row and warn.
func (e *Engine) groupByNet(rows []ir.Channel, report *Report) map[string][]ir.Channel {
	valid := make([]ir.Channel, 0, len(rows))
	for _, c := range rows {
		if !c.Key.Valid() {
			report.Warnings = append(report.Warnings, RowWarning{
				Source: "channels", Line: c.Line,
				Message: fmt.Sprintf("missing device or channel identifier (%q)", c.Key.String()),
			})
			continue
		}
		if strings.Contains(c.Key.Device, ir.KeySeparator) {
			report.Warnings = append(report.Warnings, RowWarning{
				Source: "channels", Line: c.Line,
				Message: fmt.Sprintf("device %q contains %q", c.Key.Device, ir.KeySeparator),
			})
			continue
		}
		if c.To != nil && !c.To.Valid() {
			report.Warnings = append(report.Warnings, RowWarning{
				Source: "channels", Line: c.Line,
				Message: fmt.Sprintf("%s: incomplete partner key %q ignored", c.Key, c.To.String()),
			})
			c.To = nil
		}
		if c.To != nil && strings.Contains(c.To.Device, ir.KeySeparator) {
			report.Warnings = append(report.Warnings, RowWarning{
				Source: "channels", Line: c.Line,
				Message: fmt.Sprintf("%s: partner device %q contains %q, partner ignored", c.Key, c.To.Device, ir.KeySeparator),
			})
			c.To = nil
		}
		if c.To != nil && *c.To == c.Key {
			report.Warnings = append(report.Warnings, RowWarning{
				Source: "channels", Line: c.Line,
				Message: fmt.Sprintf("%s: channel names itself as partner", c.Key),
			})
			c.To = nil
		}
		if c.Net == "" {
			e.logger.Debug("channel on no net", "channel", c.Key.String())
			continue
		}
		valid = append(valid, c)
	}

	slices.SortStableFunc(valid, compareRows)

	nets := make(map[string][]ir.Channel)
	for i, c := range valid {
		if i > 0 && valid[i-1].Key == c.Key {
			if compareRows(valid[i-1], c) != 0 {
				report.Warnings = append(report.Warnings, RowWarning{
					Source: "channels", Line: c.Line,
					Message: fmt.Sprintf("duplicate channel %s ignored", c.Key),
				})
			}
			continue
		}
		nets[c.Net] = append(nets[c.Net], c)
		report.Channels++
	}
	return nets
}

// compareRows orders rows by key, then by content, so deduplication keeps
// the same row whatever the input order.
func compareRows(a, b ir.Channel) int {
	if c := a.Key.Compare(b.Key); c != 0 {
		return c
	}
	return cmp.Compare(rowContent(a), rowContent(b))
}

func rowContent(c ir.Channel) string {
	var sb strings.Builder
	sb.WriteString(c.Net)
	sb.WriteByte(0)
	sb.WriteString(c.Type.Type.String())
	for _, t := range c.Type.Compatible {
		sb.WriteByte(0)
		sb.WriteString(t.String())
	}
	sb.WriteByte(0)
	if c.To != nil {
		sb.WriteString(c.To.String())
	}
	sb.WriteByte(0)
	sb.WriteString(c.Splice)
	return sb.String()
}

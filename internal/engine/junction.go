package engine

import (
	"context"
	"log/slog"
	"slices"

	"github.com/roach88/wireplan/internal/ir"
)

// Junction configures a many-to-one node such as a shared shield bus.
type Junction struct {
	// Name is the logical name of the bus, e.g. "shield".
	Name string

	// Types lists the channel types that join the junction automatically.
	Types []ir.TypeRef

	// Forced lists channels that join regardless of their type.
	Forced []ir.ChannelKey
}

// JunctionKey derives the synthetic key of a junction within a net. Every
// channel of the net that joins the junction converges on this key.
func JunctionKey(net, name string) string {
	return net + "-" + name
}

// Aggregator joins channels to junctions ahead of pairwise matching.
//
// When several junctions could claim a channel, forced membership wins over
// type membership, and within each kind the first junction in
// configuration order wins.
type Aggregator struct {
	junctions []Junction
	logger    *slog.Logger
}

// NewAggregator creates an aggregator for the given junctions.
func NewAggregator(junctions []Junction, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{junctions: slices.Clone(junctions), logger: logger}
}

// claim returns the junction that takes c, if any.
func (a *Aggregator) claim(c ir.Channel) (string, bool) {
	for _, j := range a.junctions {
		if slices.Contains(j.Forced, c.Key) {
			return j.Name, true
		}
	}
	for _, j := range a.junctions {
		if slices.ContainsFunc(j.Types, c.Type.Type.Matches) {
			return j.Name, true
		}
	}
	return "", false
}

// AggregateNet joins the eligible, unmapped channels of one net to their
// junction. channels must be sorted by key.
func (a *Aggregator) AggregateNet(ctx context.Context, l *ledger, net string, channels []ir.Channel) error {
	for _, c := range channels {
		name, ok := a.claim(c)
		if !ok {
			continue
		}
		mapped, err := l.isMapped(ctx, c.Key)
		if err != nil {
			return err
		}
		if mapped {
			continue
		}
		key := JunctionKey(net, name)
		if err := l.join(ctx, net, c.Key, key); err != nil {
			return err
		}
		a.logger.Debug("joined junction", "net", net, "channel", c.Key.String(), "junction", key)
	}
	return nil
}

// spliceNet joins channels that name a splice to "<net>-<splice>".
func spliceNet(ctx context.Context, l *ledger, net string, channels []ir.Channel) error {
	for _, c := range channels {
		if c.Splice == "" {
			continue
		}
		mapped, err := l.isMapped(ctx, c.Key)
		if err != nil {
			return err
		}
		if mapped {
			continue
		}
		if err := l.join(ctx, net, c.Key, JunctionKey(net, c.Splice)); err != nil {
			return err
		}
	}
	return nil
}

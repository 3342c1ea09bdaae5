package engine

import (
	"context"
	"log/slog"

	"github.com/roach88/wireplan/internal/compat"
	"github.com/roach88/wireplan/internal/ir"
)

// Matcher pairs the unmapped channels of a net.
//
// The policy is greedy first-fit: each unmapped channel, in (device,
// channel) order, takes the first unmapped compatible channel in the same
// order. This is not an optimal matching and is not meant to be; the fixed
// order is what makes results reproducible, so it must not change.
type Matcher struct {
	resolver *compat.Resolver
	logger   *slog.Logger
}

// NewMatcher creates a matcher using resolver for compatibility.
func NewMatcher(resolver *compat.Resolver, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{resolver: resolver, logger: logger}
}

// MatchNet pairs channels of one net. channels must be sorted by key.
// A channel without a compatible partner is left unmapped; that is not an
// error, a later run may bring its partner.
func (m *Matcher) MatchNet(ctx context.Context, l *ledger, net string, channels []ir.Channel) error {
	for i, c := range channels {
		mapped, err := l.isMapped(ctx, c.Key)
		if err != nil {
			return err
		}
		if mapped {
			continue
		}

		partner := -1
		for j, d := range channels {
			if j == i {
				continue
			}
			taken, err := l.isMapped(ctx, d.Key)
			if err != nil {
				return err
			}
			if taken {
				continue
			}
			if m.resolver.Compatible(c.Type, d.Type) {
				partner = j
				break
			}
		}

		if partner < 0 {
			m.logger.Debug("no compatible partner", "net", net, "channel", c.Key.String(), "type", c.Type.Type.String())
			continue
		}
		if err := l.pair(ctx, net, c.Key, channels[partner].Key); err != nil {
			return err
		}
		m.logger.Debug("paired", "net", net, "from", c.Key.String(), "to", channels[partner].Key.String())
	}
	return nil
}

package engine

import (
	"context"
	"fmt"

	"github.com/roach88/wireplan/internal/ir"
	"github.com/roach88/wireplan/internal/store"
)

// ledger fronts the mapping store for one run. It caches membership
// answers and collects the mappings the run actually inserted.
//
// The cache only ever grows: a key seen as mapped stays mapped, because the
// store never forgets a mapping.
type ledger struct {
	store  MappingStore
	runID  string
	mapped map[string]bool
	added  []ir.MappingRecord
}

func newLedger(s MappingStore, runID string) *ledger {
	return &ledger{store: s, runID: runID, mapped: make(map[string]bool)}
}

// isMapped reports whether key is already used by a mapping.
func (l *ledger) isMapped(ctx context.Context, key ir.ChannelKey) (bool, error) {
	k := key.String()
	if l.mapped[k] {
		return true, nil
	}
	ok, err := l.store.Contains(ctx, k)
	if err != nil {
		return false, err
	}
	if ok {
		l.mapped[k] = true
	}
	return ok, nil
}

// pair records a channel-to-channel mapping.
func (l *ledger) pair(ctx context.Context, net string, a, b ir.ChannelKey) error {
	inserted, err := l.store.Record(ctx, a.String(), b.String(), store.Meta{Net: net, RunID: l.runID})
	if err != nil {
		return fmt.Errorf("net %q: pair %s with %s: %w", net, a, b, err)
	}
	l.mapped[a.String()] = true
	l.mapped[b.String()] = true
	if inserted {
		l.added = append(l.added, ir.MappingRecord{
			From: a.String(), To: b.String(), Kind: ir.KindPair, Net: net, RunID: l.runID,
		})
	}
	return nil
}

// join records a channel-to-junction mapping.
func (l *ledger) join(ctx context.Context, net string, key ir.ChannelKey, junction string) error {
	inserted, err := l.store.RecordToJunction(ctx, key.String(), junction, store.Meta{Net: net, RunID: l.runID})
	if err != nil {
		return fmt.Errorf("net %q: join %s to %s: %w", net, key, junction, err)
	}
	l.mapped[key.String()] = true
	if inserted {
		l.added = append(l.added, ir.MappingRecord{
			From: key.String(), To: junction, Kind: ir.KindJunction, Net: net, RunID: l.runID,
		})
	}
	return nil
}

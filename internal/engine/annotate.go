package engine

import (
	"context"
	"fmt"

	"github.com/roach88/wireplan/internal/ir"
	"github.com/roach88/wireplan/internal/trace"
)

// annotate traces every pair mapping and stores the disconnects found
// between its two connectors. A pair with an endpoint on no known connector
// is stored as unfound with no disconnects, replacing whatever an earlier
// run recorded for it.
func (e *Engine) annotate(ctx context.Context, tracer *trace.Tracer) ([]ir.Annotation, error) {
	records, err := e.store.Mappings(ctx)
	if err != nil {
		return nil, fmt.Errorf("annotate: %w", err)
	}

	var out []ir.Annotation
	for _, r := range records {
		if r.Kind != ir.KindPair {
			continue
		}
		from, err := ir.ParseChannelKey(r.From)
		if err != nil {
			continue
		}
		to, err := ir.ParseChannelKey(r.To)
		if err != nil {
			continue
		}
		ann := ir.Annotation{From: r.From, To: r.To, Disconnects: []string{}}
		fromRef, fromOK := tracer.ConnectorFor(from)
		toRef, toOK := tracer.ConnectorFor(to)
		if fromOK && toOK {
			t := tracer.Trace(fromRef, toRef)
			ann.Disconnects = t.Disconnects
			ann.PathFound = t.Found
			if !t.Found {
				e.logger.Debug("no connector path", "from", r.From, "to", r.To, "from_connector", fromRef, "to_connector", toRef)
			}
		} else {
			e.logger.Debug("pair endpoint on no connector", "from", r.From, "to", r.To)
		}
		if err := e.store.Annotate(ctx, ann); err != nil {
			return nil, err
		}
		out = append(out, ann)
	}
	return out, nil
}

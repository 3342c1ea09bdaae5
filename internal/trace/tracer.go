package trace

import (
	"slices"

	"github.com/roach88/wireplan/internal/ir"
)

// Tracer answers disconnect queries over a fixed set of connectors.
// It is read-only after construction and safe for concurrent use.
type Tracer struct {
	connectors map[string]*ir.Connector // by reference designator
	byNet      map[string][]string      // net -> sorted connector refs
}

// New indexes connectors. Rows sharing a reference designator are merged:
// their nets and channels are unioned and the connector is a disconnect if
// any row says so.
func New(connectors []ir.Connector) *Tracer {
	t := &Tracer{
		connectors: make(map[string]*ir.Connector),
		byNet:      make(map[string][]string),
	}
	for _, c := range connectors {
		ref := ir.Normalize(c.Ref)
		if ref == "" {
			continue
		}
		merged, ok := t.connectors[ref]
		if !ok {
			merged = &ir.Connector{Ref: ref, Device: ir.Normalize(c.Device)}
			t.connectors[ref] = merged
		}
		merged.Disconnect = merged.Disconnect || c.Disconnect
		if merged.Device == "" {
			merged.Device = ir.Normalize(c.Device)
		}
		for _, n := range c.Nets {
			if n = ir.Normalize(n); n != "" && !slices.Contains(merged.Nets, n) {
				merged.Nets = append(merged.Nets, n)
			}
		}
		for _, ch := range c.Channels {
			if ch = ir.Normalize(ch); ch != "" && !slices.Contains(merged.Channels, ch) {
				merged.Channels = append(merged.Channels, ch)
			}
		}
	}

	for ref, c := range t.connectors {
		slices.Sort(c.Nets)
		slices.Sort(c.Channels)
		for _, n := range c.Nets {
			t.byNet[n] = append(t.byNet[n], ref)
		}
	}
	for n := range t.byNet {
		slices.Sort(t.byNet[n])
	}
	return t
}

// Connector returns the merged connector for ref.
func (t *Tracer) Connector(ref string) (ir.Connector, bool) {
	c, ok := t.connectors[ir.Normalize(ref)]
	if !ok {
		return ir.Connector{}, false
	}
	return *c, true
}

// ConnectorFor returns the connector that exposes the given channel. When
// several connectors of a device list the same channel the first in
// reference-designator order wins.
func (t *Tracer) ConnectorFor(key ir.ChannelKey) (string, bool) {
	var found string
	for ref, c := range t.connectors {
		if c.Device != key.Device || !slices.Contains(c.Channels, key.Channel) {
			continue
		}
		if found == "" || ref < found {
			found = ref
		}
	}
	return found, found != ""
}

// Trace searches for a path of nets from one connector to another and
// reports the disconnect connectors on it.
//
// On success the result lists the disconnects on the nets of the path that
// reached the target; nets explored by abandoned branches do not
// contribute. If no path exists Found is false and Disconnects holds every
// disconnect seen before the search was exhausted; callers treat that as
// "no disconnects known". Endpoints that are themselves disconnects are
// reported like any other. Unknown connectors yield an empty, unfound trace.
func (t *Tracer) Trace(from, to string) ir.DisconnectTrace {
	from, to = ir.Normalize(from), ir.Normalize(to)
	s := &search{
		t:       t,
		target:  to,
		visited: make(map[string]bool),
	}

	found := false
	if start, ok := t.connectors[from]; ok {
		found = s.enter(start)
	}

	result := ir.DisconnectTrace{
		From:        from,
		To:          to,
		Found:       found,
		VisitedNets: s.order,
	}
	if found {
		result.Disconnects = s.path
	} else {
		result.Disconnects = s.seen
	}
	if result.Disconnects == nil {
		result.Disconnects = []string{}
	}
	if result.VisitedNets == nil {
		result.VisitedNets = []string{}
	}
	return result
}

// search is the state of one Trace call.
type search struct {
	t      *Tracer
	target string

	visited map[string]bool
	order   []string // nets in visit order

	path []string // disconnects on the current branch
	seen []string // every disconnect encountered
}

// enter follows a connector onto each of its unvisited nets.
func (s *search) enter(c *ir.Connector) bool {
	for _, net := range c.Nets {
		if s.visitNet(net, c.Ref) {
			return true
		}
	}
	return false
}

// visitNet explores one net, arriving through the connector via.
func (s *search) visitNet(net, via string) bool {
	if s.visited[net] {
		return false
	}
	s.visited[net] = true
	s.order = append(s.order, net)

	mark := len(s.path)
	refs := s.t.byNet[net]
	for _, ref := range refs {
		c := s.t.connectors[ref]
		if !c.Disconnect {
			continue
		}
		if !slices.Contains(s.path, ref) {
			s.path = append(s.path, ref)
		}
		if !slices.Contains(s.seen, ref) {
			s.seen = append(s.seen, ref)
		}
	}

	if slices.Contains(refs, s.target) {
		return true
	}

	for _, ref := range refs {
		if ref == via {
			continue
		}
		if s.enter(s.t.connectors[ref]) {
			return true
		}
	}

	s.path = s.path[:mark]
	return false
}

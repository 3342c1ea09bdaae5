package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/wireplan/internal/ir"
	"github.com/roach88/wireplan/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "map.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// ch builds a channel row; compatible types follow the type name.
func ch(net, device, channel, typ string, compatible ...string) ir.Channel {
	c := ir.Channel{
		Key:  ir.NewChannelKey(device, channel),
		Net:  net,
		Type: ir.TypeDecl{Type: ir.ParseTypeRef(typ)},
	}
	for _, t := range compatible {
		c.Type.Compatible = append(c.Type.Compatible, ir.ParseTypeRef(t))
	}
	return c
}

func key(device, channel string) ir.ChannelKey {
	return ir.NewChannelKey(device, channel)
}

// pairs renders the store content as "from->to" strings in seq order.
func pairs(t *testing.T, s *store.Store) []string {
	t.Helper()
	records, err := s.Mappings(context.Background())
	require.NoError(t, err)
	out := []string{}
	for _, r := range records {
		out = append(out, fmt.Sprintf("%s->%s", r.From, r.To))
	}
	return out
}

func runIDs() *RunSequence {
	return NewRunSequence("run")
}

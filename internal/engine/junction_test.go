package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/wireplan/internal/ir"
)

func TestJunctionKey(t *testing.T) {
	assert.Equal(t, "shield_bus-shield", JunctionKey("shield_bus", "shield"))
}

func TestAggregator_ClaimPrecedence(t *testing.T) {
	a := NewAggregator([]Junction{
		{Name: "shield", Types: []ir.TypeRef{ir.ParseTypeRef("chassis")}},
		{Name: "drain", Types: []ir.TypeRef{ir.ParseTypeRef("chassis"), ir.ParseTypeRef("drain")}},
		{Name: "gnd", Forced: []ir.ChannelKey{key("U1", "sh")}},
	}, nil)

	tests := []struct {
		name    string
		channel ir.Channel
		want    string
		ok      bool
	}{
		{"first type match wins", ch("n", "U2", "sh", "chassis"), "shield", true},
		{"later junction by type", ch("n", "U2", "d", "drain"), "drain", true},
		{"forced beats type", ch("n", "U1", "sh", "chassis"), "gnd", true},
		{"library-qualified type", ch("n", "U3", "sh", "acme/chassis"), "shield", true},
		{"not eligible", ch("n", "U2", "x", "analog_in"), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := a.claim(tt.channel)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

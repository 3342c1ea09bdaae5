package ir

import (
	"cmp"
	"fmt"
	"strings"
)

// KeySeparator separates device reference and channel id in a ChannelKey's
// string form.
const KeySeparator = ":"

// ChannelKey identifies a channel by device reference designator and
// channel identifier.
type ChannelKey struct {
	Device  string `json:"device"`
	Channel string `json:"channel"`
}

// NewChannelKey builds a normalised key.
func NewChannelKey(device, channel string) ChannelKey {
	return ChannelKey{Device: Normalize(device), Channel: Normalize(channel)}
}

// ParseChannelKey parses the DEVICE:CHANNEL form. The split happens on the
// first separator, so channel ids may themselves contain ':'.
func ParseChannelKey(s string) (ChannelKey, error) {
	device, channel, ok := strings.Cut(s, KeySeparator)
	if !ok {
		return ChannelKey{}, fmt.Errorf("channel key %q: missing %q separator", s, KeySeparator)
	}
	k := NewChannelKey(device, channel)
	if !k.Valid() {
		return ChannelKey{}, fmt.Errorf("channel key %q: device and channel are required", s)
	}
	return k, nil
}

// Valid reports whether both halves of the key are present.
func (k ChannelKey) Valid() bool {
	return k.Device != "" && k.Channel != ""
}

func (k ChannelKey) String() string {
	return k.Device + KeySeparator + k.Channel
}

// Compare orders keys by device reference, then channel id. This is the
// tie-break order of the matcher and must not change.
func (k ChannelKey) Compare(o ChannelKey) int {
	if c := cmp.Compare(k.Device, o.Device); c != 0 {
		return c
	}
	return cmp.Compare(k.Channel, o.Channel)
}

// Channel is one row of the channel-to-net table.
type Channel struct {
	Key  ChannelKey `json:"key"`
	Type TypeDecl   `json:"type"`
	Net  string     `json:"net,omitempty"`

	// To pre-assigns the partner of this channel.
	To *ChannelKey `json:"to,omitempty"`

	// Splice names a per-net splice this channel joins unconditionally.
	Splice string `json:"splice,omitempty"`

	// Line is the 1-based source row, for diagnostics only.
	Line int `json:"-"`
}

package ir

// MappingKind distinguishes a channel-to-channel pair from a channel joined
// to a synthetic junction node.
type MappingKind string

const (
	KindPair     MappingKind = "pair"
	KindJunction MappingKind = "junction"
)

// MappingRecord is one durable entry of the mapping log. From is always a
// channel key; To is a channel key (pair) or a junction key (junction).
type MappingRecord struct {
	Seq   int64       `json:"seq"`
	From  string      `json:"from"`
	To    string      `json:"to"`
	Kind  MappingKind `json:"kind"`
	Net   string      `json:"net,omitempty"`
	RunID string      `json:"run_id,omitempty"`
}

// Annotation records the disconnect connectors found between the two
// channels of a pair mapping.
type Annotation struct {
	From        string   `json:"from"`
	To          string   `json:"to"`
	Disconnects []string `json:"disconnects"`
	PathFound   bool     `json:"path_found"`
}

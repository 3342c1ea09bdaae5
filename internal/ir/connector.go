package ir

// Connector is a physical mating interface on a device. A connector sits on
// one net; a mated disconnect pair is modelled as one connector present on
// the nets on both sides of the break.
type Connector struct {
	Ref        string   `json:"ref"`
	Device     string   `json:"device,omitempty"`
	Nets       []string `json:"nets"`
	Disconnect bool     `json:"disconnect"`

	// Channels lists the channel ids of Device exposed by this connector.
	Channels []string `json:"channels,omitempty"`
}

// DisconnectTrace is the result of tracing between two connectors.
type DisconnectTrace struct {
	From        string   `json:"from"`
	To          string   `json:"to"`
	Found       bool     `json:"found"`
	Disconnects []string `json:"disconnects"`
	VisitedNets []string `json:"visited_nets"`
}

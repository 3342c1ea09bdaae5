// Package harness runs wiring scenarios end to end and checks the outcome.
//
// A scenario bundles a small harness description (channels, connectors,
// an optional inline CUE library and junction config), runs the engine
// against a fresh in-memory store one or more times, and evaluates
// assertions on the resulting mapping set, unmapped channels and
// disconnect traces.
//
// # Scenario Format
//
//	name: shared_shield
//	description: "Three chassis channels join one shield junction"
//	runs: 2
//	library: |
//	  type: mic_in: compatible: ["mic_out"]
//	junctions:
//	  - name: shield
//	    types: [chassis]
//	channels:
//	  - {net: shield_bus, type: chassis, from: "U1:sh"}
//	connectors:
//	  - {ref: J1, device: U1, nets: [N1], channels: [sh]}
//	traces:
//	  - {from: J1, to: J3}
//	assertions:
//	  - type: junction
//	    junction: shield_bus-shield
//	    members: ["U1:sh", "U2:sh", "U3:sh"]
//
// # Assertion Types
//
//   - mapped: the two keys in pair are mapped to each other
//   - junction: exactly members are joined to junction
//   - unmapped: every key in keys is still unmapped after the last run
//   - mapping_count: the store holds exactly count mappings
//   - new_mappings: the last run inserted exactly count mappings
//   - disconnects: tracing from -> to finds expect (and found, if given)
//
// # Deterministic Testing
//
// Run ids are fixed ("run-1", "run-2", ...) and every run starts from an
// empty in-memory store, so results are reproducible and can be compared
// against golden files with RunWithGolden.
package harness

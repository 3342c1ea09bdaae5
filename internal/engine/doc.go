// Package engine maps the channels of each net onto pairwise and junction
// connections.
//
// ARCHITECTURE:
//
// A run is a single pass over the channel table, net by net in name order.
// Within a net the stages run in a fixed order, each skipping channels an
// earlier stage (or an earlier run) already mapped:
//
//  1. Forced pairs: rows that name their partner explicitly
//  2. Splices: rows that name a splice join "<net>-<splice>"
//  3. Junctions (Aggregator): forced keys and junction types join
//     "<net>-<junction name>"
//  4. Greedy pairing (Matcher): first compatible partner in
//     (device, channel) order
//
// After all nets, pair mappings whose channels sit on known connectors are
// annotated with the disconnect connectors between them.
//
// CRITICAL PATTERNS:
//
// Idempotence: every decision goes through the mapping store, which refuses
// duplicates, so re-running against unchanged inputs writes nothing new.
//
// Determinism: nets, channels and candidates are always visited in sorted
// order. Input row order never influences the result.
//
// The engine is single-threaded and expects to be the only writer of its
// store for the duration of a run.
package engine

// Package trace finds field-separable (disconnect) connectors between two
// connectors of a harness.
//
// The search is a depth-first walk over an implicit graph whose nodes are
// nets and whose edges are connectors: a connector present on several nets
// links them. A visited-net set bounds the walk, so cyclic net graphs
// terminate.
//
// Traversal order is fixed: a connector's nets are tried in name order and
// the connectors of a net in reference-designator order, so a trace is
// reproducible across runs.
package trace

// Package store provides SQLite-backed durable storage for channel
// mappings.
//
// The store is an append-only log with a key-membership index:
//   - mappings: one row per channel joined to a partner channel or to a
//     junction, in insertion (seq) order
//   - mapped_keys: every channel key used on either side of a mapping
//   - annotations: disconnect connectors found between the two channels of
//     a pair, recomputed each run
//
// # Guarantees
//
// At-most-once: a channel key is the "from" side of at most one mapping
// (UNIQUE(from_key)) and appears in mapped_keys at most once. Mapping an
// already-mapped key to the same partner is a no-op; mapping it to a
// different partner is a consistency violation (ErrConsistency) and is
// never written.
//
// Atomicity: both halves of a pair are written in one transaction, and the
// transaction commits before Record returns.
//
// Determinism: all reads use ORDER BY seq ASC or ORDER BY key COLLATE BINARY.
//
// # Database Configuration
//
//   - WAL mode
//   - synchronous=FULL: a returned Record survives power loss
//   - busy_timeout=5000
//   - foreign_keys=ON
//
// A missing database file is created empty. A file SQLite rejects as
// corrupt or not a database is moved aside and replaced by an empty store.
package store

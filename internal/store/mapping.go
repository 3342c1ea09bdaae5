package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/wireplan/internal/ir"
)

// Meta carries the non-identity columns of a mapping row.
type Meta struct {
	Net   string
	RunID string
}

// Contains reports whether key has been used as either side of a pair, or
// as the channel side of a junction mapping.
func (s *Store) Contains(ctx context.Context, key string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM mapped_keys WHERE key = ?`, key).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("contains %q: %w", key, err)
	}
	return true, nil
}

// Record joins two channel keys.
//
// Both keys are marked mapped and the pair is appended in a single
// transaction that has committed when Record returns. Recording a pair that
// already exists, in either order, is a no-op and returns inserted=false.
// If either key is already mapped to anything else, nothing is written and
// a *ConsistencyError is returned.
func (s *Store) Record(ctx context.Context, a, b string, meta Meta) (inserted bool, err error) {
	if a == "" || b == "" {
		return false, fmt.Errorf("record: empty key (%q, %q)", a, b)
	}
	if a == b {
		return false, fmt.Errorf("record: cannot map %q to itself", a)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("record: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	partnerA, err := partnerOf(ctx, tx, a)
	if err != nil {
		return false, fmt.Errorf("record: %w", err)
	}
	partnerB, err := partnerOf(ctx, tx, b)
	if err != nil {
		return false, fmt.Errorf("record: %w", err)
	}

	switch {
	case partnerA == b && partnerB == a:
		return false, nil
	case partnerA != "":
		return false, &ConsistencyError{Key: a, Existing: partnerA, Proposed: b}
	case partnerB != "":
		return false, &ConsistencyError{Key: b, Existing: partnerB, Proposed: a}
	}

	seq, err := insertMapping(ctx, tx, a, b, ir.KindPair, meta)
	if err != nil {
		return false, fmt.Errorf("record: %w", err)
	}
	for _, k := range []string{a, b} {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO mapped_keys (key, mapping_seq) VALUES (?, ?)`, k, seq); err != nil {
			return false, fmt.Errorf("record: mark %q: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("record: commit: %w", err)
	}
	return true, nil
}

// RecordToJunction joins a channel key to a synthetic junction key.
//
// The junction key is not subject to the at-most-once rule: any number of
// channels may join the same junction. Re-recording the same join is a
// no-op; joining an already-mapped channel elsewhere is a
// *ConsistencyError.
func (s *Store) RecordToJunction(ctx context.Context, key, junction string, meta Meta) (inserted bool, err error) {
	if key == "" || junction == "" {
		return false, fmt.Errorf("record to junction: empty key (%q, %q)", key, junction)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("record to junction: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	partner, err := partnerOf(ctx, tx, key)
	if err != nil {
		return false, fmt.Errorf("record to junction: %w", err)
	}
	switch partner {
	case junction:
		return false, nil
	case "":
	default:
		return false, &ConsistencyError{Key: key, Existing: partner, Proposed: junction}
	}

	seq, err := insertMapping(ctx, tx, key, junction, ir.KindJunction, meta)
	if err != nil {
		return false, fmt.Errorf("record to junction: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO mapped_keys (key, mapping_seq) VALUES (?, ?)`, key, seq); err != nil {
		return false, fmt.Errorf("record to junction: mark %q: %w", key, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("record to junction: commit: %w", err)
	}
	return true, nil
}

// Partner returns what key is mapped to, or "" if it is unmapped.
func (s *Store) Partner(ctx context.Context, key string) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("partner: begin tx: %w", err)
	}
	defer tx.Rollback()
	return partnerOf(ctx, tx, key)
}

// partnerOf resolves the other side of key's mapping inside tx.
func partnerOf(ctx context.Context, tx *sql.Tx, key string) (string, error) {
	var from, to string
	err := tx.QueryRowContext(ctx, `
		SELECT m.from_key, m.to_key
		FROM mapped_keys k
		JOIN mappings m ON m.seq = k.mapping_seq
		WHERE k.key = ?
	`, key).Scan(&from, &to)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("lookup %q: %w", key, err)
	}
	if from == key {
		return to, nil
	}
	return from, nil
}

func insertMapping(ctx context.Context, tx *sql.Tx, from, to string, kind ir.MappingKind, meta Meta) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO mappings (from_key, to_key, kind, net, run_id)
		VALUES (?, ?, ?, ?, ?)
	`, from, to, string(kind), meta.Net, meta.RunID)
	if err != nil {
		return 0, fmt.Errorf("insert mapping %s -> %s: %w", from, to, err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert mapping: last insert id: %w", err)
	}
	return seq, nil
}

// Mappings returns the whole log in insertion order.
// Returns an empty slice (not nil) for an empty store.
func (s *Store) Mappings(ctx context.Context) ([]ir.MappingRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, from_key, to_key, kind, net, run_id
		FROM mappings
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query mappings: %w", err)
	}
	defer rows.Close()

	records := []ir.MappingRecord{}
	for rows.Next() {
		var r ir.MappingRecord
		var kind string
		if err := rows.Scan(&r.Seq, &r.From, &r.To, &kind, &r.Net, &r.RunID); err != nil {
			return nil, fmt.Errorf("scan mapping: %w", err)
		}
		r.Kind = ir.MappingKind(kind)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mappings: %w", err)
	}
	return records, nil
}

// JunctionMembers returns the channel keys joined to junction, sorted.
func (s *Store) JunctionMembers(ctx context.Context, junction string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT from_key FROM mappings
		WHERE kind = 'junction' AND to_key = ?
		ORDER BY from_key COLLATE BINARY ASC
	`, junction)
	if err != nil {
		return nil, fmt.Errorf("query junction members: %w", err)
	}
	defer rows.Close()

	members := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan junction member: %w", err)
		}
		members = append(members, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate junction members: %w", err)
	}
	return members, nil
}

// Digest returns the content digest of the mapping set. It is unchanged by
// re-running the engine against unchanged inputs.
func (s *Store) Digest(ctx context.Context) (string, error) {
	records, err := s.Mappings(ctx)
	if err != nil {
		return "", err
	}
	return ir.MappingSetDigest(records)
}

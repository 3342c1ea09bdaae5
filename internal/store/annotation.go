package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/roach88/wireplan/internal/ir"
)

// Annotate stores the disconnect annotation for a pair, replacing any
// earlier annotation of the same pair. Annotations are derived data and
// are recomputed every run; mapping rows are never touched.
func (s *Store) Annotate(ctx context.Context, a ir.Annotation) error {
	disconnects := a.Disconnects
	if disconnects == nil {
		disconnects = []string{}
	}
	data, err := json.Marshal(disconnects)
	if err != nil {
		return fmt.Errorf("annotate: marshal disconnects: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO annotations (from_key, to_key, disconnects, path_found)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(from_key, to_key) DO UPDATE SET
			disconnects = excluded.disconnects,
			path_found  = excluded.path_found
	`, a.From, a.To, string(data), a.PathFound)
	if err != nil {
		return fmt.Errorf("annotate %s -> %s: %w", a.From, a.To, err)
	}
	return nil
}

// Annotations returns all annotations ordered by pair.
func (s *Store) Annotations(ctx context.Context) ([]ir.Annotation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT from_key, to_key, disconnects, path_found
		FROM annotations
		ORDER BY from_key COLLATE BINARY ASC, to_key COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query annotations: %w", err)
	}
	defer rows.Close()

	out := []ir.Annotation{}
	for rows.Next() {
		var a ir.Annotation
		var data string
		if err := rows.Scan(&a.From, &a.To, &data, &a.PathFound); err != nil {
			return nil, fmt.Errorf("scan annotation: %w", err)
		}
		if err := json.Unmarshal([]byte(data), &a.Disconnects); err != nil {
			return nil, fmt.Errorf("annotation %s -> %s: decode disconnects: %w", a.From, a.To, err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate annotations: %w", err)
	}
	return out, nil
}

package tables

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ListSeparator separates the elements of list-valued cells.
const ListSeparator = ";"

// sheet is a header-indexed CSV reader.
type sheet struct {
	r    *csv.Reader
	cols map[string]int
	line int
}

func newSheet(r io.Reader, required ...string) (*sheet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty table: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	s := &sheet{r: cr, cols: make(map[string]int), line: 1}
	for i, h := range header {
		s.cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	var missing []string
	for _, col := range required {
		if _, ok := s.cols[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("header missing required columns: %s", strings.Join(missing, ", "))
	}
	return s, nil
}

// next returns the next record, io.EOF at the end, or a *csv.ParseError
// for a malformed line (which callers may skip).
func (s *sheet) next() ([]string, error) {
	rec, err := s.r.Read()
	if err == nil {
		s.line, _ = s.r.FieldPos(0)
	}
	return rec, err
}

// get returns the named cell of rec, or "" when the column is absent or
// the row is short.
func (s *sheet) get(rec []string, col string) string {
	i, ok := s.cols[col]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

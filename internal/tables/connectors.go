package tables

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/roach88/wireplan/internal/engine"
	"github.com/roach88/wireplan/internal/ir"
)

// LoadConnectors reads the connector table at path.
func LoadConnectors(path string) ([]ir.Connector, []engine.RowWarning, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open connector table: %w", err)
	}
	defer f.Close()

	rows, warnings, err := ReadConnectors(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, warnings, nil
}

// ReadConnectors parses a connector table. Each row places one connector
// on one net; a connector listed on two nets bridges them. Rows sharing a
// reference designator are merged by the tracer.
func ReadConnectors(r io.Reader) ([]ir.Connector, []engine.RowWarning, error) {
	s, err := newSheet(r, "connector", "net")
	if err != nil {
		return nil, nil, fmt.Errorf("connector table: %w", err)
	}

	var rows []ir.Connector
	var warnings []engine.RowWarning
	warn := func(line int, format string, args ...any) {
		warnings = append(warnings, engine.RowWarning{Source: "connectors", Line: line, Message: fmt.Sprintf(format, args...)})
	}

	for {
		rec, err := s.next()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			warn(perr.Line, "%v", perr.Err)
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("connector table: %w", err)
		}

		ref := ir.Normalize(s.get(rec, "connector"))
		if ref == "" {
			warn(s.line, "missing connector reference")
			continue
		}

		disconnect := false
		if v := s.get(rec, "disconnect"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				warn(s.line, "connector %s: invalid disconnect flag %q", ref, v)
				continue
			}
			disconnect = b
		}

		c := ir.Connector{
			Ref:        ref,
			Device:     ir.Normalize(s.get(rec, "device")),
			Disconnect: disconnect,
			Channels:   ir.SplitList(s.get(rec, "channels"), ListSeparator),
		}
		if net := ir.Normalize(s.get(rec, "net")); net != "" {
			c.Nets = []string{net}
		}
		rows = append(rows, c)
	}
	return rows, warnings, nil
}

package tables

import (
	"cmp"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/roach88/wireplan/internal/engine"
	"github.com/roach88/wireplan/internal/ir"
)

// LoadChannels reads the channel table at path.
func LoadChannels(path string) ([]ir.Channel, []engine.RowWarning, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open channel table: %w", err)
	}
	defer f.Close()

	rows, warnings, err := ReadChannels(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, warnings, nil
}

// ReadChannels parses a channel table. Rows are returned as written;
// missing identifiers are left for the engine to report, so warnings here
// only cover lines that are not valid CSV.
func ReadChannels(r io.Reader) ([]ir.Channel, []engine.RowWarning, error) {
	s, err := newSheet(r, "net", "type", "from_device", "from_channel")
	if err != nil {
		return nil, nil, fmt.Errorf("channel table: %w", err)
	}

	var rows []ir.Channel
	var warnings []engine.RowWarning
	for {
		rec, err := s.next()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			warnings = append(warnings, engine.RowWarning{Source: "channels", Line: perr.Line, Message: perr.Err.Error()})
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("channel table: %w", err)
		}
		rows = append(rows, channelRow(s, rec))
	}
	return rows, warnings, nil
}

func channelRow(s *sheet, rec []string) ir.Channel {
	c := ir.Channel{
		Key:    ir.NewChannelKey(s.get(rec, "from_device"), s.get(rec, "from_channel")),
		Net:    ir.Normalize(s.get(rec, "net")),
		Splice: ir.Normalize(s.get(rec, "splice")),
		Line:   s.line,
	}

	c.Type.Type = ir.ParseTypeRef(s.get(rec, "type"))
	if lib := ir.Normalize(s.get(rec, "library")); lib != "" && c.Type.Type.Library == "" {
		c.Type.Type.Library = lib
	}
	for _, t := range ir.SplitList(s.get(rec, "compatible"), ListSeparator) {
		c.Type.Compatible = append(c.Type.Compatible, ir.ParseTypeRef(t))
	}
	slices.SortFunc(c.Type.Compatible, func(a, b ir.TypeRef) int {
		return cmp.Compare(a.String(), b.String())
	})
	c.Type.Compatible = slices.Compact(c.Type.Compatible)

	toDevice, toChannel := s.get(rec, "to_device"), s.get(rec, "to_channel")
	if toDevice != "" || toChannel != "" {
		to := ir.NewChannelKey(toDevice, toChannel)
		c.To = &to
	}
	return c
}

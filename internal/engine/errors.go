package engine

import (
	"fmt"
)

// RowWarning reports an input row the engine skipped. Warnings never abort
// a run.
type RowWarning struct {
	// Source names the input table ("channels", "connectors", ...).
	Source string `json:"source"`

	// Line is the 1-based row number, or 0 when unknown.
	Line int `json:"line,omitempty"`

	Message string `json:"message"`
}

func (w RowWarning) String() string {
	if w.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", w.Source, w.Line, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Source, w.Message)
}

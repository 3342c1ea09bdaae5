package engine

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// RunIDGenerator produces the identifier stamped on the mappings a run
// inserts. Mappings a run only confirms keep the id of the run that first
// wrote them.
type RunIDGenerator interface {
	Generate() string
}

// UUIDv7Generator is the default: ids sort by creation time, so the store
// shows which mapping runs came first without a separate runs table.
type UUIDv7Generator struct{}

// Generate panics only if the system entropy source fails.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// RunSequence numbers runs "<prefix>-1", "<prefix>-2", and so on. Scenario
// runs and golden files use it so that run ids recorded in the store are
// reproducible.
type RunSequence struct {
	prefix string
	n      atomic.Int64
}

// NewRunSequence starts a sequence at 1.
func NewRunSequence(prefix string) *RunSequence {
	return &RunSequence{prefix: prefix}
}

func (s *RunSequence) Generate() string {
	return s.prefix + "-" + strconv.FormatInt(s.n.Add(1), 10)
}

// RunIDFunc adapts a function to RunIDGenerator.
type RunIDFunc func() string

func (f RunIDFunc) Generate() string { return f() }

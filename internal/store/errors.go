package store

import (
	"errors"
	"fmt"
)

// ErrConsistency is returned (wrapped in a *ConsistencyError) when a write
// would give an already-mapped channel a second, different partner. It is a
// logic error in the caller: honouring it would silently drop an existing
// electrical connection.
var ErrConsistency = errors.New("mapping store consistency violation")

// ConsistencyError describes a rejected write.
type ConsistencyError struct {
	Key      string // the already-mapped channel key
	Existing string // its recorded partner or junction
	Proposed string // the partner the caller tried to record
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("%v: %s is already mapped to %s, refusing %s",
		ErrConsistency, e.Key, e.Existing, e.Proposed)
}

func (e *ConsistencyError) Unwrap() error {
	return ErrConsistency
}

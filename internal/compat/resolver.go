package compat

import (
	"github.com/roach88/wireplan/internal/ir"
)

// Resolver answers compatibility questions against a Library. The zero
// value is not usable; use NewResolver.
type Resolver struct {
	lib *Library
}

// NewResolver creates a resolver. A nil library behaves as an empty,
// non-strict one, so only row-level declarations count.
func NewResolver(lib *Library) *Resolver {
	if lib == nil {
		lib = NewLibrary()
	}
	return &Resolver{lib: lib}
}

// Compatible reports whether a and b may be joined.
//
// The rule is symmetric-OR: b must appear in the compatible set of a, or a
// in the compatible set of b, where the compatible set of a declaration is
// the union of what the library records for its type and what the row
// itself declares. Unknown or empty types fail closed; no error is ever
// returned.
func (r *Resolver) Compatible(a, b ir.TypeDecl) bool {
	if a.Type.IsZero() || b.Type.IsZero() {
		return false
	}
	if r.lib.Strict && (!r.lib.Defines(a.Type) || !r.lib.Defines(b.Type)) {
		return false
	}
	return r.declares(a, b.Type) || r.declares(b, a.Type)
}

// declares reports whether d names target as compatible.
func (r *Resolver) declares(d ir.TypeDecl, target ir.TypeRef) bool {
	for _, t := range d.Compatible {
		if t.Matches(target) {
			return true
		}
	}
	return r.lib.declares(d.Type, target)
}

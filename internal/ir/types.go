package ir

import "strings"

// TypeRef identifies a channel type, optionally qualified by the library
// (device definition source) that declared it.
type TypeRef struct {
	Library string `json:"library,omitempty"`
	Name    string `json:"name"`
}

// ParseTypeRef parses "name" or "library/name".
func ParseTypeRef(s string) TypeRef {
	s = Normalize(s)
	if lib, name, ok := strings.Cut(s, "/"); ok {
		return TypeRef{Library: Normalize(lib), Name: Normalize(name)}
	}
	return TypeRef{Name: s}
}

// IsZero reports whether the reference names no type.
func (t TypeRef) IsZero() bool {
	return t.Name == ""
}

// Matches compares two references. The library is only significant when
// both sides carry one.
func (t TypeRef) Matches(o TypeRef) bool {
	if t.Name != o.Name {
		return false
	}
	if t.Library == "" || o.Library == "" {
		return true
	}
	return t.Library == o.Library
}

func (t TypeRef) String() string {
	if t.Library == "" {
		return t.Name
	}
	return t.Library + "/" + t.Name
}

// TypeDecl is a channel's type together with the types it declares itself
// compatible with at the point of use.
type TypeDecl struct {
	Type       TypeRef   `json:"type"`
	Compatible []TypeRef `json:"compatible,omitempty"`
}

// CompatibilityRule states that From may be joined to To. Rules are
// one-directional as written; the resolver applies them in both directions.
type CompatibilityRule struct {
	From TypeRef `json:"from"`
	To   TypeRef `json:"to"`
}

package compat

import (
	"cmp"
	"slices"

	"github.com/roach88/wireplan/internal/ir"
)

// Library holds the channel types known to a run and the compatibility
// rules declared for them.
type Library struct {
	// Strict makes types that the library does not define incompatible
	// with everything, even when a channel row declares compatibility.
	Strict bool

	defs  map[string][]ir.TypeRef           // defined types by name
	rules map[string][]ir.CompatibilityRule // rules by From.Name
}

// NewLibrary returns an empty, non-strict library.
func NewLibrary() *Library {
	return &Library{
		defs:  make(map[string][]ir.TypeRef),
		rules: make(map[string][]ir.CompatibilityRule),
	}
}

// Define registers a type. Defining the same type twice is harmless.
func (l *Library) Define(t ir.TypeRef) {
	if t.IsZero() || slices.Contains(l.defs[t.Name], t) {
		return
	}
	l.defs[t.Name] = append(l.defs[t.Name], t)
}

// Add registers a one-directional rule. Both ends become defined types.
func (l *Library) Add(rule ir.CompatibilityRule) {
	if rule.From.IsZero() || rule.To.IsZero() {
		return
	}
	l.Define(rule.From)
	l.Define(rule.To)
	if slices.Contains(l.rules[rule.From.Name], rule) {
		return
	}
	l.rules[rule.From.Name] = append(l.rules[rule.From.Name], rule)
}

// Defines reports whether the library knows the type.
func (l *Library) Defines(t ir.TypeRef) bool {
	return slices.ContainsFunc(l.defs[t.Name], t.Matches)
}

// declares reports whether a library rule lets from join to.
func (l *Library) declares(from, to ir.TypeRef) bool {
	for _, r := range l.rules[from.Name] {
		if r.From.Matches(from) && r.To.Matches(to) {
			return true
		}
	}
	return false
}

// Rules returns every rule in a deterministic order.
func (l *Library) Rules() []ir.CompatibilityRule {
	var out []ir.CompatibilityRule
	for _, rs := range l.rules {
		out = append(out, rs...)
	}
	slices.SortFunc(out, func(a, b ir.CompatibilityRule) int {
		if c := compareRef(a.From, b.From); c != 0 {
			return c
		}
		return compareRef(a.To, b.To)
	})
	return out
}

// Types returns the defined types sorted by name, then library.
func (l *Library) Types() []ir.TypeRef {
	var out []ir.TypeRef
	for _, defs := range l.defs {
		out = append(out, defs...)
	}
	slices.SortFunc(out, compareRef)
	return out
}

func compareRef(a, b ir.TypeRef) int {
	if c := cmp.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return cmp.Compare(a.Library, b.Library)
}

package harness

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/wireplan/internal/ir"
	"github.com/roach88/wireplan/internal/store"
	"github.com/roach88/wireplan/internal/trace"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// AssertionContext provides what assertions need beyond the result.
type AssertionContext struct {
	Ctx    context.Context
	Store  *store.Store
	Tracer *trace.Tracer
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertMapped:
			err = assertMapped(result.Mappings, a)
		case AssertJunction:
			err = assertJunction(result.Mappings, a)
		case AssertUnmapped:
			err = assertUnmapped(actx, a)
		case AssertMappingCount:
			err = assertCount(AssertMappingCount, len(result.Mappings), a.Count)
		case AssertNewMappings:
			n := 0
			if last := result.Last(); last != nil {
				n = len(last.NewMappings)
			}
			err = assertCount(AssertNewMappings, n, a.Count)
		case AssertDisconnects:
			err = assertDisconnects(actx, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			errors = append(errors, fmt.Sprintf("assertion[%d]: %v", i, err))
		}
	}
	return errors
}

// assertMapped checks that the pair is recorded, in either order.
func assertMapped(records []ir.MappingRecord, a Assertion) error {
	x, y := a.Pair[0], a.Pair[1]
	for _, r := range records {
		if r.Kind != ir.KindPair {
			continue
		}
		if (r.From == x && r.To == y) || (r.From == y && r.To == x) {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertMapped,
		Expected: fmt.Sprintf("%s <-> %s", x, y),
		Actual:   describe(records),
	}
}

// assertJunction checks the exact membership of a junction.
func assertJunction(records []ir.MappingRecord, a Assertion) error {
	var members []string
	for _, r := range records {
		if r.Kind == ir.KindJunction && r.To == a.Junction {
			members = append(members, r.From)
		}
	}
	slices.Sort(members)
	want := slices.Clone(a.Members)
	slices.Sort(want)
	if slices.Equal(members, want) {
		return nil
	}
	return &AssertionError{
		Type:     AssertJunction,
		Expected: fmt.Sprintf("%s members %v", a.Junction, want),
		Actual:   fmt.Sprintf("%v", members),
	}
}

func assertUnmapped(actx *AssertionContext, a Assertion) error {
	if actx == nil || actx.Store == nil {
		return fmt.Errorf("unmapped requires database context")
	}
	for _, k := range a.Keys {
		partner, err := actx.Store.Partner(actx.Ctx, k)
		if err != nil {
			return err
		}
		if partner != "" {
			return &AssertionError{
				Type:     AssertUnmapped,
				Expected: fmt.Sprintf("%s unmapped", k),
				Actual:   fmt.Sprintf("%s mapped to %s", k, partner),
			}
		}
	}
	return nil
}

func assertCount(kind string, got, want int) error {
	if got == want {
		return nil
	}
	return &AssertionError{
		Type:     kind,
		Expected: fmt.Sprintf("%d", want),
		Actual:   fmt.Sprintf("%d", got),
	}
}

func assertDisconnects(actx *AssertionContext, a Assertion) error {
	if actx == nil || actx.Tracer == nil {
		return fmt.Errorf("disconnects requires connectors")
	}
	got := actx.Tracer.Trace(a.From, a.To)
	want := a.Expect
	if want == nil {
		want = []string{}
	}
	if !slices.Equal(got.Disconnects, want) || (a.Found != nil && *a.Found != got.Found) {
		expFound := "any"
		if a.Found != nil {
			expFound = fmt.Sprintf("%t", *a.Found)
		}
		return &AssertionError{
			Type:     AssertDisconnects,
			Expected: fmt.Sprintf("%s -> %s: %v (found=%s)", a.From, a.To, want, expFound),
			Actual:   fmt.Sprintf("%v (found=%t, visited=%v)", got.Disconnects, got.Found, got.VisitedNets),
		}
	}
	return nil
}

func describe(records []ir.MappingRecord) string {
	if len(records) == 0 {
		return "no mappings"
	}
	parts := make([]string, len(records))
	for i, r := range records {
		parts[i] = r.From + " -> " + r.To
	}
	return strings.Join(parts, ", ")
}

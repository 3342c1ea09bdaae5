package library

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/wireplan/internal/compat"
	"github.com/roach88/wireplan/internal/ir"
)

// CompileError reports an invalid library declaration.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// CompileString compiles CUE source text. Used for inline libraries in
// scenarios and tests.
func CompileString(src string) (*compat.Library, error) {
	v := cuecontext.New().CompileString(src, cue.Filename("library.cue"))
	return Compile(v)
}

// Compile converts a built CUE value into a library.
func Compile(v cue.Value) (*compat.Library, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	lib := compat.NewLibrary()

	defaultLib := ""
	if libVal := v.LookupPath(cue.ParsePath("library")); libVal.Exists() {
		s, err := libVal.String()
		if err != nil {
			return nil, &CompileError{Field: "library", Message: "must be a string", Pos: libVal.Pos()}
		}
		defaultLib = ir.Normalize(s)
	}

	if strictVal := v.LookupPath(cue.ParsePath("strict")); strictVal.Exists() {
		b, err := strictVal.Bool()
		if err != nil {
			return nil, &CompileError{Field: "strict", Message: "must be a bool", Pos: strictVal.Pos()}
		}
		lib.Strict = b
	}

	typesVal := v.LookupPath(cue.ParsePath("type"))
	if !typesVal.Exists() {
		return lib, nil
	}
	iter, err := typesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		name := ir.Normalize(iter.Selector().Unquoted())
		if err := compileType(lib, name, defaultLib, iter.Value()); err != nil {
			return nil, err
		}
	}
	return lib, nil
}

// compileType adds one type entry and its rules to lib.
func compileType(lib *compat.Library, name, defaultLib string, v cue.Value) error {
	field := "type." + name
	if name == "" {
		return &CompileError{Field: "type", Message: "type name must not be empty", Pos: v.Pos()}
	}

	ref := ir.TypeRef{Library: defaultLib, Name: name}
	if libVal := v.LookupPath(cue.ParsePath("library")); libVal.Exists() {
		s, err := libVal.String()
		if err != nil {
			return &CompileError{Field: field + ".library", Message: "must be a string", Pos: libVal.Pos()}
		}
		ref.Library = ir.Normalize(s)
	}
	lib.Define(ref)

	compVal := v.LookupPath(cue.ParsePath("compatible"))
	if !compVal.Exists() {
		return nil
	}
	list, err := compVal.List()
	if err != nil {
		return &CompileError{Field: field + ".compatible", Message: "must be a list of strings", Pos: compVal.Pos()}
	}
	for list.Next() {
		s, err := list.Value().String()
		if err != nil {
			return &CompileError{Field: field + ".compatible", Message: "entries must be strings", Pos: list.Value().Pos()}
		}
		to := ir.ParseTypeRef(s)
		if to.IsZero() {
			return &CompileError{Field: field + ".compatible", Message: "empty type name", Pos: list.Value().Pos()}
		}
		lib.Add(ir.CompatibilityRule{From: ref, To: to})
	}
	return nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}
	return err
}

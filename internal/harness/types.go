package harness

import (
	"github.com/roach88/wireplan/internal/engine"
	"github.com/roach88/wireplan/internal/ir"
)

// Result holds the outcome of a scenario execution.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool

	// Reports holds one engine report per run, in run order.
	Reports []*engine.Report

	// Mappings is the store content after the last run.
	Mappings []ir.MappingRecord

	// Traces holds the results of the scenario's trace steps.
	Traces []ir.DisconnectTrace

	// Errors lists failed assertions.
	Errors []string
}

// NewResult creates a passing, empty result.
func NewResult() *Result {
	return &Result{Pass: true, Errors: []string{}}
}

// AddError records a failure.
func (r *Result) AddError(err string) {
	r.Pass = false
	r.Errors = append(r.Errors, err)
}

// Last returns the report of the final run.
func (r *Result) Last() *engine.Report {
	if len(r.Reports) == 0 {
		return nil
	}
	return r.Reports[len(r.Reports)-1]
}

package engine

import "github.com/roach88/wireplan/internal/ir"

// Report summarises one run.
type Report struct {
	RunID    string `json:"run_id"`
	Nets     int    `json:"nets"`
	Channels int    `json:"channels"`

	// NewMappings lists the mappings this run inserted, in insertion
	// order. Empty when the run found nothing new to do.
	NewMappings []ir.MappingRecord `json:"new_mappings"`

	// Unmapped lists channels still without a partner after the run.
	Unmapped []string `json:"unmapped"`

	Warnings    []RowWarning    `json:"warnings"`
	Annotations []ir.Annotation `json:"annotations,omitempty"`

	// Digest identifies the store's mapping set after the run.
	Digest string `json:"digest"`
}

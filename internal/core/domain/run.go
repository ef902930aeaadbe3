package domain

import "time"

// RunKind distinguishes history entries.
type RunKind string

const (
	// RunKindExport is an export of a record range.
	RunKindExport RunKind = "export"
	// RunKindReconcile is a reconciliation of one label.
	RunKindReconcile RunKind = "reconcile"
)

// Run is a history entry for one export or one label reconciliation.
type Run struct {
	// ID is a random UUID assigned when the run starts.
	ID string

	Kind       RunKind
	Collection string

	// Label is empty for exports.
	Label string

	// File is the export file written or the result file read.
	File string

	// Processed counts rows written (export) or merged (reconcile).
	Processed int

	// Rejected counts quarantined rows. Always zero for exports.
	Rejected int

	StartedAt  time.Time
	FinishedAt time.Time

	// Err holds the failure message, empty on success.
	Err string
}

// Succeeded reports whether the run finished without a fatal error.
func (r *Run) Succeeded() bool {
	return r.Err == ""
}

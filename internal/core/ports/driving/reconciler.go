package driving

import (
	"context"

	"github.com/custodia-labs/labelsync/internal/core/domain"
)

// Reconciler merges classifier result files into record annotations.
type Reconciler interface {
	// ReconcileLabel merges the result file of one label.
	ReconcileLabel(ctx context.Context, collection string, label domain.Label, baseName string) (*LabelResult, error)

	// ReconcileAll merges every recognised label in fixed order.
	// Label failures are joined and returned after all labels were attempted.
	ReconcileAll(ctx context.Context, collection, baseName string) ([]LabelResult, error)
}

// LabelResult summarises the reconciliation of one label.
type LabelResult struct {
	Label domain.Label

	// Path is the result file read.
	Path string

	// Merged counts rows written to the store.
	Merged int

	// Rejected counts rows appended to the quarantine log.
	Rejected int

	// Err is set when the label failed as a whole.
	Err error
}

package driven

import (
	"context"

	"github.com/custodia-labs/labelsync/internal/core/domain"
)

// RunStore persists the export and reconciliation history.
type RunStore interface {
	// Save stores a finished run.
	Save(ctx context.Context, run domain.Run) error

	// List returns the most recent runs, newest first.
	List(ctx context.Context, limit int) ([]domain.Run, error)
}

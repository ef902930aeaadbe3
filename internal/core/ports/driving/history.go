package driving

import (
	"context"

	"github.com/custodia-labs/labelsync/internal/core/domain"
)

// HistoryService lists past runs.
type HistoryService interface {
	// Recent returns up to limit runs, newest first.
	Recent(ctx context.Context, limit int) ([]domain.Run, error)
}

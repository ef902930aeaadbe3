package driving

import (
	"context"
	"io"

	"github.com/custodia-labs/labelsync/internal/core/domain"
)

// RecordService seeds and inspects the record store.
type RecordService interface {
	// Load inserts one record per JSON line ({"text": "..."}) read from r.
	// Returns the number of records inserted before any failure.
	Load(ctx context.Context, collection string, r io.Reader) (int, error)

	// Get retrieves a record by its native id.
	Get(ctx context.Context, collection string, id int64) (*domain.Record, error)
}

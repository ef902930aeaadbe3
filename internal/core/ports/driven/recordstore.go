package driven

import (
	"context"

	"github.com/custodia-labs/labelsync/internal/core/domain"
)

// RecordStore is the document store holding analysable records.
// Enumeration order is ascending native id so that [offset, offset+limit)
// windows are stable across repeated queries.
type RecordStore interface {
	// Count returns the number of records in a collection.
	Count(ctx context.Context, collection string) (int, error)

	// Scan calls fn for up to limit records starting at offset, in id order.
	// Iteration stops at the first error returned by fn.
	Scan(ctx context.Context, collection string, offset, limit int, fn func(domain.Record) error) error

	// Get retrieves a record by native id.
	// Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, collection string, id int64) (*domain.Record, error)

	// Insert adds a record and returns its native id.
	Insert(ctx context.Context, collection, text string) (int64, error)

	// SetAnnotation sets annotations[label] on a record, leaving other
	// labels and fields untouched. Reports false if no record has that id.
	SetAnnotation(ctx context.Context, collection string, id int64, label domain.Label, value bool) (bool, error)
}

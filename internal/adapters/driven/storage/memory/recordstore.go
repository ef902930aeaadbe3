package memory

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/custodia-labs/labelsync/internal/core/domain"
	"github.com/custodia-labs/labelsync/internal/core/ports/driven"
)

// Ensure RecordStore implements the interface.
var _ driven.RecordStore = (*RecordStore)(nil)

// RecordStore is an in-memory implementation of driven.RecordStore.
type RecordStore struct {
	mu      sync.RWMutex
	nextID  int64
	records map[string]map[int64]domain.Record
}

// NewRecordStore creates a new in-memory record store.
func NewRecordStore() *RecordStore {
	return &RecordStore{
		nextID:  1,
		records: make(map[string]map[int64]domain.Record),
	}
}

// Count returns the number of records in a collection.
func (s *RecordStore) Count(_ context.Context, collection string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records[collection]), nil
}

// Scan calls fn for up to limit records starting at offset, in id order.
func (s *RecordStore) Scan(
	_ context.Context,
	collection string,
	offset, limit int,
	fn func(domain.Record) error,
) error {
	s.mu.RLock()
	ids := make([]int64, 0, len(s.records[collection]))
	for id := range s.records[collection] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	if offset >= len(ids) || limit <= 0 {
		s.mu.RUnlock()
		return nil
	}
	ids = ids[offset:min(offset+limit, len(ids))]
	batch := make([]domain.Record, 0, len(ids))
	for _, id := range ids {
		batch = append(batch, clone(s.records[collection][id]))
	}
	s.mu.RUnlock()

	for _, r := range batch {
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

// Get retrieves a record by native id.
func (s *RecordStore) Get(_ context.Context, collection string, id int64) (*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[collection][id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	r = clone(r)
	return &r, nil
}

// Insert adds a record and returns its native id.
func (s *RecordStore) Insert(_ context.Context, collection, text string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.records[collection] == nil {
		s.records[collection] = make(map[int64]domain.Record)
	}
	id := s.nextID
	s.nextID++
	s.records[collection][id] = domain.Record{ID: id, Collection: collection, Text: text}
	return id, nil
}

// SetAnnotation sets annotations[label] on a record.
func (s *RecordStore) SetAnnotation(
	_ context.Context,
	collection string,
	id int64,
	label domain.Label,
	value bool,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[collection][id]
	if !ok {
		return false, nil
	}
	r = clone(r)
	if r.Annotations == nil {
		r.Annotations = make(map[string]bool)
	}
	r.Annotations[label.String()] = value
	s.records[collection][id] = r
	return true, nil
}

func clone(r domain.Record) domain.Record {
	if r.Annotations != nil {
		r.Annotations = maps.Clone(r.Annotations)
	}
	return r
}

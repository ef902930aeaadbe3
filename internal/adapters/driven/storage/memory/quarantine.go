package memory

import (
	"sync"

	"github.com/custodia-labs/labelsync/internal/core/domain"
	"github.com/custodia-labs/labelsync/internal/core/ports/driven"
)

// Ensure QuarantineLog implements the interface.
var _ driven.QuarantineLog = (*QuarantineLog)(nil)

// QuarantineLog is an in-memory implementation of driven.QuarantineLog for testing.
type QuarantineLog struct {
	mu   sync.RWMutex
	rows map[domain.Label][]string
}

// NewQuarantineLog creates a new in-memory quarantine log.
func NewQuarantineLog() *QuarantineLog {
	return &QuarantineLog{rows: make(map[domain.Label][]string)}
}

// Append adds one raw row to the label's log.
func (q *QuarantineLog) Append(label domain.Label, raw string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.rows[label] = append(q.rows[label], raw)
	return nil
}

// Path returns a pseudo path for the label's log.
func (q *QuarantineLog) Path(label domain.Label) string {
	return "memory://" + domain.QuarantineFileName(label)
}

// Rows returns a copy of the rows quarantined for a label.
func (q *QuarantineLog) Rows(label domain.Label) []string {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return append([]string(nil), q.rows[label]...)
}

// Package quarantine provides a file-based driven.QuarantineLog.
//
// Each label has its own plain-text log named failures_<label> holding one
// rejected raw row per line. Logs are only ever appended to.
package quarantine

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/labelsync/internal/core/domain"
	"github.com/custodia-labs/labelsync/internal/core/ports/driven"
)

// Ensure FileLog implements the interface.
var _ driven.QuarantineLog = (*FileLog)(nil)

// FileLog appends rejected rows to per-label files in a directory.
type FileLog struct {
	mu  sync.Mutex
	dir string
}

// NewFileLog creates a quarantine log rooted at dir.
// An empty dir means the working directory.
func NewFileLog(dir string) (*FileLog, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("creating quarantine directory: %w", err)
		}
	}
	return &FileLog{dir: dir}, nil
}

// Append writes raw and a newline to the label's log and syncs it to disk.
func (l *FileLog) Append(label domain.Label, raw string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.Path(label), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
	if err != nil {
		return fmt.Errorf("opening quarantine log: %w", err)
	}
	if _, err := f.WriteString(raw + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("writing quarantine log: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("syncing quarantine log: %w", err)
	}
	return f.Close()
}

// Path returns the log file for a label.
func (l *FileLog) Path(label domain.Label) string {
	return filepath.Join(l.dir, domain.QuarantineFileName(label))
}

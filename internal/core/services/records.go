package services

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/custodia-labs/labelsync/internal/core/domain"
	"github.com/custodia-labs/labelsync/internal/core/ports/driven"
	"github.com/custodia-labs/labelsync/internal/core/ports/driving"
	"github.com/custodia-labs/labelsync/internal/logger"
)

// Ensure RecordService implements the interface.
var _ driving.RecordService = (*RecordService)(nil)

// ErrInvalidRecordLine indicates a JSON line that is not a record.
var ErrInvalidRecordLine = errors.New("invalid record line")

// RecordService loads and inspects records.
type RecordService struct {
	records  driven.RecordStore
	progress driven.Progress
}

// NewRecordService creates a new record service.
func NewRecordService(records driven.RecordStore, progress driven.Progress) *RecordService {
	if progress == nil {
		progress = driven.NopProgress{}
	}
	return &RecordService{records: records, progress: progress}
}

// recordLine is one JSON line of a load file.
type recordLine struct {
	Text *string `json:"text"`
}

// Load inserts every record in r, stopping at the first bad line.
func (s *RecordService) Load(ctx context.Context, collection string, r io.Reader) (int, error) {
	if s.records == nil {
		return 0, domain.ErrSourceUnavailable
	}

	task := s.progress.Start("load", -1)
	defer task.Done()

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxRowSize)

	loaded := 0
	for lineNo := 1; sc.Scan(); lineNo++ {
		if err := ctx.Err(); err != nil {
			return loaded, err
		}
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}

		var rec recordLine
		if err := json.Unmarshal(line, &rec); err != nil {
			return loaded, fmt.Errorf("%w: line %d: %w", ErrInvalidRecordLine, lineNo, err)
		}
		if rec.Text == nil {
			return loaded, fmt.Errorf("%w: line %d: missing text", ErrInvalidRecordLine, lineNo)
		}

		if _, err := s.records.Insert(ctx, collection, *rec.Text); err != nil {
			return loaded, fmt.Errorf("%w: insert line %d: %w", domain.ErrSourceUnavailable, lineNo, err)
		}
		loaded++
		task.Increment()
	}
	if err := sc.Err(); err != nil {
		return loaded, fmt.Errorf("%w: %w", domain.ErrIOFailure, err)
	}

	logger.Debug("Loaded %d records into %s", loaded, collection)
	return loaded, nil
}

// Get retrieves a record by native id.
func (s *RecordService) Get(ctx context.Context, collection string, id int64) (*domain.Record, error) {
	if s.records == nil {
		return nil, domain.ErrSourceUnavailable
	}
	return s.records.Get(ctx, collection, id)
}

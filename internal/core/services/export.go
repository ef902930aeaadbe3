package services

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/labelsync/internal/core/domain"
	"github.com/custodia-labs/labelsync/internal/core/ports/driven"
	"github.com/custodia-labs/labelsync/internal/core/ports/driving"
	"github.com/custodia-labs/labelsync/internal/logger"
)

// Ensure ExportService implements the interface.
var _ driving.Exporter = (*ExportService)(nil)

// ExportService writes record ranges into interchange files.
type ExportService struct {
	records  driven.RecordStore
	runs     driven.RunStore
	progress driven.Progress
}

// NewExportService creates a new export service.
// The runs store and progress are optional.
func NewExportService(records driven.RecordStore, runs driven.RunStore, progress driven.Progress) *ExportService {
	if progress == nil {
		progress = driven.NopProgress{}
	}
	return &ExportService{
		records:  records,
		runs:     runs,
		progress: progress,
	}
}

// Export writes records [Start, min(End, count)) of a collection in id order.
// A range that selects nothing still produces a header-only file.
// On failure the file is left as written so far.
func (s *ExportService) Export(ctx context.Context, req driving.ExportRequest) (*driving.ExportResult, error) {
	if err := domain.ValidateIdentifier(req.Identifier); err != nil {
		return nil, err
	}
	if req.Start < 0 {
		return nil, fmt.Errorf("%w: start %d is negative", domain.ErrInvalidRange, req.Start)
	}
	if s.records == nil {
		return nil, fmt.Errorf("%w: record store not configured", domain.ErrSourceUnavailable)
	}

	logger.Section("Export")
	run := startRun(domain.RunKindExport, req.Collection, "")

	result := &driving.ExportResult{
		Path: filepath.Join(req.Dir, domain.ExportFileName(req.BaseName, req.Start, req.End)),
	}
	err := s.export(ctx, req, result)

	run.File = result.Path
	run.Processed = result.Written
	finishRun(ctx, s.runs, run, err)

	if err != nil {
		return nil, err
	}
	logger.Info("Exported %d records to %s", result.Written, result.Path)
	return result, nil
}

func (s *ExportService) export(ctx context.Context, req driving.ExportRequest, result *driving.ExportResult) (err error) {
	total, err := s.records.Count(ctx, req.Collection)
	if err != nil {
		return fmt.Errorf("%w: count records: %w", domain.ErrSourceUnavailable, err)
	}
	end := min(req.End, total)
	logger.Debug("Collection %q has %d records, effective range [%d, %d)", req.Collection, total, req.Start, end)

	f, err := os.Create(result.Path)
	if err != nil {
		return fmt.Errorf("%w: create %s: %w", domain.ErrIOFailure, result.Path, err)
	}
	w := bufio.NewWriter(f)
	defer func() {
		flushErr := w.Flush()
		closeErr := f.Close()
		if err == nil {
			if flushErr = errors.Join(flushErr, closeErr); flushErr != nil {
				err = fmt.Errorf("%w: write %s: %w", domain.ErrIOFailure, result.Path, flushErr)
			}
		}
	}()

	if _, err := w.WriteString(domain.InterchangeHeader + "\n"); err != nil {
		return fmt.Errorf("%w: write header: %w", domain.ErrIOFailure, err)
	}

	if req.Start >= end {
		return nil
	}

	task := s.progress.Start(filepath.Base(result.Path), end-req.Start)
	defer task.Done()

	err = s.records.Scan(ctx, req.Collection, req.Start, end-req.Start, func(r domain.Record) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := w.WriteString(domain.FormatInterchangeRow(req.Identifier, &r)); err != nil {
			return fmt.Errorf("%w: write record %d: %w", domain.ErrIOFailure, r.ID, err)
		}
		result.Written++
		task.Increment()
		return nil
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrIOFailure), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: scan records: %w", domain.ErrSourceUnavailable, err)
	}
}

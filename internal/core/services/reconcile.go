package services

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/labelsync/internal/core/domain"
	"github.com/custodia-labs/labelsync/internal/core/ports/driven"
	"github.com/custodia-labs/labelsync/internal/core/ports/driving"
	"github.com/custodia-labs/labelsync/internal/logger"
)

// Ensure ReconcileService implements the interface.
var _ driving.Reconciler = (*ReconcileService)(nil)

// maxRowSize is the longest result line that is parsed. Longer lines are
// quarantined whole.
const maxRowSize = 1 << 20

// ReconcileOptions tunes a ReconcileService.
type ReconcileOptions struct {
	// ResultsDir is where classification_* directories are found.
	ResultsDir string

	// Workers is how many labels ReconcileAll merges at once. Values below 1 mean 1.
	Workers int

	// MaxWritesPerSecond throttles record updates. Zero disables throttling.
	MaxWritesPerSecond float64
}

// ReconcileService merges classifier verdicts into record annotations.
type ReconcileService struct {
	records    driven.RecordStore
	quarantine driven.QuarantineLog
	runs       driven.RunStore
	progress   driven.Progress
	resultsDir string
	workers    int
	limiter    *rate.Limiter
}

// NewReconcileService creates a new reconcile service.
// The runs store and progress are optional.
func NewReconcileService(
	records driven.RecordStore,
	quarantine driven.QuarantineLog,
	runs driven.RunStore,
	progress driven.Progress,
	opts ReconcileOptions,
) *ReconcileService {
	if progress == nil {
		progress = driven.NopProgress{}
	}
	s := &ReconcileService{
		records:    records,
		quarantine: quarantine,
		runs:       runs,
		progress:   progress,
		resultsDir: opts.ResultsDir,
		workers:    max(opts.Workers, 1),
	}
	if opts.MaxWritesPerSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(opts.MaxWritesPerSecond), 1)
	}
	return s
}

// ReconcileLabel merges one label's result file into the store.
// The returned result is never nil and carries partial counts on failure.
func (s *ReconcileService) ReconcileLabel(
	ctx context.Context,
	collection string,
	label domain.Label,
	baseName string,
) (*driving.LabelResult, error) {
	result := &driving.LabelResult{Label: label}
	if _, err := domain.ParseLabel(label.String()); err != nil {
		return result, err
	}
	if s.records == nil || s.quarantine == nil {
		return result, fmt.Errorf("%w: reconcile service not configured", domain.ErrSourceUnavailable)
	}

	result.Path = domain.ResultFilePath(s.resultsDir, baseName, label)
	logger.Section("Reconcile " + label.String())
	logger.Debug("Reading %s", result.Path)

	run := startRun(domain.RunKindReconcile, collection, label.String())
	err := s.reconcile(ctx, collection, label, result)

	run.File = result.Path
	run.Processed = result.Merged
	run.Rejected = result.Rejected
	finishRun(ctx, s.runs, run, err)

	if err != nil {
		return result, err
	}
	logger.Info("Label %s: %d merged, %d quarantined", label, result.Merged, result.Rejected)
	return result, nil
}

func (s *ReconcileService) reconcile(
	ctx context.Context,
	collection string,
	label domain.Label,
	result *driving.LabelResult,
) error {
	f, err := os.Open(result.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", domain.ErrResultFileNotFound, result.Path)
		}
		return fmt.Errorf("%w: open %s: %w", domain.ErrIOFailure, result.Path, err)
	}
	defer f.Close()

	task := s.progress.Start(label.String(), -1)
	defer task.Done()

	r := bufio.NewReader(f)
	for lineNo := 0; ; lineNo++ {
		line, readErr := r.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return fmt.Errorf("%w: read %s: %w", domain.ErrIOFailure, result.Path, readErr)
		}
		// Line 0 is the header.
		if lineNo > 0 && line != "" {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := s.handleLine(ctx, collection, label, line, result); err != nil {
				return err
			}
			task.Increment()
		}
		if readErr != nil {
			return nil
		}
	}
}

// handleLine merges or quarantines one physical line of a result file.
// Only store and quarantine failures are returned.
func (s *ReconcileService) handleLine(
	ctx context.Context,
	collection string,
	label domain.Label,
	line string,
	result *driving.LabelResult,
) error {
	raw := strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
	if raw == "" {
		return nil
	}

	err := s.applyRow(ctx, collection, label, raw)
	switch {
	case err == nil:
		result.Merged++
	case domain.IsRowError(err):
		if qerr := s.quarantine.Append(label, raw); qerr != nil {
			return fmt.Errorf("%w: quarantine row: %w", domain.ErrIOFailure, qerr)
		}
		result.Rejected++
		logger.L().Debug("row quarantined",
			zap.String("label", label.String()),
			zap.Int("bytes", len(raw)),
			zap.Error(err))
	default:
		return err
	}
	return nil
}

// applyRow validates one result row and merges its verdict.
// Row-level failures satisfy domain.IsRowError.
func (s *ReconcileService) applyRow(ctx context.Context, collection string, label domain.Label, raw string) error {
	fields, err := parseResultRow(raw)
	if err != nil {
		return err
	}
	value, err := domain.ParseVerdict(fields[1])
	if err != nil {
		return err
	}
	id, err := domain.UntagID(fields[0])
	if err != nil {
		return err
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	found, err := s.records.SetAnnotation(ctx, collection, id, label, value)
	if err != nil {
		return fmt.Errorf("%w: update record %d: %w", domain.ErrSourceUnavailable, id, err)
	}
	if !found {
		return fmt.Errorf("%w: %d", domain.ErrRecordNotFound, id)
	}
	return nil
}

// parseResultRow splits one comma-delimited line, honouring CSV quoting.
// Lines longer than maxRowSize are malformed.
func parseResultRow(raw string) ([]string, error) {
	if len(raw) > maxRowSize {
		return nil, fmt.Errorf("%w: row of %d bytes exceeds %d", domain.ErrMalformedRow, len(raw), maxRowSize)
	}
	r := csv.NewReader(strings.NewReader(raw))
	r.Comma = domain.ResultDelimiter
	r.FieldsPerRecord = -1

	fields, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedRow, err)
	}
	if len(fields) != 2 {
		return nil, fmt.Errorf("%w: expected 2 fields, got %d", domain.ErrMalformedRow, len(fields))
	}
	return fields, nil
}

// ReconcileAll merges every recognised label in fixed order.
// One label failing never stops the others; failures are joined.
// Labels run concurrently when more than one worker is configured since
// they touch disjoint annotation keys and separate quarantine logs.
func (s *ReconcileService) ReconcileAll(ctx context.Context, collection, baseName string) ([]driving.LabelResult, error) {
	labels := domain.Labels()
	results := make([]driving.LabelResult, len(labels))

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, label := range labels {
		g.Go(func() error {
			res, err := s.ReconcileLabel(ctx, collection, label, baseName)
			res.Err = err
			results[i] = *res
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			logger.Warn("Label %s failed: %v", r.Label, r.Err)
			errs = append(errs, fmt.Errorf("reconcile %s: %w", r.Label, r.Err))
		}
	}
	return results, errors.Join(errs...)
}

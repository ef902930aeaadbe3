package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/labelsync/internal/core/domain"
	"github.com/custodia-labs/labelsync/internal/core/ports/driven"
	"github.com/custodia-labs/labelsync/internal/core/ports/driving"
	"github.com/custodia-labs/labelsync/internal/logger"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService exposes past export and reconciliation runs.
type HistoryService struct {
	runs driven.RunStore
}

// NewHistoryService creates a new history service.
func NewHistoryService(runs driven.RunStore) *HistoryService {
	return &HistoryService{runs: runs}
}

// Recent returns up to limit runs, newest first.
func (s *HistoryService) Recent(ctx context.Context, limit int) ([]domain.Run, error) {
	if s.runs == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	return s.runs.List(ctx, limit)
}

func startRun(kind domain.RunKind, collection, label string) *domain.Run {
	return &domain.Run{
		ID:         uuid.New().String(),
		Kind:       kind,
		Collection: collection,
		Label:      label,
		StartedAt:  time.Now().UTC(),
	}
}

// finishRun stamps and stores a run. History is best effort.
func finishRun(ctx context.Context, runs driven.RunStore, run *domain.Run, err error) {
	run.FinishedAt = time.Now().UTC()
	if err != nil {
		run.Err = err.Error()
	}
	if runs == nil {
		return
	}
	if saveErr := runs.Save(context.WithoutCancel(ctx), *run); saveErr != nil {
		logger.Warn("Failed to record %s run %s: %v", run.Kind, run.ID, saveErr)
	}
}

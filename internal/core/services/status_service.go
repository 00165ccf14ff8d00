package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type statusService struct {
	elections ports.ElectionRepository
	metrics   ports.Metrics
	now       Clock
	logger    *slog.Logger
}

func NewStatusService(elections ports.ElectionRepository, metrics ports.Metrics, now Clock, logger *slog.Logger) ports.StatusService {
	return &statusService{
		elections: elections,
		metrics:   metrics,
		now:       now,
		logger:    logger,
	}
}

func (s *statusService) Sweep(ctx context.Context) (int, error) {
	elections, err := s.elections.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch all elections: %w", err)
	}

	now := s.now()
	updated := 0
	for _, e := range elections {
		status := domain.ResolveStatus(e.ElectionDate, now)
		if status == e.Status {
			continue
		}
		if err := s.elections.UpdateStatus(ctx, e.ID, status); err != nil {
			return updated, fmt.Errorf("failed to update status of election %s: %w", e.ID, err)
		}
		s.logger.Debug("election status changed", "election_id", e.ID, "from", e.Status, "to", status)
		updated++
	}

	s.metrics.StatusesUpdated(updated)
	s.logger.Info("election status sweep finished", "elections", len(elections), "updated", updated, "today", domain.CalendarDay(now).Format(domain.DateLayout))
	return updated, nil
}

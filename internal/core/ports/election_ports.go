package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
)

type ElectionRepository interface {
	Save(ctx context.Context, election *domain.Election) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Election, error)
	GetByDate(ctx context.Context, date time.Time) (*domain.Election, error)
	GetAll(ctx context.Context) ([]*domain.Election, error)
	// ExistsOnDate reports whether an election other than excludeID is
	// scheduled on date. Pass uuid.Nil to check every election.
	ExistsOnDate(ctx context.Context, date time.Time, excludeID uuid.UUID) (bool, error)
	Update(ctx context.Context, election *domain.Election) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ElectionStatus) error
	// Delete removes the election only when no candidate or vote refers to
	// it, returning domain.ErrElectionNotEmpty otherwise.
	Delete(ctx context.Context, id uuid.UUID) error
}

type CreateElectionInput struct {
	Title        string
	ElectionDate string
}

type UpdateElectionInput struct {
	Title        *string
	ElectionDate *string
}

type ElectionService interface {
	Create(ctx context.Context, input CreateElectionInput) (*domain.Election, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.ElectionDetail, error)
	List(ctx context.Context) ([]*domain.Election, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateElectionInput) (*domain.Election, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Current(ctx context.Context) (*domain.Election, error)
}

type StatusService interface {
	// Sweep persists the resolved status of every election whose stored
	// status disagrees and returns how many were rewritten.
	Sweep(ctx context.Context) (int, error)
}

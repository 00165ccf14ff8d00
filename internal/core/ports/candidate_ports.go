package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
)

type CandidateRepository interface {
	Save(ctx context.Context, candidate *domain.Candidate) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Candidate, error)
	// ListByElection returns candidates in creation order.
	ListByElection(ctx context.Context, electionID uuid.UUID) ([]*domain.Candidate, error)
	List(ctx context.Context) ([]*domain.Candidate, error)
	NumberTaken(ctx context.Context, electionID uuid.UUID, number int, excludeID uuid.UUID) (bool, error)
	Update(ctx context.Context, candidate *domain.Candidate) error
	// Delete removes the candidate and its votes in one transaction.
	Delete(ctx context.Context, id uuid.UUID) error
}

type CreateCandidateInput struct {
	ElectionID uuid.UUID
	Number     int
	Name       string
	Vision     string
	Mission    string
	ImageURL   string
}

type UpdateCandidateInput struct {
	Number   *int
	Name     *string
	Vision   *string
	Mission  *string
	ImageURL *string
}

type CandidateService interface {
	Create(ctx context.Context, input CreateCandidateInput) (*domain.Candidate, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Candidate, error)
	List(ctx context.Context, electionID *uuid.UUID) ([]*domain.Candidate, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateCandidateInput) (*domain.Candidate, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

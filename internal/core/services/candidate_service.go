package services

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

var candidateNamePattern = regexp.MustCompile(`^[a-zA-Z\s&]+$`)

type candidateService struct {
	elections  ports.ElectionRepository
	candidates ports.CandidateRepository
	now        Clock
}

func NewCandidateService(elections ports.ElectionRepository, candidates ports.CandidateRepository, now Clock) ports.CandidateService {
	return &candidateService{
		elections:  elections,
		candidates: candidates,
		now:        now,
	}
}

func (s *candidateService) Create(ctx context.Context, input ports.CreateCandidateInput) (*domain.Candidate, error) {
	if input.ElectionID == uuid.Nil {
		return nil, domain.ValidationError("election_id is required")
	}
	if _, err := s.elections.GetByID(ctx, input.ElectionID); err != nil {
		return nil, err
	}

	now := s.now()
	candidate := &domain.Candidate{
		ID:         uuid.New(),
		ElectionID: input.ElectionID,
		Number:     input.Number,
		Name:       strings.TrimSpace(input.Name),
		Vision:     strings.TrimSpace(input.Vision),
		Mission:    strings.TrimSpace(input.Mission),
		ImageURL:   strings.TrimSpace(input.ImageURL),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := validateCandidate(candidate); err != nil {
		return nil, err
	}

	taken, err := s.candidates.NumberTaken(ctx, candidate.ElectionID, candidate.Number, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrDuplicateCandidateNumber
	}

	if err := s.candidates.Save(ctx, candidate); err != nil {
		return nil, err
	}
	return candidate, nil
}

func (s *candidateService) Get(ctx context.Context, id uuid.UUID) (*domain.Candidate, error) {
	return s.candidates.GetByID(ctx, id)
}

func (s *candidateService) List(ctx context.Context, electionID *uuid.UUID) ([]*domain.Candidate, error) {
	if electionID == nil {
		return s.candidates.List(ctx)
	}
	if _, err := s.elections.GetByID(ctx, *electionID); err != nil {
		return nil, err
	}
	return s.candidates.ListByElection(ctx, *electionID)
}

func (s *candidateService) Update(ctx context.Context, id uuid.UUID, input ports.UpdateCandidateInput) (*domain.Candidate, error) {
	candidate, err := s.candidates.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	numberChanged := input.Number != nil && *input.Number != candidate.Number
	if input.Number != nil {
		candidate.Number = *input.Number
	}
	if input.Name != nil {
		candidate.Name = strings.TrimSpace(*input.Name)
	}
	if input.Vision != nil {
		candidate.Vision = strings.TrimSpace(*input.Vision)
	}
	if input.Mission != nil {
		candidate.Mission = strings.TrimSpace(*input.Mission)
	}
	if input.ImageURL != nil {
		candidate.ImageURL = strings.TrimSpace(*input.ImageURL)
	}
	if err := validateCandidate(candidate); err != nil {
		return nil, err
	}

	if numberChanged {
		taken, err := s.candidates.NumberTaken(ctx, candidate.ElectionID, candidate.Number, candidate.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.ErrDuplicateCandidateNumber
		}
	}

	candidate.UpdatedAt = s.now()
	if err := s.candidates.Update(ctx, candidate); err != nil {
		return nil, err
	}
	return candidate, nil
}

func (s *candidateService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.candidates.Delete(ctx, id)
}

func validateCandidate(c *domain.Candidate) error {
	if c.Number <= 0 {
		return domain.ValidationError("number must be a positive integer")
	}
	if c.Name == "" {
		return domain.ValidationError("name is required")
	}
	if !candidateNamePattern.MatchString(c.Name) {
		return domain.ValidationError("name may only contain letters, spaces and '&'")
	}
	if c.Vision == "" {
		return domain.ValidationError("vision is required")
	}
	if c.Mission == "" {
		return domain.ValidationError("mission is required")
	}
	if c.ImageURL == "" {
		return domain.ValidationError("image_url is required")
	}
	return nil
}

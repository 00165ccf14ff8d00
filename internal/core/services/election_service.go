package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type electionService struct {
	elections  ports.ElectionRepository
	candidates ports.CandidateRepository
	tally      ports.TallyRepository
	now        Clock
}

func NewElectionService(elections ports.ElectionRepository, candidates ports.CandidateRepository, tally ports.TallyRepository, now Clock) ports.ElectionService {
	return &electionService{
		elections:  elections,
		candidates: candidates,
		tally:      tally,
		now:        now,
	}
}

func (s *electionService) Create(ctx context.Context, input ports.CreateElectionInput) (*domain.Election, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.ValidationError("title is required")
	}
	if input.ElectionDate == "" {
		return nil, domain.ValidationError("election_date is required")
	}
	date, err := domain.ParseDate(input.ElectionDate)
	if err != nil {
		return nil, err
	}

	taken, err := s.elections.ExistsOnDate(ctx, date, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrDuplicateElectionDate
	}

	now := s.now()
	election := &domain.Election{
		ID:           uuid.New(),
		Title:        title,
		ElectionDate: date,
		Status:       domain.ResolveStatus(date, now),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The unique index on election_date backs the check above.
	if err := s.elections.Save(ctx, election); err != nil {
		return nil, err
	}

	return election, nil
}

func (s *electionService) Get(ctx context.Context, id uuid.UUID) (*domain.ElectionDetail, error) {
	election, err := s.elections.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.project(ctx, election); err != nil {
		return nil, err
	}

	candidates, err := s.candidates.ListByElection(ctx, id)
	if err != nil {
		return nil, err
	}
	counts, err := s.tally.CountVotesByCandidate(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &domain.ElectionDetail{
		Election:   *election,
		Candidates: make([]domain.CandidateTally, 0, len(candidates)),
	}
	for _, c := range candidates {
		detail.Candidates = append(detail.Candidates, domain.CandidateTally{
			CandidateID: c.ID,
			Number:      c.Number,
			Name:        c.Name,
			ImageURL:    c.ImageURL,
			VoteCount:   counts[c.ID],
		})
	}

	return detail, nil
}

func (s *electionService) List(ctx context.Context) ([]*domain.Election, error) {
	elections, err := s.elections.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range elections {
		if err := s.project(ctx, e); err != nil {
			return nil, err
		}
	}
	return elections, nil
}

func (s *electionService) Update(ctx context.Context, id uuid.UUID, input ports.UpdateElectionInput) (*domain.Election, error) {
	election, err := s.elections.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, domain.ValidationError("title is required")
		}
		election.Title = title
	}

	if input.ElectionDate != nil {
		date, err := domain.ParseDate(*input.ElectionDate)
		if err != nil {
			return nil, err
		}
		if !date.Equal(domain.CalendarDay(election.ElectionDate)) {
			taken, err := s.elections.ExistsOnDate(ctx, date, election.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, domain.ErrDuplicateElectionDate
			}
		}
		election.ElectionDate = date
	}

	now := s.now()
	election.Status = domain.ResolveStatus(election.ElectionDate, now)
	election.UpdatedAt = now

	if err := s.elections.Update(ctx, election); err != nil {
		return nil, err
	}
	if err := s.project(ctx, election); err != nil {
		return nil, err
	}

	return election, nil
}

func (s *electionService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.elections.Delete(ctx, id)
}

func (s *electionService) Current(ctx context.Context) (*domain.Election, error) {
	election, err := s.elections.GetByDate(ctx, domain.CalendarDay(s.now()))
	if err != nil {
		if errors.Is(err, domain.ErrElectionNotFound) {
			return nil, domain.ErrNoActiveElection
		}
		return nil, err
	}
	if err := s.project(ctx, election); err != nil {
		return nil, err
	}
	return election, nil
}

// project fills the derived fields of an election from live data. Stored
// counters and status are never trusted on read.
func (s *electionService) project(ctx context.Context, election *domain.Election) error {
	election.Status = domain.ResolveStatus(election.ElectionDate, s.now())

	candidates, err := s.tally.CountCandidates(ctx, election.ID)
	if err != nil {
		return fmt.Errorf("failed to count candidates: %w", err)
	}
	voters, err := s.tally.CountVoters(ctx, election.ID)
	if err != nil {
		return fmt.Errorf("failed to count voters: %w", err)
	}

	election.CandidateCount = candidates
	election.VoterCount = voters
	return nil
}


package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type tallyService struct {
	elections  ports.ElectionRepository
	candidates ports.CandidateRepository
	tally      ports.TallyRepository
	now        Clock
}

func NewTallyService(elections ports.ElectionRepository, candidates ports.CandidateRepository, tally ports.TallyRepository, now Clock) ports.TallyService {
	return &tallyService{
		elections:  elections,
		candidates: candidates,
		tally:      tally,
		now:        now,
	}
}

func (s *tallyService) ComputeSnapshot(ctx context.Context, electionID uuid.UUID) (*domain.ElectionSnapshot, error) {
	election, err := s.elections.GetByID(ctx, electionID)
	if err != nil {
		return nil, err
	}
	candidates, err := s.candidates.ListByElection(ctx, electionID)
	if err != nil {
		return nil, err
	}
	counts, err := s.tally.CountVotesByCandidate(ctx, electionID)
	if err != nil {
		return nil, err
	}
	voters, err := s.tally.CountVoters(ctx, electionID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	snapshot := &domain.ElectionSnapshot{
		ElectionID:   election.ID,
		Title:        election.Title,
		ElectionDate: election.ElectionDate.Format(domain.DateLayout),
		Status:       domain.ResolveStatus(election.ElectionDate, now),
		VoterCount:   voters,
		Candidates:   make([]domain.CandidateTally, 0, len(candidates)),
		Timestamp:    now,
	}
	for _, c := range candidates {
		snapshot.Candidates = append(snapshot.Candidates, domain.CandidateTally{
			CandidateID: c.ID,
			Number:      c.Number,
			Name:        c.Name,
			ImageURL:    c.ImageURL,
			VoteCount:   counts[c.ID],
		})
	}

	return snapshot, nil
}

// ComputeHourly buckets the votes cast on day by wall-clock hour in the
// server's location. Only the calendar date of day is used.
func (s *tallyService) ComputeHourly(ctx context.Context, electionID uuid.UUID, day time.Time) (*domain.HourlySnapshot, error) {
	election, err := s.elections.GetByID(ctx, electionID)
	if err != nil {
		return nil, err
	}
	candidates, err := s.candidates.ListByElection(ctx, electionID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	loc := now.Location()
	y, m, d := day.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, loc)
	to := time.Date(y, m, d+1, 0, 0, 0, 0, loc)

	times, err := s.tally.ListVoteTimes(ctx, election.ID, from, to)
	if err != nil {
		return nil, err
	}

	return &domain.HourlySnapshot{
		ElectionID: election.ID,
		Date:       from.Format(domain.DateLayout),
		Candidates: bucketByHour(candidates, times, from, to),
		Timestamp:  now,
	}, nil
}

// bucketByHour counts each vote in [from, to) into the bucket of its local
// hour. A vote stamped exactly on an hour boundary belongs to the later hour.
func bucketByHour(candidates []*domain.Candidate, times []domain.VoteTime, from, to time.Time) []domain.CandidateHourly {
	out := make([]domain.CandidateHourly, len(candidates))
	index := make(map[uuid.UUID]int, len(candidates))
	for i, c := range candidates {
		out[i] = domain.CandidateHourly{
			CandidateID: c.ID,
			Number:      c.Number,
			Name:        c.Name,
		}
		index[c.ID] = i
	}

	for _, vt := range times {
		if vt.CreatedAt.Before(from) || !vt.CreatedAt.Before(to) {
			continue
		}
		i, ok := index[vt.CandidateID]
		if !ok {
			continue
		}
		hour := vt.CreatedAt.In(from.Location()).Hour()
		out[i].Hourly[hour]++
		out[i].Total++
	}

	return out
}

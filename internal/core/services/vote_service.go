package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"math"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

// Vote outcomes reported to metrics.
const (
	VoteAccepted = "accepted"
	VoteRejected = "rejected"
	VoteConflict = "conflict"
	VoteFailed   = "error"
)

type voteService struct {
	elections  ports.ElectionRepository
	candidates ports.CandidateRepository
	votes      ports.VoteRepository
	tally      ports.TallyRepository
	metrics    ports.Metrics
	hashSecret []byte
	now        Clock
}

func NewVoteService(
	elections ports.ElectionRepository,
	candidates ports.CandidateRepository,
	votes ports.VoteRepository,
	tally ports.TallyRepository,
	metrics ports.Metrics,
	hashSecret string,
	now Clock,
) ports.VoteService {
	return &voteService{
		elections:  elections,
		candidates: candidates,
		votes:      votes,
		tally:      tally,
		metrics:    metrics,
		hashSecret: []byte(hashSecret),
		now:        now,
	}
}

func (s *voteService) CastVote(ctx context.Context, voterID, candidateID uuid.UUID) (*domain.Vote, error) {
	vote, err := s.castVote(ctx, voterID, candidateID)
	switch {
	case err == nil:
		s.metrics.VoteCast(VoteAccepted)
	case errors.Is(err, domain.ErrConflict):
		s.metrics.VoteCast(VoteConflict)
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidState), errors.Is(err, domain.ErrValidation):
		s.metrics.VoteCast(VoteRejected)
	default:
		s.metrics.VoteCast(VoteFailed)
	}
	return vote, err
}

func (s *voteService) castVote(ctx context.Context, voterID, candidateID uuid.UUID) (*domain.Vote, error) {
	if voterID == uuid.Nil {
		return nil, domain.ValidationError("voter is required")
	}
	if candidateID == uuid.Nil {
		return nil, domain.ValidationError("candidate_id is required")
	}

	candidate, err := s.candidates.GetByID(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	election, err := s.elections.GetByID(ctx, candidate.ElectionID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if domain.ResolveStatus(election.ElectionDate, now) != domain.StatusActive {
		return nil, domain.ErrElectionNotActive
	}

	// Fast path for a friendly error. The unique (user_id, election_id)
	// constraint is what actually stops concurrent double votes.
	hasVoted, err := s.votes.HasVoted(ctx, election.ID, voterID)
	if err != nil {
		return nil, err
	}
	if hasVoted {
		return nil, domain.ErrAlreadyVoted
	}

	vote := &domain.Vote{
		ID:          uuid.New(),
		UserID:      voterID,
		CandidateID: candidate.ID,
		ElectionID:  election.ID,
		CreatedAt:   now,
	}
	if err := s.votes.SaveVote(ctx, vote); err != nil {
		return nil, err
	}

	return vote, nil
}

func (s *voteService) HasVoted(ctx context.Context, voterID, electionID uuid.UUID) (*domain.VoteReceipt, error) {
	if _, err := s.elections.GetByID(ctx, electionID); err != nil {
		return nil, err
	}

	vote, err := s.votes.GetByVoter(ctx, electionID, voterID)
	if err != nil {
		return nil, err
	}
	if vote == nil {
		return &domain.VoteReceipt{HasVoted: false}, nil
	}

	candidate, err := s.candidates.GetByID(ctx, vote.CandidateID)
	if err != nil {
		return nil, err
	}

	return &domain.VoteReceipt{
		HasVoted:     true,
		CandidateRef: s.candidateRef(candidate.Number),
	}, nil
}

func (s *voteService) TallyResults(ctx context.Context, electionID uuid.UUID) (*domain.ElectionResults, error) {
	election, err := s.elections.GetByID(ctx, electionID)
	if err != nil {
		return nil, err
	}
	if domain.ResolveStatus(election.ElectionDate, s.now()) != domain.StatusClosed {
		return nil, domain.ErrElectionNotClosed
	}

	candidates, err := s.candidates.ListByElection(ctx, electionID)
	if err != nil {
		return nil, err
	}
	counts, err := s.tally.CountVotesByCandidate(ctx, electionID)
	if err != nil {
		return nil, err
	}
	total, err := s.tally.CountVotes(ctx, electionID)
	if err != nil {
		return nil, err
	}

	return &domain.ElectionResults{
		ElectionID:    election.ID,
		ElectionTitle: election.Title,
		TotalVotes:    total,
		Results:       rankResults(candidates, counts, total),
	}, nil
}

// rankResults orders candidates by votes, highest first. Candidates arrive
// in creation order and the sort is stable, so ties keep that order.
func rankResults(candidates []*domain.Candidate, counts map[uuid.UUID]int64, total int64) []domain.CandidateResult {
	results := make([]domain.CandidateResult, 0, len(candidates))
	for _, c := range candidates {
		votes := counts[c.ID]
		results = append(results, domain.CandidateResult{
			CandidateID:     c.ID,
			CandidateNumber: c.Number,
			CandidateName:   c.Name,
			Votes:           votes,
			Percentage:      percentage(votes, total),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Votes > results[j].Votes
	})
	return results
}

func percentage(votes, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(votes)/float64(total)*100*100) / 100
}

func (s *voteService) candidateRef(number int) string {
	mac := hmac.New(sha256.New, s.hashSecret)
	mac.Write([]byte(strconv.Itoa(number)))
	return hex.EncodeToString(mac.Sum(nil))
}

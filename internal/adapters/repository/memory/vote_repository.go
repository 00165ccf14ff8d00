package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
)

type voteRepository struct {
	s *Store
}

// SaveVote checks (user, election) uniqueness under the write lock, the same
// guarantee the unique index gives in Postgres.
func (r *voteRepository) SaveVote(ctx context.Context, vote *domain.Vote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.candidateIndex(vote.CandidateID) < 0 {
		return domain.ErrCandidateNotFound
	}
	if _, ok := r.s.elections[vote.ElectionID]; !ok {
		return domain.ErrElectionNotFound
	}
	for _, v := range r.s.votes {
		if v.UserID == vote.UserID && v.ElectionID == vote.ElectionID {
			return domain.ErrAlreadyVoted
		}
	}
	r.s.votes = append(r.s.votes, *vote)
	return nil
}

func (r *voteRepository) GetByVoter(ctx context.Context, electionID, userID uuid.UUID) (*domain.Vote, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, v := range r.s.votes {
		if v.UserID == userID && v.ElectionID == electionID {
			v := v
			return &v, nil
		}
	}
	return nil, nil
}

func (r *voteRepository) HasVoted(ctx context.Context, electionID, userID uuid.UUID) (bool, error) {
	vote, err := r.GetByVoter(ctx, electionID, userID)
	return vote != nil, err
}

type tallyRepository struct {
	s *Store
}

func (r *tallyRepository) CountCandidates(ctx context.Context, electionID uuid.UUID) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, c := range r.s.candidates {
		if c.ElectionID == electionID {
			n++
		}
	}
	return n, nil
}

func (r *tallyRepository) CountVoters(ctx context.Context, electionID uuid.UUID) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	voters := make(map[uuid.UUID]struct{})
	for _, v := range r.s.votes {
		if v.ElectionID == electionID {
			voters[v.UserID] = struct{}{}
		}
	}
	return int64(len(voters)), nil
}

func (r *tallyRepository) CountVotes(ctx context.Context, electionID uuid.UUID) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, v := range r.s.votes {
		if v.ElectionID == electionID {
			n++
		}
	}
	return n, nil
}

func (r *tallyRepository) CountVotesByCandidate(ctx context.Context, electionID uuid.UUID) (map[uuid.UUID]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	counts := make(map[uuid.UUID]int64)
	for _, v := range r.s.votes {
		if v.ElectionID == electionID {
			counts[v.CandidateID]++
		}
	}
	return counts, nil
}

func (r *tallyRepository) ListVoteTimes(ctx context.Context, electionID uuid.UUID, from, to time.Time) ([]domain.VoteTime, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []domain.VoteTime
	for _, v := range r.s.votes {
		if v.ElectionID != electionID || v.CreatedAt.Before(from) || !v.CreatedAt.Before(to) {
			continue
		}
		out = append(out, domain.VoteTime{CandidateID: v.CandidateID, CreatedAt: v.CreatedAt})
	}
	return out, nil
}

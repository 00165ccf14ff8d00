package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
)

type VoteRepository interface {
	// SaveVote must reject a second vote for the same (user, election) with
	// domain.ErrAlreadyVoted, even when the caller's pre-check raced.
	SaveVote(ctx context.Context, vote *domain.Vote) error
	GetByVoter(ctx context.Context, electionID, userID uuid.UUID) (*domain.Vote, error)
	HasVoted(ctx context.Context, electionID, userID uuid.UUID) (bool, error)
}

// TallyRepository answers the count queries behind snapshots. Nothing here
// is cached: every call reads committed votes.
type TallyRepository interface {
	CountCandidates(ctx context.Context, electionID uuid.UUID) (int64, error)
	CountVoters(ctx context.Context, electionID uuid.UUID) (int64, error)
	CountVotes(ctx context.Context, electionID uuid.UUID) (int64, error)
	CountVotesByCandidate(ctx context.Context, electionID uuid.UUID) (map[uuid.UUID]int64, error)
	// ListVoteTimes returns votes of the election created in [from, to).
	ListVoteTimes(ctx context.Context, electionID uuid.UUID, from, to time.Time) ([]domain.VoteTime, error)
}

type VoteService interface {
	CastVote(ctx context.Context, voterID, candidateID uuid.UUID) (*domain.Vote, error)
	HasVoted(ctx context.Context, voterID, electionID uuid.UUID) (*domain.VoteReceipt, error)
	TallyResults(ctx context.Context, electionID uuid.UUID) (*domain.ElectionResults, error)
}

type TallyService interface {
	ComputeSnapshot(ctx context.Context, electionID uuid.UUID) (*domain.ElectionSnapshot, error)
	ComputeHourly(ctx context.Context, electionID uuid.UUID, day time.Time) (*domain.HourlySnapshot, error)
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{
		db: db,
	}
}

func (r *voteRepository) SaveVote(ctx context.Context, vote *domain.Vote) error {
	query := `
		INSERT INTO votes (id, user_id, candidate_id, election_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, vote.ID, vote.UserID, vote.CandidateID, vote.ElectionID, vote.CreatedAt)
	if err != nil {
		if mapped := conflictError(err); mapped != nil {
			return mapped
		}
		if mapped := missingReferenceError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to save vote: %w", err)
	}
	return nil
}

func (r *voteRepository) GetByVoter(ctx context.Context, electionID, userID uuid.UUID) (*domain.Vote, error) {
	query := `
		SELECT id, user_id, candidate_id, election_id, created_at
		FROM votes
		WHERE election_id = $1 AND user_id = $2
	`
	var v domain.Vote
	err := r.db.QueryRowContext(ctx, query, electionID, userID).Scan(
		&v.ID, &v.UserID, &v.CandidateID, &v.ElectionID, &v.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get vote: %w", err)
	}
	return &v, nil
}

func (r *voteRepository) HasVoted(ctx context.Context, electionID, userID uuid.UUID) (bool, error) {
	query := `SELECT 1 FROM votes WHERE election_id = $1 AND user_id = $2 LIMIT 1`
	var exists int
	err := r.db.QueryRowContext(ctx, query, electionID, userID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check existing vote: %w", err)
	}
	return true, nil
}

type tallyRepository struct {
	db *sql.DB
}

func NewTallyRepository(db *sql.DB) ports.TallyRepository {
	return &tallyRepository{
		db: db,
	}
}

func (r *tallyRepository) CountCandidates(ctx context.Context, electionID uuid.UUID) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM candidates WHERE election_id = $1`, electionID)
}

func (r *tallyRepository) CountVoters(ctx context.Context, electionID uuid.UUID) (int64, error) {
	return r.count(ctx, `SELECT COUNT(DISTINCT user_id) FROM votes WHERE election_id = $1`, electionID)
}

func (r *tallyRepository) CountVotes(ctx context.Context, electionID uuid.UUID) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM votes WHERE election_id = $1`, electionID)
}

func (r *tallyRepository) CountVotesByCandidate(ctx context.Context, electionID uuid.UUID) (map[uuid.UUID]int64, error) {
	query := `
		SELECT candidate_id, COUNT(*)
		FROM votes
		WHERE election_id = $1
		GROUP BY candidate_id
	`
	rows, err := r.db.QueryContext(ctx, query, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int64)
	for rows.Next() {
		var id uuid.UUID
		var n int64
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("failed to scan vote count: %w", err)
		}
		counts[id] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vote counts: %w", err)
	}
	return counts, nil
}

func (r *tallyRepository) ListVoteTimes(ctx context.Context, electionID uuid.UUID, from, to time.Time) ([]domain.VoteTime, error) {
	query := `
		SELECT candidate_id, created_at
		FROM votes
		WHERE election_id = $1 AND created_at >= $2 AND created_at < $3
	`
	rows, err := r.db.QueryContext(ctx, query, electionID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list vote times: %w", err)
	}
	defer rows.Close()

	var out []domain.VoteTime
	for rows.Next() {
		var vt domain.VoteTime
		if err := rows.Scan(&vt.CandidateID, &vt.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vote time: %w", err)
		}
		out = append(out, vt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vote times: %w", err)
	}
	return out, nil
}

func (r *tallyRepository) count(ctx context.Context, query string, electionID uuid.UUID) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, query, electionID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count: %w", err)
	}
	return n, nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type candidateRepository struct {
	db *sql.DB
}

func NewCandidateRepository(db *sql.DB) ports.CandidateRepository {
	return &candidateRepository{
		db: db,
	}
}

const candidateColumns = `id, election_id, number, name, vision, mission, image_url, created_at, updated_at`

func (r *candidateRepository) Save(ctx context.Context, candidate *domain.Candidate) error {
	query := `
		INSERT INTO candidates (id, election_id, number, name, vision, mission, image_url, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		candidate.ID, candidate.ElectionID, candidate.Number, candidate.Name,
		candidate.Vision, candidate.Mission, candidate.ImageURL, candidate.UpdatedAt,
	).Scan(&candidate.CreatedAt)
	if err != nil {
		if mapped := conflictError(err); mapped != nil {
			return mapped
		}
		if mapped := missingReferenceError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to insert candidate: %w", err)
	}
	return nil
}

func (r *candidateRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE id = $1`
	candidate, err := scanCandidate(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCandidateNotFound
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	return candidate, nil
}

func (r *candidateRepository) ListByElection(ctx context.Context, electionID uuid.UUID) ([]*domain.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE election_id = $1 ORDER BY created_at, id`
	return r.list(ctx, query, electionID)
}

func (r *candidateRepository) List(ctx context.Context) ([]*domain.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates ORDER BY created_at, id`
	return r.list(ctx, query)
}

func (r *candidateRepository) NumberTaken(ctx context.Context, electionID uuid.UUID, number int, excludeID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM candidates WHERE election_id = $1 AND number = $2 AND id <> $3)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, electionID, number, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check candidate number: %w", err)
	}
	return exists, nil
}

func (r *candidateRepository) Update(ctx context.Context, candidate *domain.Candidate) error {
	query := `
		UPDATE candidates
		SET number = $2, name = $3, vision = $4, mission = $5, image_url = $6, updated_at = $7
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		candidate.ID, candidate.Number, candidate.Name, candidate.Vision,
		candidate.Mission, candidate.ImageURL, candidate.UpdatedAt,
	)
	if err != nil {
		if mapped := conflictError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to update candidate: %w", err)
	}
	return expectAffected(res, domain.ErrCandidateNotFound)
}

func (r *candidateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM votes WHERE candidate_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete candidate votes: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete candidate: %w", err)
	}
	if err := expectAffected(res, domain.ErrCandidateNotFound); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *candidateRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Candidate, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	var candidates []*domain.Candidate
	for rows.Next() {
		candidate, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, candidate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating candidates: %w", err)
	}
	return candidates, nil
}

func scanCandidate(row scanner) (*domain.Candidate, error) {
	var c domain.Candidate
	err := row.Scan(&c.ID, &c.ElectionID, &c.Number, &c.Name, &c.Vision, &c.Mission,
		&c.ImageURL, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

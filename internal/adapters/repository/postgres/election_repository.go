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

type electionRepository struct {
	db *sql.DB
}

func NewElectionRepository(db *sql.DB) ports.ElectionRepository {
	return &electionRepository{
		db: db,
	}
}

const electionColumns = `id, title, election_date, status, created_at, updated_at`

func (r *electionRepository) Save(ctx context.Context, election *domain.Election) error {
	query := `
		INSERT INTO elections (id, title, election_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		election.ID, election.Title, dateParam(election.ElectionDate), election.Status,
		election.CreatedAt, election.UpdatedAt,
	)
	if err != nil {
		if mapped := conflictError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to insert election: %w", err)
	}
	return nil
}

func (r *electionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Election, error) {
	query := `SELECT ` + electionColumns + ` FROM elections WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *electionRepository) GetByDate(ctx context.Context, date time.Time) (*domain.Election, error) {
	query := `SELECT ` + electionColumns + ` FROM elections WHERE election_date = $1`
	return r.getOne(ctx, query, dateParam(date))
}

func (r *electionRepository) GetAll(ctx context.Context) ([]*domain.Election, error) {
	query := `SELECT ` + electionColumns + ` FROM elections ORDER BY election_date`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list elections: %w", err)
	}
	defer rows.Close()

	var elections []*domain.Election
	for rows.Next() {
		election, err := scanElection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan election: %w", err)
		}
		elections = append(elections, election)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating elections: %w", err)
	}
	return elections, nil
}

func (r *electionRepository) ExistsOnDate(ctx context.Context, date time.Time, excludeID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM elections WHERE election_date = $1 AND id <> $2)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, dateParam(date), excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check election date: %w", err)
	}
	return exists, nil
}

func (r *electionRepository) Update(ctx context.Context, election *domain.Election) error {
	query := `
		UPDATE elections
		SET title = $2, election_date = $3, status = $4, updated_at = $5
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		election.ID, election.Title, dateParam(election.ElectionDate), election.Status, election.UpdatedAt,
	)
	if err != nil {
		if mapped := conflictError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to update election: %w", err)
	}
	return expectAffected(res, domain.ErrElectionNotFound)
}

func (r *electionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ElectionStatus) error {
	query := `UPDATE elections SET status = $2, updated_at = NOW() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update election status: %w", err)
	}
	return expectAffected(res, domain.ErrElectionNotFound)
}

func (r *electionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Lock the row so no candidate or vote can be attached while we check.
	var locked uuid.UUID
	err = tx.QueryRowContext(ctx, `SELECT id FROM elections WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrElectionNotFound
		}
		return fmt.Errorf("failed to lock election: %w", err)
	}

	var referenced bool
	query := `
		SELECT EXISTS (SELECT 1 FROM candidates WHERE election_id = $1)
		    OR EXISTS (SELECT 1 FROM votes WHERE election_id = $1)
	`
	if err := tx.QueryRowContext(ctx, query, id).Scan(&referenced); err != nil {
		return fmt.Errorf("failed to check election references: %w", err)
	}
	if referenced {
		return domain.ErrElectionNotEmpty
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM elections WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete election: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *electionRepository) getOne(ctx context.Context, query string, arg any) (*domain.Election, error) {
	election, err := scanElection(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrElectionNotFound
		}
		return nil, fmt.Errorf("failed to get election: %w", err)
	}
	return election, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanElection(row scanner) (*domain.Election, error) {
	var e domain.Election
	err := row.Scan(&e.ID, &e.Title, &e.ElectionDate, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// dateParam sends a DATE as its literal Y-M-D so the session time zone never
// shifts it.
func dateParam(t time.Time) string {
	return t.Format(domain.DateLayout)
}

func expectAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

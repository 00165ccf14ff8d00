package postgres

import (
	"errors"

	"github.com/lib/pq"
	"github.com/vncsmyrnk/election/internal/core/domain"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

var uniqueConstraints = map[string]error{
	"elections_election_date_key":       domain.ErrDuplicateElectionDate,
	"candidates_election_id_number_key": domain.ErrDuplicateCandidateNumber,
	"votes_user_id_election_id_key":     domain.ErrAlreadyVoted,
	"users_email_key":                   domain.ErrEmailTaken,
}

// conflictError translates a unique violation into its domain sentinel.
// It returns nil for any other error.
func conflictError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != uniqueViolation {
		return nil
	}
	if mapped, ok := uniqueConstraints[pqErr.Constraint]; ok {
		return mapped
	}
	return domain.ErrConflict
}

var foreignKeyConstraints = map[string]error{
	"candidates_election_id_fkey": domain.ErrElectionNotFound,
	"votes_user_id_fkey":          domain.ErrUserNotFound,
	"votes_candidate_id_fkey":     domain.ErrCandidateNotFound,
	"votes_election_id_fkey":      domain.ErrElectionNotFound,
}

// missingReferenceError translates a foreign key violation, raised when a
// referenced row was deleted before the insert committed, into the NotFound
// sentinel of that row. It returns nil for any other error.
func missingReferenceError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != foreignKeyViolation {
		return nil
	}
	if mapped, ok := foreignKeyConstraints[pqErr.Constraint]; ok {
		return mapped
	}
	return domain.ErrNotFound
}

package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error below wraps exactly one of them, so callers can
// branch with errors.Is(err, domain.ErrConflict) and friends.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")
)

var (
	ErrElectionNotFound  = fmt.Errorf("election %w", ErrNotFound)
	ErrCandidateNotFound = fmt.Errorf("candidate %w", ErrNotFound)
	ErrUserNotFound      = fmt.Errorf("user %w", ErrNotFound)
	ErrNoActiveElection  = fmt.Errorf("active election %w", ErrNotFound)

	ErrElectionNotActive = fmt.Errorf("%w: voting is only allowed for active elections", ErrInvalidState)
	ErrElectionNotClosed = fmt.Errorf("%w: results are only available for closed elections", ErrInvalidState)

	ErrAlreadyVoted             = fmt.Errorf("%w: user has already voted in this election", ErrConflict)
	ErrDuplicateCandidateNumber = fmt.Errorf("%w: candidate number already exists for this election", ErrConflict)
	ErrDuplicateElectionDate    = fmt.Errorf("%w: an election is already scheduled on this date", ErrConflict)
	ErrElectionNotEmpty         = fmt.Errorf("%w: cannot delete election with associated candidates or votes", ErrConflict)
	ErrEmailTaken               = fmt.Errorf("%w: email already registered", ErrConflict)

	ErrInvalidID = fmt.Errorf("%w: invalid id", ErrValidation)
)

// ValidationError builds an ErrValidation carrying a field-specific message.
func ValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

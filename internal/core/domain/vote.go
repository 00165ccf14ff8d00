package domain

import (
	"time"

	"github.com/google/uuid"
)

type Vote struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	CandidateID uuid.UUID `json:"candidate_id"`
	ElectionID  uuid.UUID `json:"election_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// VoteTime is the minimal projection the hourly aggregator needs.
type VoteTime struct {
	CandidateID uuid.UUID
	CreatedAt   time.Time
}

// VoteReceipt tells a voter whether they voted without revealing the choice
// in plaintext: CandidateRef is a keyed hash of the chosen ballot number.
type VoteReceipt struct {
	HasVoted     bool   `json:"has_voted"`
	CandidateRef string `json:"candidate_ref,omitempty"`
}

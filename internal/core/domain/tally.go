package domain

import (
	"time"

	"github.com/google/uuid"
)

// HoursPerDay is the number of buckets in an hourly snapshot.
const HoursPerDay = 24

type CandidateTally struct {
	CandidateID uuid.UUID `json:"candidate_id"`
	Number      int       `json:"number"`
	Name        string    `json:"name"`
	ImageURL    string    `json:"image_url"`
	VoteCount   int64     `json:"vote_count"`
}

// ElectionSnapshot is the payload of an election_update event.
type ElectionSnapshot struct {
	ElectionID   uuid.UUID        `json:"election_id"`
	Title        string           `json:"title"`
	ElectionDate string           `json:"election_date"`
	Status       ElectionStatus   `json:"status"`
	VoterCount   int64            `json:"voter_count"`
	Candidates   []CandidateTally `json:"candidates"`
	Timestamp    time.Time        `json:"timestamp"`
}

type CandidateHourly struct {
	CandidateID uuid.UUID          `json:"candidate_id"`
	Number      int                `json:"number"`
	Name        string             `json:"name"`
	Hourly      [HoursPerDay]int64 `json:"hourly"`
	Total       int64              `json:"total"`
}

// HourlySnapshot is the payload of an hourly_update event.
type HourlySnapshot struct {
	ElectionID uuid.UUID         `json:"election_id"`
	Date       string            `json:"date"`
	Candidates []CandidateHourly `json:"candidates"`
	Timestamp  time.Time         `json:"timestamp"`
}

type CandidateResult struct {
	CandidateID     uuid.UUID `json:"candidate_id"`
	CandidateNumber int       `json:"candidate_number"`
	CandidateName   string    `json:"candidate_name"`
	Votes           int64     `json:"votes"`
	Percentage      float64   `json:"percentage"`
}

type ElectionResults struct {
	ElectionID    uuid.UUID         `json:"election_id"`
	ElectionTitle string            `json:"election_title"`
	TotalVotes    int64             `json:"total_votes"`
	Results       []CandidateResult `json:"results"`
}

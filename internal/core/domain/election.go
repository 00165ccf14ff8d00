package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Election struct {
	ID             uuid.UUID      `json:"id"`
	Title          string         `json:"title"`
	ElectionDate   time.Time      `json:"-"`
	Status         ElectionStatus `json:"status"`
	CandidateCount int64          `json:"candidate_count"`
	VoterCount     int64          `json:"voter_count"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// MarshalJSON renders the election date as a plain calendar day.
func (e Election) MarshalJSON() ([]byte, error) {
	type alias Election
	return json.Marshal(struct {
		alias
		ElectionDate string `json:"election_date"`
	}{
		alias:        alias(e),
		ElectionDate: e.ElectionDate.Format(DateLayout),
	})
}

type ElectionDetail struct {
	Election
	Candidates []CandidateTally `json:"candidates"`
}

func (d ElectionDetail) MarshalJSON() ([]byte, error) {
	base, err := d.Election.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	candidates := d.Candidates
	if candidates == nil {
		candidates = []CandidateTally{}
	}
	raw, err := json.Marshal(candidates)
	if err != nil {
		return nil, err
	}
	fields["candidates"] = raw
	return json.Marshal(fields)
}

func (e *Election) UnmarshalJSON(data []byte) error {
	type alias Election
	aux := struct {
		*alias
		ElectionDate string `json:"election_date"`
	}{alias: (*alias)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.ElectionDate == "" {
		return nil
	}
	date, err := time.Parse(DateLayout, aux.ElectionDate)
	if err != nil {
		return err
	}
	e.ElectionDate = date
	return nil
}

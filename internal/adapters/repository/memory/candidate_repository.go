package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
)

type candidateRepository struct {
	s *Store
}

func (r *candidateRepository) Save(ctx context.Context, candidate *domain.Candidate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.elections[candidate.ElectionID]; !ok {
		return domain.ErrElectionNotFound
	}
	if r.numberTaken(candidate.ElectionID, candidate.Number, uuid.Nil) {
		return domain.ErrDuplicateCandidateNumber
	}
	r.s.candidates = append(r.s.candidates, *candidate)
	return nil
}

func (r *candidateRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Candidate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	i := r.s.candidateIndex(id)
	if i < 0 {
		return nil, domain.ErrCandidateNotFound
	}
	c := r.s.candidates[i]
	return &c, nil
}

func (r *candidateRepository) ListByElection(ctx context.Context, electionID uuid.UUID) ([]*domain.Candidate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*domain.Candidate
	for _, c := range r.s.candidates {
		if c.ElectionID == electionID {
			c := c
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *candidateRepository) List(ctx context.Context) ([]*domain.Candidate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Candidate, 0, len(r.s.candidates))
	for _, c := range r.s.candidates {
		c := c
		out = append(out, &c)
	}
	return out, nil
}

func (r *candidateRepository) NumberTaken(ctx context.Context, electionID uuid.UUID, number int, excludeID uuid.UUID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.numberTaken(electionID, number, excludeID), nil
}

func (r *candidateRepository) Update(ctx context.Context, candidate *domain.Candidate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.s.candidateIndex(candidate.ID)
	if i < 0 {
		return domain.ErrCandidateNotFound
	}
	if r.numberTaken(candidate.ElectionID, candidate.Number, candidate.ID) {
		return domain.ErrDuplicateCandidateNumber
	}
	r.s.candidates[i] = *candidate
	return nil
}

// Delete drops the candidate and its votes under a single lock, which is
// the in-memory equivalent of the Postgres transaction.
func (r *candidateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.s.candidateIndex(id)
	if i < 0 {
		return domain.ErrCandidateNotFound
	}

	kept := r.s.votes[:0]
	for _, v := range r.s.votes {
		if v.CandidateID != id {
			kept = append(kept, v)
		}
	}
	r.s.votes = kept
	r.s.candidates = append(r.s.candidates[:i], r.s.candidates[i+1:]...)
	return nil
}

func (r *candidateRepository) numberTaken(electionID uuid.UUID, number int, excludeID uuid.UUID) bool {
	for _, c := range r.s.candidates {
		if c.ElectionID == electionID && c.Number == number && c.ID != excludeID {
			return true
		}
	}
	return false
}

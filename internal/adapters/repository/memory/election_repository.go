package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
)

type electionRepository struct {
	s *Store
}

func (r *electionRepository) Save(ctx context.Context, election *domain.Election) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.dateTaken(election.ElectionDate, uuid.Nil) {
		return domain.ErrDuplicateElectionDate
	}
	r.s.elections[election.ID] = *election
	return nil
}

func (r *electionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Election, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.elections[id]
	if !ok {
		return nil, domain.ErrElectionNotFound
	}
	return &e, nil
}

func (r *electionRepository) GetByDate(ctx context.Context, date time.Time) (*domain.Election, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	day := domain.CalendarDay(date)
	for _, e := range r.s.elections {
		if domain.CalendarDay(e.ElectionDate).Equal(day) {
			return &e, nil
		}
	}
	return nil, domain.ErrElectionNotFound
}

func (r *electionRepository) GetAll(ctx context.Context) ([]*domain.Election, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Election, 0, len(r.s.elections))
	for _, e := range r.s.elections {
		e := e
		out = append(out, &e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ElectionDate.Before(out[j].ElectionDate)
	})
	return out, nil
}

func (r *electionRepository) ExistsOnDate(ctx context.Context, date time.Time, excludeID uuid.UUID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.dateTaken(date, excludeID), nil
}

func (r *electionRepository) Update(ctx context.Context, election *domain.Election) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.elections[election.ID]; !ok {
		return domain.ErrElectionNotFound
	}
	if r.dateTaken(election.ElectionDate, election.ID) {
		return domain.ErrDuplicateElectionDate
	}
	r.s.elections[election.ID] = *election
	return nil
}

func (r *electionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ElectionStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.elections[id]
	if !ok {
		return domain.ErrElectionNotFound
	}
	e.Status = status
	r.s.elections[id] = e
	return nil
}

func (r *electionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.elections[id]; !ok {
		return domain.ErrElectionNotFound
	}
	for _, c := range r.s.candidates {
		if c.ElectionID == id {
			return domain.ErrElectionNotEmpty
		}
	}
	for _, v := range r.s.votes {
		if v.ElectionID == id {
			return domain.ErrElectionNotEmpty
		}
	}
	delete(r.s.elections, id)
	return nil
}

// dateTaken must be called with mu held.
func (r *electionRepository) dateTaken(date time.Time, excludeID uuid.UUID) bool {
	day := domain.CalendarDay(date)
	for id, e := range r.s.elections {
		if id != excludeID && domain.CalendarDay(e.ElectionDate).Equal(day) {
			return true
		}
	}
	return false
}

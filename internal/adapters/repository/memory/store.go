// Package memory implements the repository ports in process memory. It
// enforces the same uniqueness and cascade rules as the Postgres schema, so
// it can stand in for it in development and tests.
package memory

import (
	"sync"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type Store struct {
	mu         sync.RWMutex
	elections  map[uuid.UUID]domain.Election
	candidates []domain.Candidate // creation order
	votes      []domain.Vote
	users      map[uuid.UUID]domain.User
}

func NewStore() *Store {
	return &Store{
		elections: make(map[uuid.UUID]domain.Election),
		users:     make(map[uuid.UUID]domain.User),
	}
}

func (s *Store) Elections() ports.ElectionRepository   { return &electionRepository{s} }
func (s *Store) Candidates() ports.CandidateRepository { return &candidateRepository{s} }
func (s *Store) Votes() ports.VoteRepository           { return &voteRepository{s} }
func (s *Store) Tally() ports.TallyRepository          { return &tallyRepository{s} }
func (s *Store) Users() ports.UserRepository           { return &userRepository{s} }

// candidateIndex must be called with mu held.
func (s *Store) candidateIndex(id uuid.UUID) int {
	for i := range s.candidates {
		if s.candidates[i].ID == id {
			return i
		}
	}
	return -1
}

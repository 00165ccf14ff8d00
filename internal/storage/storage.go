// Package storage opens the repository set selected by configuration.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/vncsmyrnk/election/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/election/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/election/internal/config"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type Repositories struct {
	Elections  ports.ElectionRepository
	Candidates ports.CandidateRepository
	Votes      ports.VoteRepository
	Tally      ports.TallyRepository
	Users      ports.UserRepository

	db *sql.DB
}

func Open(cfg *config.Config) (*Repositories, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		return NewMemory(memory.NewStore()), nil
	case config.StoragePostgres:
		db, err := sql.Open("postgres", cfg.Postgres.DSN())
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to reach database: %w", err)
		}
		return NewPostgres(db), nil
	}
	return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
}

func NewPostgres(db *sql.DB) *Repositories {
	return &Repositories{
		Elections:  postgres.NewElectionRepository(db),
		Candidates: postgres.NewCandidateRepository(db),
		Votes:      postgres.NewVoteRepository(db),
		Tally:      postgres.NewTallyRepository(db),
		Users:      postgres.NewUserRepository(db),
		db:         db,
	}
}

func NewMemory(store *memory.Store) *Repositories {
	return &Repositories{
		Elections:  store.Elections(),
		Candidates: store.Candidates(),
		Votes:      store.Votes(),
		Tally:      store.Tally(),
		Users:      store.Users(),
	}
}

// DB is nil for the memory backend.
func (r *Repositories) DB() *sql.DB {
	return r.db
}

func (r *Repositories) Ping(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	return r.db.PingContext(ctx)
}

func (r *Repositories) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

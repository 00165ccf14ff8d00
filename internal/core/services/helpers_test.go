package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/election/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

var jakarta = time.FixedZone("WIB", 7*60*60)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock(t time.Time) *testClock {
	return &testClock{t: t}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

type recordingMetrics struct {
	ports.NopMetrics
	mu       sync.Mutex
	outcomes []string
	opened   int
	closed   int
	sent     int
	updated  int
}

func (m *recordingMetrics) VoteCast(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
}

func (m *recordingMetrics) StreamOpened(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opened++
}

func (m *recordingMetrics) StreamClosed(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed++
}

func (m *recordingMetrics) SnapshotSent(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent++
}

func (m *recordingMetrics) StatusesUpdated(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updated += n
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixture wires every service against one in-memory store.
type fixture struct {
	store      *memory.Store
	clock      *testClock
	metrics    *recordingMetrics
	elections  ports.ElectionService
	candidates ports.CandidateService
	votes      ports.VoteService
	tally      ports.TallyService
}

const testHashSecret = "test-hash-secret"

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	store := memory.NewStore()
	clock := newTestClock(now)
	metrics := &recordingMetrics{}
	return &fixture{
		store:      store,
		clock:      clock,
		metrics:    metrics,
		elections:  NewElectionService(store.Elections(), store.Candidates(), store.Tally(), clock.Now),
		candidates: NewCandidateService(store.Elections(), store.Candidates(), clock.Now),
		votes:      NewVoteService(store.Elections(), store.Candidates(), store.Votes(), store.Tally(), metrics, testHashSecret, clock.Now),
		tally:      NewTallyService(store.Elections(), store.Candidates(), store.Tally(), clock.Now),
	}
}

func (f *fixture) election(t *testing.T, title string, date time.Time) *domain.Election {
	t.Helper()
	e, err := f.elections.Create(context.Background(), ports.CreateElectionInput{
		Title:        title,
		ElectionDate: date.Format(domain.DateLayout),
	})
	require.NoError(t, err)
	return e
}

func (f *fixture) candidate(t *testing.T, electionID uuid.UUID, number int, name string) *domain.Candidate {
	t.Helper()
	c, err := f.candidates.Create(context.Background(), ports.CreateCandidateInput{
		ElectionID: electionID,
		Number:     number,
		Name:       name,
		Vision:     name + " vision",
		Mission:    name + " mission",
		ImageURL:   "candidates/" + name + ".png",
	})
	require.NoError(t, err)
	return c
}

// castAt casts a vote with the clock moved to at.
func (f *fixture) castAt(t *testing.T, at time.Time, candidateID uuid.UUID) uuid.UUID {
	t.Helper()
	f.clock.Set(at)
	voter := uuid.New()
	_, err := f.votes.CastVote(context.Background(), voter, candidateID)
	require.NoError(t, err)
	return voter
}

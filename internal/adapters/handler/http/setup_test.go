package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/election/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
	"github.com/vncsmyrnk/election/internal/core/services"
)

type fakeVerifier struct{}

func (fakeVerifier) Verify(ctx context.Context, token string, clientID string) (*ports.TokenPayload, error) {
	if token == "good-credential" {
		return &ports.TokenPayload{Email: "new@example.com", Name: "New"}, nil
	}
	return nil, errors.New("bad credential")
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

type testApp struct {
	Server     *httptest.Server
	Store      *memory.Store
	Clock      *clock
	Feed       *services.FeedService
	AdminToken string
	VoterToken string
	auth       *services.AuthService
}

func setupTestApp(t *testing.T, now time.Time) *testApp {
	t.Helper()

	store := memory.NewStore()
	clk := &clock{t: now}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := ports.NopMetrics{}

	auth, err := services.NewAuthService(store.Users(), fakeVerifier{}, services.AuthConfig{
		JWTSecret:      "test-secret",
		GoogleClientID: "client",
		AccessTokenTTL: time.Hour,
	}, time.Now)
	require.NoError(t, err)
	tally := services.NewTallyService(store.Elections(), store.Candidates(), store.Tally(), clk.Now)
	feed := services.NewFeedService(tally, services.FeedConfig{
		Interval:       20 * time.Millisecond,
		HourlyInterval: 20 * time.Millisecond,
	}, metrics, logger)

	handler := NewHandler(Handlers{
		Auth:       NewAuthHandler(auth, "", "", http.SameSiteLaxMode, time.Hour),
		Users:      NewUserHandler(store.Users()),
		Elections:  NewElectionHandler(services.NewElectionService(store.Elections(), store.Candidates(), store.Tally(), clk.Now)),
		Candidates: NewCandidateHandler(services.NewCandidateService(store.Elections(), store.Candidates(), clk.Now)),
		Votes: NewVoteHandler(services.NewVoteService(
			store.Elections(), store.Candidates(), store.Votes(), store.Tally(), metrics, "hash-secret", clk.Now,
		)),
		Feed:        NewFeedHandler(feed, 3*time.Second, clk.Now),
		AuthService: auth,
	})

	server := httptest.NewServer(handler)
	t.Cleanup(func() {
		feed.Close()
		server.Close()
	})

	app := &testApp{Server: server, Store: store, Clock: clk, Feed: feed, auth: auth}
	app.AdminToken = app.tokenFor(t, "admin@example.com", domain.RoleAdmin)
	app.VoterToken = app.tokenFor(t, "voter@example.com", domain.RoleVoter)
	return app
}

func (a *testApp) tokenFor(t *testing.T, email string, role domain.Role) string {
	t.Helper()
	user := &domain.User{Email: email, Name: email, Role: role}
	require.NoError(t, a.Store.Users().Create(context.Background(), user))
	token, err := a.auth.IssueAccessToken(user)
	require.NoError(t, err)
	return token
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, a.Server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	}

	resp, err := a.Server.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

package http

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/election/internal/core/domain"
)

type sseEvent struct {
	name string
	data string
}

type sseReader struct {
	scanner *bufio.Scanner
}

// next returns the next event, skipping retry hints.
func (r *sseReader) next(t *testing.T) sseEvent {
	t.Helper()
	var ev sseEvent
	for r.scanner.Scan() {
		line := r.scanner.Text()
		switch {
		case line == "":
			if ev.name != "" {
				return ev
			}
		case strings.HasPrefix(line, "event: "):
			ev.name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			ev.data = strings.TrimPrefix(line, "data: ")
		}
	}
	t.Fatalf("stream ended: %v", r.scanner.Err())
	return ev
}

func openStream(t *testing.T, app *testApp, ctx context.Context, path string) (*http.Response, *sseReader, string) {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, app.Server.URL+path, nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: app.AdminToken})

	resp, err := app.Server.Client().Do(req)
	require.NoError(t, err)
	if resp.StatusCode != http.StatusOK {
		return resp, nil, ""
	}

	scanner := bufio.NewScanner(resp.Body)
	require.True(t, scanner.Scan())
	return resp, &sseReader{scanner: scanner}, scanner.Text()
}

func TestStreamElection(t *testing.T) {
	app := setupTestApp(t, time.Date(2026, 3, 10, 10, 0, 0, 0, wib))
	senate := createElection(t, app, "Senate", "2026-03-10")
	alice := createCandidate(t, app, senate.ID, 1, "Alice")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	resp, stream, first := openStream(t, app, ctx, "/api/elections/"+senate.ID.String()+"/stream")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	assert.Equal(t, "no-cache", resp.Header.Get("Cache-Control"))
	assert.Equal(t, "no", resp.Header.Get("X-Accel-Buffering"))
	assert.Equal(t, "retry: 3000", first)

	ev := stream.next(t)
	assert.Equal(t, "election_update", ev.name)
	var snapshot domain.ElectionSnapshot
	require.NoError(t, json.Unmarshal([]byte(ev.data), &snapshot))
	assert.Equal(t, senate.ID, snapshot.ElectionID)
	assert.Equal(t, "2026-03-10", snapshot.ElectionDate)
	assert.Equal(t, domain.StatusActive, snapshot.Status)
	require.Len(t, snapshot.Candidates, 1)
	assert.Zero(t, snapshot.Candidates[0].VoteCount)

	vote := app.do(t, http.MethodPost, "/api/votes", app.VoterToken, map[string]any{"candidate_id": alice.ID})
	require.Equal(t, http.StatusCreated, vote.StatusCode)
	vote.Body.Close()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		ev = stream.next(t)
		require.NoError(t, json.Unmarshal([]byte(ev.data), &snapshot))
		if snapshot.Candidates[0].VoteCount == 1 {
			assert.Equal(t, int64(1), snapshot.VoterCount)
			return
		}
	}
	t.Fatal("vote never reached the stream")
}

func TestStreamHourly(t *testing.T) {
	app := setupTestApp(t, time.Date(2026, 3, 10, 14, 30, 0, 0, wib))
	senate := createElection(t, app, "Senate", "2026-03-10")
	alice := createCandidate(t, app, senate.ID, 1, "Alice")

	vote := app.do(t, http.MethodPost, "/api/votes", app.VoterToken, map[string]any{"candidate_id": alice.ID})
	require.Equal(t, http.StatusCreated, vote.StatusCode)
	vote.Body.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	resp, stream, _ := openStream(t, app, ctx, "/api/elections/"+senate.ID.String()+"/stream/hourly?date=2026-03-10")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	ev := stream.next(t)
	assert.Equal(t, "hourly_update", ev.name)
	var hourly domain.HourlySnapshot
	require.NoError(t, json.Unmarshal([]byte(ev.data), &hourly))
	assert.Equal(t, "2026-03-10", hourly.Date)
	require.Len(t, hourly.Candidates, 1)
	assert.Equal(t, int64(1), hourly.Candidates[0].Hourly[14])
	assert.Equal(t, int64(1), hourly.Candidates[0].Total)
}

func TestStreamErrorsBeforeStreaming(t *testing.T) {
	app := setupTestApp(t, time.Date(2026, 3, 10, 10, 0, 0, 0, wib))
	senate := createElection(t, app, "Senate", "2026-03-10")
	ctx := context.Background()

	resp, _, _ := openStream(t, app, ctx, "/api/elections/"+uuid.NewString()+"/stream")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	resp.Body.Close()

	resp, _, _ = openStream(t, app, ctx, "/api/elections/"+senate.ID.String()+"/stream/hourly?date=yesterday")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestStreamEndsOnShutdown(t *testing.T) {
	app := setupTestApp(t, time.Date(2026, 3, 10, 10, 0, 0, 0, wib))
	senate := createElection(t, app, "Senate", "2026-03-10")

	resp, stream, _ := openStream(t, app, context.Background(), "/api/elections/"+senate.ID.String()+"/stream")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	stream.next(t)

	app.Feed.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for stream.scanner.Scan() {
		}
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream stayed open after shutdown")
	}
}

func TestStreamRefusedAfterShutdown(t *testing.T) {
	app := setupTestApp(t, time.Date(2026, 3, 10, 10, 0, 0, 0, wib))
	senate := createElection(t, app, "Senate", "2026-03-10")

	app.Feed.Close()

	for _, path := range []string{"/stream", "/stream/hourly"} {
		resp, _, _ := openStream(t, app, context.Background(), "/api/elections/"+senate.ID.String()+path)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
		assert.Equal(t, "3", resp.Header.Get("Retry-After"))
		resp.Body.Close()
	}
}

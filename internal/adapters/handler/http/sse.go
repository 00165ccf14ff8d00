package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/vncsmyrnk/election/internal/core/ports"
)

// sseSink writes server-sent events. Headers and the retry hint go out with
// the first event, so a stream that fails before sending anything can still
// answer with a regular JSON error.
type sseSink struct {
	w       http.ResponseWriter
	flusher http.Flusher
	retry   time.Duration
	started bool
}

func newSSESink(w http.ResponseWriter, retry time.Duration) (*sseSink, bool) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, false
	}
	return &sseSink{w: w, flusher: flusher, retry: retry}, true
}

func (s *sseSink) Send(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event, err)
	}

	if !s.started {
		h := s.w.Header()
		h.Set("Content-Type", "text/event-stream")
		h.Set("Cache-Control", "no-cache")
		h.Set("Connection", "keep-alive")
		h.Set("X-Accel-Buffering", "no")
		s.w.WriteHeader(http.StatusOK)
		if _, err := fmt.Fprintf(s.w, "retry: %d\n\n", s.retry.Milliseconds()); err != nil {
			return err
		}
		s.started = true
	}

	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

var _ ports.SnapshotSink = (*sseSink)(nil)

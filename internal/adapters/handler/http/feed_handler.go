package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type FeedHandler struct {
	feed  ports.FeedService
	retry time.Duration
	now   func() time.Time
}

func NewFeedHandler(feed ports.FeedService, retry time.Duration, now func() time.Time) *FeedHandler {
	return &FeedHandler{
		feed:  feed,
		retry: retry,
		now:   now,
	}
}

func (h *FeedHandler) StreamElection(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	sink, ok := newSSESink(w, h.retry)
	if !ok {
		ErrorResponse(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	if err := h.feed.StreamElection(r.Context(), id, sink); err != nil {
		h.fail(w, r, sink, err)
	}
}

// StreamHourly streams the hourly aggregate for ?date=YYYY-MM-DD, today when
// the parameter is absent.
func (h *FeedHandler) StreamHourly(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	day := h.now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		day, err = domain.ParseDate(raw)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
	}

	sink, ok := newSSESink(w, h.retry)
	if !ok {
		ErrorResponse(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	if err := h.feed.StreamHourly(r.Context(), id, day, sink); err != nil {
		h.fail(w, r, sink, err)
	}
}

func (h *FeedHandler) fail(w http.ResponseWriter, r *http.Request, sink *sseSink, err error) {
	if sink.started {
		slog.Error("feed stream failed", "error", err, "path", r.URL.Path)
		return
	}
	if errors.Is(err, ports.ErrFeedClosed) {
		w.Header().Set("Retry-After", strconv.Itoa(int(h.retry.Round(time.Second)/time.Second)))
		ErrorResponse(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeServiceError(w, r, err)
}

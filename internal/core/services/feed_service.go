package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

// Event names pushed to feed clients.
const (
	EventElectionUpdate = "election_update"
	EventHourlyUpdate   = "hourly_update"
	EventError          = "error"
)

// Feed labels used in logs and metrics.
const (
	FeedElection = "election"
	FeedHourly   = "hourly"
)

type FeedConfig struct {
	Interval       time.Duration
	HourlyInterval time.Duration
}

// FeedService runs one polling loop per connected client. Each loop owns
// its state; the only thing shared between loops is the shutdown signal.
type FeedService struct {
	tally   ports.TallyService
	cfg     FeedConfig
	metrics ports.Metrics
	logger  *slog.Logger

	done      chan struct{}
	closeOnce sync.Once
}

func NewFeedService(tally ports.TallyService, cfg FeedConfig, metrics ports.Metrics, logger *slog.Logger) *FeedService {
	return &FeedService{
		tally:   tally,
		cfg:     cfg,
		metrics: metrics,
		logger:  logger,
		done:    make(chan struct{}),
	}
}

// StreamElection pushes an election snapshot immediately and then once per
// interval until ctx is cancelled, the sink fails, or Close is called. A
// non-nil error is returned only when nothing has been sent: the feed was
// already closed (ports.ErrFeedClosed) or the first snapshot failed.
func (s *FeedService) StreamElection(ctx context.Context, electionID uuid.UUID, sink ports.SnapshotSink) error {
	compute := func(ctx context.Context) (any, error) {
		return s.tally.ComputeSnapshot(ctx, electionID)
	}
	return s.stream(ctx, FeedElection, EventElectionUpdate, s.cfg.Interval, electionID, sink, compute)
}

// StreamHourly is StreamElection for the hourly aggregate of day.
func (s *FeedService) StreamHourly(ctx context.Context, electionID uuid.UUID, day time.Time, sink ports.SnapshotSink) error {
	compute := func(ctx context.Context) (any, error) {
		return s.tally.ComputeHourly(ctx, electionID, day)
	}
	return s.stream(ctx, FeedHourly, EventHourlyUpdate, s.cfg.HourlyInterval, electionID, sink, compute)
}

// Close signals every running loop to return. Loops observe it before
// their next wait, so http.Server.Shutdown can then drain them.
func (s *FeedService) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

func (s *FeedService) stream(
	ctx context.Context,
	feed, event string,
	interval time.Duration,
	electionID uuid.UUID,
	sink ports.SnapshotSink,
	compute func(context.Context) (any, error),
) error {
	if s.closed() {
		return ports.ErrFeedClosed
	}

	log := s.logger.With("feed", feed, "election_id", electionID)

	// Connected: the first snapshot goes out before any wait.
	payload, err := compute(ctx)
	if err != nil {
		return err
	}
	if err := sink.Send(event, payload); err != nil {
		log.Debug("client disconnected during connect", "error", err)
		return nil
	}

	// Streaming.
	s.metrics.StreamOpened(feed)
	s.metrics.SnapshotSent(feed)
	defer s.metrics.StreamClosed(feed)
	log.Info("feed client connected")
	defer log.Info("feed client disconnected")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if ctx.Err() != nil || s.closed() {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-s.done:
			return nil
		case <-ticker.C:
		}

		payload, err := compute(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Error("failed to compute snapshot", "error", err)
			if err := sink.Send(EventError, map[string]string{"message": "failed to compute snapshot"}); err != nil {
				return nil
			}
			continue
		}

		if err := sink.Send(event, payload); err != nil {
			log.Debug("client disconnected", "error", err)
			return nil
		}
		s.metrics.SnapshotSent(feed)
	}
}

func (s *FeedService) closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

var _ ports.FeedService = (*FeedService)(nil)

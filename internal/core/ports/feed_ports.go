package ports

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrFeedClosed is returned to clients that connect after the feed began
// shutting down. Nothing has been sent to the sink when it is returned.
var ErrFeedClosed = errors.New("live feed is shutting down")

// SnapshotSink is the push side of a streaming transport. A Send error means
// the client is gone.
type SnapshotSink interface {
	Send(event string, payload any) error
}

type FeedService interface {
	StreamElection(ctx context.Context, electionID uuid.UUID, sink SnapshotSink) error
	StreamHourly(ctx context.Context, electionID uuid.UUID, day time.Time, sink SnapshotSink) error
}

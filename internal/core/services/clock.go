package services

import "time"

// Clock returns the current server time. Its location defines "today" for
// status resolution and the hour boundaries of hourly aggregates.
type Clock func() time.Time

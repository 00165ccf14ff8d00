package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.VoteCast("accepted")
	r.VoteCast("accepted")
	r.VoteCast("conflict")
	r.StreamOpened("election")
	r.StreamOpened("election")
	r.StreamClosed("election")
	r.SnapshotSent("hourly")
	r.StatusesUpdated(3)
	r.StatusesUpdated(0)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.votes.WithLabelValues("accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.votes.WithLabelValues("conflict")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.streams.WithLabelValues("election")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.snapshots.WithLabelValues("hourly")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.statuses))

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

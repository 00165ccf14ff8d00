// Package metrics records service events as Prometheus series.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

const namespace = "election"

type Recorder struct {
	votes     *prometheus.CounterVec
	streams   *prometheus.GaugeVec
	snapshots *prometheus.CounterVec
	statuses  prometheus.Counter
}

func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		votes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_cast_total",
			Help:      "Vote attempts by outcome.",
		}, []string{"outcome"}),
		streams: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "feed_streams_active",
			Help:      "Connected live feed clients.",
		}, []string{"feed"}),
		snapshots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_snapshots_sent_total",
			Help:      "Snapshots pushed to live feed clients.",
		}, []string{"feed"}),
		statuses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_sweep_updates_total",
			Help:      "Election statuses rewritten by the sweep.",
		}),
	}
	reg.MustRegister(r.votes, r.streams, r.snapshots, r.statuses)
	return r
}

func (r *Recorder) VoteCast(outcome string) { r.votes.WithLabelValues(outcome).Inc() }
func (r *Recorder) StreamOpened(feed string) { r.streams.WithLabelValues(feed).Inc() }
func (r *Recorder) StreamClosed(feed string) { r.streams.WithLabelValues(feed).Dec() }
func (r *Recorder) SnapshotSent(feed string) { r.snapshots.WithLabelValues(feed).Inc() }
func (r *Recorder) StatusesUpdated(n int) { r.statuses.Add(float64(n)) }

var _ ports.Metrics = (*Recorder)(nil)

package ports

type Metrics interface {
	VoteCast(outcome string)
	StreamOpened(feed string)
	StreamClosed(feed string)
	SnapshotSent(feed string)
	StatusesUpdated(n int)
}

type NopMetrics struct{}

func (NopMetrics) VoteCast(string)     {}
func (NopMetrics) StreamOpened(string) {}
func (NopMetrics) StreamClosed(string) {}
func (NopMetrics) SnapshotSent(string) {}
func (NopMetrics) StatusesUpdated(int) {}

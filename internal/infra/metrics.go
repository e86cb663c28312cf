package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Counters
	framesRead         atomic.Uint64
	eventsApplied      atomic.Uint64
	eventsIgnored      atomic.Uint64
	errorsTotal        atomic.Uint64
	snapshotsPublished atomic.Uint64

	// Latency tracking
	latencySumNs atomic.Int64
	latencyCount atomic.Uint64

	// Gauges
	bytesRead   atomic.Int64
	restingBids atomic.Int64
}

// RecordFrame records one frame pulled from the feed.
func (m *Metrics) RecordFrame() {
	m.framesRead.Add(1)
}

// RecordEvent records an applied event with its processing latency.
func (m *Metrics) RecordEvent(latencyNs int64) {
	m.eventsApplied.Add(1)
	m.latencySumNs.Add(latencyNs)
	m.latencyCount.Add(1)
}

// RecordIgnored records a frame whose message type carries no semantics.
func (m *Metrics) RecordIgnored() {
	m.eventsIgnored.Add(1)
}

// RecordError records a dropped event.
func (m *Metrics) RecordError() {
	m.errorsTotal.Add(1)
}

// RecordSnapshot records a published snapshot.
func (m *Metrics) RecordSnapshot() {
	m.snapshotsPublished.Add(1)
}

// SetBytesRead sets the feed offset gauge.
func (m *Metrics) SetBytesRead(n int64) {
	m.bytesRead.Store(n)
}

// SetRestingBids sets the resting buy order gauge.
func (m *Metrics) SetRestingBids(n int) {
	m.restingBids.Store(int64(n))
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	FramesRead    uint64
	EventsApplied uint64
	EventsIgnored uint64
	ErrorsTotal   uint64
	Snapshots     uint64
	AvgLatencyNs  int64
	BytesRead     int64
	RestingBids   int64
	Timestamp     time.Time
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	var avgLatency int64
	count := m.latencyCount.Load()
	if count > 0 {
		avgLatency = m.latencySumNs.Load() / int64(count)
	}

	return MetricsSnapshot{
		FramesRead:    m.framesRead.Load(),
		EventsApplied: m.eventsApplied.Load(),
		EventsIgnored: m.eventsIgnored.Load(),
		ErrorsTotal:   m.errorsTotal.Load(),
		Snapshots:     m.snapshotsPublished.Load(),
		AvgLatencyNs:  avgLatency,
		BytesRead:     m.bytesRead.Load(),
		RestingBids:   m.restingBids.Load(),
		Timestamp:     time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.framesRead.Store(0)
	m.eventsApplied.Store(0)
	m.eventsIgnored.Store(0)
	m.errorsTotal.Store(0)
	m.snapshotsPublished.Store(0)
	m.latencySumNs.Store(0)
	m.latencyCount.Store(0)
	m.bytesRead.Store(0)
	m.restingBids.Store(0)
}

package observability

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics aggregates per-operation counters for the running process.
type Metrics struct {
	mu sync.Mutex

	requestTotal  atomic.Int64
	requestFailed atomic.Int64

	operations map[string]*OperationMetrics
}

// OperationMetrics tracks one named operation (reconcile, coaching, ...).
type OperationMetrics struct {
	count         atomic.Int64
	errorCount    atomic.Int64
	totalDuration atomic.Int64 // milliseconds
}

// NewMetrics creates an empty metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{operations: make(map[string]*OperationMetrics)}
}

var globalMetrics = NewMetrics()

// GlobalMetrics returns the process-wide metrics instance.
func GlobalMetrics() *Metrics {
	return globalMetrics
}

// RecordRequest records one request for an operation.
func (m *Metrics) RecordRequest(operation string) {
	m.requestTotal.Add(1)
	m.get(operation).count.Add(1)
}

// RecordFailure records a failed request for an operation.
func (m *Metrics) RecordFailure(operation string) {
	m.requestFailed.Add(1)
	m.get(operation).errorCount.Add(1)
}

// RecordDuration records how long an operation took.
func (m *Metrics) RecordDuration(operation string, duration time.Duration) {
	m.get(operation).totalDuration.Add(duration.Milliseconds())
}

func (m *Metrics) get(operation string) *OperationMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	om, ok := m.operations[operation]
	if !ok {
		om = &OperationMetrics{}
		m.operations[operation] = om
	}
	return om
}

// Reset clears all metrics. Used by tests.
func (m *Metrics) Reset() {
	m.requestTotal.Store(0)
	m.requestFailed.Store(0)
	m.mu.Lock()
	m.operations = make(map[string]*OperationMetrics)
	m.mu.Unlock()
}

// Snapshot returns a point-in-time copy of all counters.
func (m *Metrics) Snapshot() *Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	operations := make(map[string]*OperationSnapshot, len(m.operations))
	for name, om := range m.operations {
		snap := &OperationSnapshot{
			Count:         om.count.Load(),
			ErrorCount:    om.errorCount.Load(),
			TotalDuration: om.totalDuration.Load(),
		}
		if snap.Count > 0 {
			snap.AverageDuration = snap.TotalDuration / snap.Count
		}
		operations[name] = snap
	}
	return &Snapshot{
		RequestTotal:  m.requestTotal.Load(),
		RequestFailed: m.requestFailed.Load(),
		Operations:    operations,
	}
}

// Snapshot is a point-in-time view of the metrics.
type Snapshot struct {
	RequestTotal  int64                         `json:"requestTotal"`
	RequestFailed int64                         `json:"requestFailed"`
	Operations    map[string]*OperationSnapshot `json:"operations"`
}

// OperationSnapshot is a point-in-time view of one operation's counters.
type OperationSnapshot struct {
	Count           int64 `json:"count"`
	ErrorCount      int64 `json:"errorCount"`
	TotalDuration   int64 `json:"totalDurationMs"`
	AverageDuration int64 `json:"averageDurationMs"`
}

// SuccessRate returns the overall success rate as a percentage.
func (s *Snapshot) SuccessRate() float64 {
	if s.RequestTotal == 0 {
		return 100.0
	}
	return float64(s.RequestTotal-s.RequestFailed) / float64(s.RequestTotal) * 100.0
}

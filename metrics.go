package custsession

import "sync/atomic"

// MetricID identifies a counter in the in-process metrics system.
type MetricID uint16

const (
	// MetricSessionCreated counts successful session establishments.
	MetricSessionCreated MetricID = iota
	// MetricSessionRotated counts successful rotation-on-access cycles.
	MetricSessionRotated
	// MetricResolveMiss counts resolutions that failed closed: missing or
	// corrupt cookie, absent store record, or backend unavailability.
	MetricResolveMiss
	// MetricSessionDestroyed counts logouts.
	MetricSessionDestroyed
	// MetricSessionRevoked counts administrative revocations.
	MetricSessionRevoked
	// MetricCSRFFailure counts failed CSRF validations.
	MetricCSRFFailure
	// MetricTOTPSuccess counts accepted TOTP codes.
	MetricTOTPSuccess
	// MetricTOTPFailure counts rejected TOTP codes.
	MetricTOTPFailure
	// MetricMFAEnrolled counts MFA enrollments.
	MetricMFAEnrolled
	// MetricPermissionDenied counts guard rejections.
	MetricPermissionDenied

	metricIDCount
)

const cacheLineSize = 64

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics holds lock-free counters. All operations are no-ops when metrics
// are disabled or the receiver is nil.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]paddedCounter
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// NewMetrics creates a Metrics instance configured by cfg.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Enabled reports whether counters are being recorded.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// Inc increments a single counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Value reads a single counter.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot deep-copies every counter.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}

	s := MetricsSnapshot{
		Counters: make(map[MetricID]uint64, int(metricIDCount)),
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	return s
}

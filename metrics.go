package goLogin

import (
	"sync/atomic"
	"time"
)

// MetricID identifies one in-process counter or histogram.
type MetricID uint16

const (
	// MetricLoginSuccess counts logins that issued a session.
	MetricLoginSuccess MetricID = iota
	// MetricLoginFailure counts invalid-credential outcomes, including the one that locks.
	MetricLoginFailure
	// MetricLoginLocked counts attempts rejected because the account was already locked.
	MetricLoginLocked
	// MetricLoginUserNotFound counts failures against unknown usernames.
	MetricLoginUserNotFound
	// MetricAccountLocked counts lockouts triggered by reaching the threshold.
	MetricAccountLocked
	// MetricLoginInfraFailure counts logins that ended in an infrastructure error.
	MetricLoginInfraFailure
	// MetricPasswordHashError counts stored hashes that could not be interpreted.
	MetricPasswordHashError
	MetricSessionCreated
	MetricSessionValidated
	MetricSessionMiss
	MetricLogout
	MetricLogoutMiss
	MetricSessionRefreshed
	MetricSessionRefreshMiss
	MetricAccountCreationSuccess
	MetricAccountCreationDuplicate
	MetricAccountCreationInvalid
	MetricAccountUnlocked
	// MetricLoginLatency is a histogram of Engine.Login wall time.
	MetricLoginLatency
	// MetricValidateLatency is a histogram of Engine.VerifySession wall time.
	MetricValidateLatency
	metricIDCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics is a fixed array of lock-free counters plus latency histograms.
// All methods are no-ops when metrics are disabled.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// MetricsSnapshot is a point-in-time copy of every counter and histogram.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

func (m *Metrics) LatencyEnabled() bool {
	return m != nil && m.enableLatency
}

func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe records d into the histogram for id. Only latency IDs accept
// observations.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enabled || !m.enableLatency || id >= metricIDCount {
		return
	}
	if !isHistogram(id) {
		return
	}

	b := bucketIndex(d)
	atomic.AddUint64(&m.histograms[id].buckets[b], 1)
}

func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}

	s := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, int(metricIDCount)),
		Histograms: make(map[MetricID][]uint64, 2),
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		if isHistogram(id) {
			continue
		}
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		for _, id := range []MetricID{MetricLoginLatency, MetricValidateLatency} {
			buckets := make([]uint64, histBucketCount)
			for i := 0; i < histBucketCount; i++ {
				buckets[i] = atomic.LoadUint64(&m.histograms[id].buckets[i])
			}
			s.Histograms[id] = buckets
		}
	}

	return s
}

func isHistogram(id MetricID) bool {
	return id == MetricLoginLatency || id == MetricValidateLatency
}

func bucketIndex(d time.Duration) int {
	ms := d.Milliseconds()

	switch {
	case ms <= 5:
		return 0
	case ms <= 10:
		return 1
	case ms <= 25:
		return 2
	case ms <= 50:
		return 3
	case ms <= 100:
		return 4
	case ms <= 250:
		return 5
	case ms <= 500:
		return 6
	default:
		return 7
	}
}

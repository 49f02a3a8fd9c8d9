package goLogin

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMetricsDisabledNoIncrement(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: false})
	m.Inc(MetricLoginSuccess)

	if got := m.Value(MetricLoginSuccess); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestMetricsEnabledIncrement(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	m.Inc(MetricLoginSuccess)
	m.Inc(MetricLoginSuccess)
	m.Inc(MetricLoginSuccess)

	if got := m.Value(MetricLoginSuccess); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}

func TestMetricsConcurrentIncrementSafe(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	const goroutines = 32
	const perG = 4000

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perG; j++ {
				m.Inc(MetricLoginFailure)
			}
		}()
	}
	wg.Wait()

	want := uint64(goroutines * perG)
	if got := m.Value(MetricLoginFailure); got != want {
		t.Fatalf("expected %d, got %d", want, got)
	}
}

func TestMetricsObserveOnlyHistograms(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: true})
	m.Observe(MetricLoginLatency, 3*time.Millisecond)
	m.Observe(MetricValidateLatency, 2*time.Second)
	m.Observe(MetricLoginSuccess, time.Millisecond)

	snap := m.Snapshot()
	if got := snap.Histograms[MetricLoginLatency][0]; got != 1 {
		t.Fatalf("expected login latency in first bucket, got %d", got)
	}
	if got := snap.Histograms[MetricValidateLatency][histBucketCount-1]; got != 1 {
		t.Fatalf("expected validate latency in overflow bucket, got %d", got)
	}
	if _, ok := snap.Histograms[MetricLoginSuccess]; ok {
		t.Fatal("counters must not appear as histograms")
	}
	if _, ok := snap.Counters[MetricLoginLatency]; ok {
		t.Fatal("histograms must not appear as counters")
	}
}

func TestBucketIndexBoundaries(t *testing.T) {
	cases := map[time.Duration]int{
		5 * time.Millisecond:   0,
		6 * time.Millisecond:   1,
		25 * time.Millisecond:  2,
		100 * time.Millisecond: 4,
		500 * time.Millisecond: 6,
		501 * time.Millisecond: 7,
	}
	for d, want := range cases {
		if got := bucketIndex(d); got != want {
			t.Fatalf("bucketIndex(%v) = %d, want %d", d, got, want)
		}
	}
}

func TestEngineMetricsSnapshot(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.EnableLatencyHistograms = true
	te, done := newTestEngine(t, cfg)
	defer done()

	te.mustRegister(t, "alice", goodPassword)
	te.mustLogin(t, "alice", "wrong")
	te.mustLogin(t, "ghost", "wrong")
	out := te.mustLogin(t, "alice", goodPassword)
	_, _, _ = te.VerifySession(context.Background(), out.Token)

	snap := te.MetricsSnapshot()
	checks := map[MetricID]uint64{
		MetricLoginFailure:      2,
		MetricLoginUserNotFound: 1,
		MetricLoginSuccess:      1,
		MetricSessionCreated:    1,
		MetricSessionValidated:  1,
	}
	for id, want := range checks {
		if got := snap.Counters[id]; got != want {
			t.Fatalf("metric %d: expected %d, got %d", id, want, got)
		}
	}

	var logins uint64
	for _, n := range snap.Histograms[MetricLoginLatency] {
		logins += n
	}
	if logins != 3 {
		t.Fatalf("expected 3 login latency samples, got %d", logins)
	}
}

func TestNilEngineMetricsSnapshot(t *testing.T) {
	var e *Engine
	snap := e.MetricsSnapshot()
	if snap.Counters == nil || snap.Histograms == nil {
		t.Fatal("nil engine should return empty maps")
	}
}

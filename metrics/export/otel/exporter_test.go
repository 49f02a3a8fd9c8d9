package otel

import (
	"context"
	"sync"
	"testing"

	goLogin "github.com/MrEthical07/goLogin"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

type fakeSource struct {
	mu       sync.RWMutex
	snapshot goLogin.MetricsSnapshot
	dropped  uint64
}

func (f *fakeSource) MetricsSnapshot() goLogin.MetricsSnapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := goLogin.MetricsSnapshot{
		Counters:   make(map[goLogin.MetricID]uint64, len(f.snapshot.Counters)),
		Histograms: make(map[goLogin.MetricID][]uint64, len(f.snapshot.Histograms)),
	}
	for k, v := range f.snapshot.Counters {
		out.Counters[k] = v
	}
	for k, buckets := range f.snapshot.Histograms {
		next := make([]uint64, len(buckets))
		copy(next, buckets)
		out.Histograms[k] = next
	}
	return out
}

func (f *fakeSource) AuditDropped() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.dropped
}

func TestExporterRegistersAndCollects(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("gologin-test")

	src := &fakeSource{
		snapshot: goLogin.MetricsSnapshot{
			Counters: map[goLogin.MetricID]uint64{
				goLogin.MetricLoginSuccess: 3,
			},
			Histograms: map[goLogin.MetricID][]uint64{
				goLogin.MetricValidateLatency: {1, 1, 1, 1, 1, 1, 1, 1},
			},
		},
		dropped: 1,
	}

	exp, err := NewOTelExporterFromSource(meter, src)
	if err != nil {
		t.Fatalf("NewOTelExporterFromSource failed: %v", err)
	}
	defer func() {
		if err := exp.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if len(rm.ScopeMetrics) == 0 {
		t.Fatal("expected collected metrics, got none")
	}
}

func TestExporterRejectsNilSource(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("gologin-test")

	if _, err := NewOTelExporterFromSource(meter, nil); err == nil {
		t.Fatal("expected error for nil source")
	}
}

func TestExporterConcurrentCollectNoPanic(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("gologin-test")

	src := &fakeSource{
		snapshot: goLogin.MetricsSnapshot{
			Counters: map[goLogin.MetricID]uint64{
				goLogin.MetricLoginSuccess: 1,
			},
			Histograms: map[goLogin.MetricID][]uint64{
				goLogin.MetricValidateLatency: {1, 0, 0, 0, 0, 0, 0, 0},
			},
		},
	}

	exp, err := NewOTelExporterFromSource(meter, src)
	if err != nil {
		t.Fatalf("NewOTelExporterFromSource failed: %v", err)
	}
	defer func() {
		if err := exp.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(v uint64) {
			defer wg.Done()
			src.mu.Lock()
			src.snapshot.Counters[goLogin.MetricLoginSuccess] = v
			src.mu.Unlock()

			var rm metricdata.ResourceMetrics
			_ = reader.Collect(context.Background(), &rm)
		}(uint64(i + 1))
	}
	wg.Wait()
}

func collectedInt64(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				if len(data.DataPoints) == 1 {
					return data.DataPoints[0].Value
				}
			case metricdata.Gauge[int64]:
				if len(data.DataPoints) == 1 {
					return data.DataPoints[0].Value
				}
			}
			t.Fatalf("metric %s has unexpected data %T", name, m.Data)
		}
	}
	t.Fatalf("metric %s not collected", name)
	return 0
}

func TestExporterReportsLoginLatencyAndCounters(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("gologin-test")

	src := &fakeSource{
		snapshot: goLogin.MetricsSnapshot{
			Counters: map[goLogin.MetricID]uint64{
				goLogin.MetricLoginLocked:   4,
				goLogin.MetricAccountLocked: 2,
			},
			Histograms: map[goLogin.MetricID][]uint64{
				goLogin.MetricLoginLatency: {0, 1, 5, 0, 0, 0, 0, 2},
			},
		},
		dropped: 3,
	}
	exp, err := NewOTelExporterFromSource(meter, src)
	if err != nil {
		t.Fatalf("NewOTelExporterFromSource failed: %v", err)
	}
	defer exp.Close()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	want := map[string]int64{
		"gologin_login_locked_total":                    4,
		"gologin_account_locked_total":                  2,
		"gologin_login_latency_seconds_bucket_le_0_01":  1,
		"gologin_login_latency_seconds_bucket_le_0_025": 6,
		"gologin_login_latency_seconds_bucket_le_inf":   8,
		"gologin_login_latency_seconds_count":           8,
		"gologin_audit_dropped_total":                   3,
	}
	for name, v := range want {
		if got := collectedInt64(t, rm, name); got != v {
			t.Fatalf("%s = %d, want %d", name, got, v)
		}
	}
}

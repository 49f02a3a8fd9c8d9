package prometheus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	goLogin "github.com/MrEthical07/goLogin"
	"github.com/MrEthical07/goLogin/kvstore"
	"github.com/MrEthical07/goLogin/metrics/export/internaldefs"
	"github.com/MrEthical07/goLogin/userstore"
	"golang.org/x/crypto/bcrypt"
)

type fakeSource struct {
	snapshot goLogin.MetricsSnapshot
	dropped  uint64
}

func (f fakeSource) MetricsSnapshot() goLogin.MetricsSnapshot { return f.snapshot }
func (f fakeSource) AuditDropped() uint64                     { return f.dropped }

func TestRenderEmptyWhenMetricsDisabled(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: goLogin.MetricsSnapshot{
			Counters:   map[goLogin.MetricID]uint64{},
			Histograms: map[goLogin.MetricID][]uint64{},
		},
		dropped: 0,
	})

	if got := exp.Render(); got != "" {
		t.Fatalf("expected empty output for disabled metrics, got:\n%s", got)
	}
}

func TestRenderDeterministicIncludesCounterAndHistogram(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: goLogin.MetricsSnapshot{
			Counters: map[goLogin.MetricID]uint64{
				goLogin.MetricLoginSuccess: 7,
			},
			Histograms: map[goLogin.MetricID][]uint64{
				goLogin.MetricValidateLatency: {1, 2, 3, 4, 5, 6, 7, 8},
			},
		},
		dropped: 2,
	})

	out := exp.Render()
	if !strings.Contains(out, "gologin_login_success_total 7") {
		t.Fatalf("expected login_success counter in output, got:\n%s", out)
	}
	if !strings.Contains(out, "gologin_validate_latency_seconds_bucket{le=\"0.005\"} 1") {
		t.Fatalf("expected first histogram bucket in output, got:\n%s", out)
	}
	if !strings.Contains(out, "gologin_validate_latency_seconds_bucket{le=\"+Inf\"} 36") {
		t.Fatalf("expected +Inf cumulative bucket in output, got:\n%s", out)
	}
	if !strings.Contains(out, "gologin_audit_dropped_total 2") {
		t.Fatalf("expected audit dropped counter in output, got:\n%s", out)
	}
}

func TestHandlerWritesPrometheusContentType(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: goLogin.MetricsSnapshot{
			Counters:   map[goLogin.MetricID]uint64{goLogin.MetricLoginSuccess: 1},
			Histograms: map[goLogin.MetricID][]uint64{},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	exp.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "text/plain") {
		t.Fatalf("expected prometheus content type, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRenderListsEveryDefinedSeries(t *testing.T) {
	counters := make(map[goLogin.MetricID]uint64, len(internaldefs.CounterDefs))
	for i, def := range internaldefs.CounterDefs {
		counters[def.ID] = uint64(i + 1)
	}
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: goLogin.MetricsSnapshot{
			Counters: counters,
			Histograms: map[goLogin.MetricID][]uint64{
				goLogin.MetricLoginLatency: {0, 0, 3, 0, 0, 0, 0, 1},
			},
		},
	})

	out := exp.Render()
	for i, def := range internaldefs.CounterDefs {
		want := def.Name + " " + strconv.Itoa(i+1) + "\n"
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, out)
		}
	}
	for _, def := range internaldefs.HistogramDefs {
		if !strings.Contains(out, "# TYPE "+def.Name+" histogram") {
			t.Fatalf("expected histogram %s in output", def.Name)
		}
	}
	if !strings.Contains(out, "gologin_login_latency_seconds_bucket{le=\"0.025\"} 3") {
		t.Fatalf("expected cumulative login latency bucket, got:\n%s", out)
	}
	if !strings.Contains(out, "gologin_login_latency_seconds_count 4") {
		t.Fatalf("expected login latency count 4, got:\n%s", out)
	}
}

func BenchmarkRender(b *testing.B) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: goLogin.MetricsSnapshot{
			Counters: map[goLogin.MetricID]uint64{
				goLogin.MetricLoginSuccess:     1000,
				goLogin.MetricLoginFailure:     40,
				goLogin.MetricLoginLocked:      12,
				goLogin.MetricAccountLocked:    4,
				goLogin.MetricSessionCreated:   1000,
				goLogin.MetricSessionRefreshed: 800,
				goLogin.MetricLogout:           20,
			},
			Histograms: map[goLogin.MetricID][]uint64{
				goLogin.MetricLoginLatency:    {5, 10, 900, 60, 20, 4, 1, 0},
				goLogin.MetricValidateLatency: {10, 20, 30, 40, 50, 60, 70, 80},
			},
		},
		dropped: 0,
	})

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = exp.Render()
	}
}

func TestRenderFromLiveEngine(t *testing.T) {
	cfg := goLogin.DefaultConfig()
	cfg.Password.BcryptCost = bcrypt.MinCost
	cfg.Audit.Enabled = false

	engine, err := goLogin.New().
		WithConfig(cfg).
		WithStore(kvstore.NewMemory()).
		WithUserStore(userstore.NewMemory()).
		WithMetricsEnabled(true).
		WithLatencyHistograms(true).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer engine.Close()

	ctx := context.Background()
	if _, err := engine.Register(ctx, "alice", "Password1", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := engine.Login(ctx, "alice", "nope"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := engine.Login(ctx, "ghost", "nope"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	out := NewPrometheusExporter(engine).Render()
	for _, want := range []string{
		"gologin_account_creation_success_total 1",
		"gologin_login_failure_total 2",
		"gologin_login_user_not_found_total 1",
		"gologin_login_latency_seconds_count 2",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, out)
		}
	}
}

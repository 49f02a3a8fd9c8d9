package prometheus

import (
	"net/http"
	"strconv"
	"strings"

	goLogin "github.com/MrEthical07/goLogin"
	"github.com/MrEthical07/goLogin/metrics/export/internaldefs"
)

type metricsSource interface {
	MetricsSnapshot() goLogin.MetricsSnapshot
	AuditDropped() uint64
}

// PrometheusExporter serves the login engine's counters and latency
// histograms as Prometheus text. It holds no state of its own; every scrape
// takes a fresh snapshot.
type PrometheusExporter struct {
	source metricsSource
}

// NewPrometheusExporter reads from engine on every scrape.
func NewPrometheusExporter(engine *goLogin.Engine) *PrometheusExporter {
	return &PrometheusExporter{source: engine}
}

// NewPrometheusExporterFromSource reads from any value with the engine's
// snapshot methods.
func NewPrometheusExporterFromSource(source metricsSource) *PrometheusExporter {
	return &PrometheusExporter{source: source}
}

// Handler serves [PrometheusExporter.Render] at whatever path it is mounted on.
func (p *PrometheusExporter) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		_, _ = w.Write([]byte(p.Render()))
	})
}

// Render returns the current metrics, or "" when the engine has metrics
// disabled and no audit events were dropped.
func (p *PrometheusExporter) Render() string {
	if p == nil || p.source == nil {
		return ""
	}

	snapshot := p.source.MetricsSnapshot()
	dropped := p.source.AuditDropped()
	if len(snapshot.Counters) == 0 && len(snapshot.Histograms) == 0 && dropped == 0 {
		return ""
	}

	var b strings.Builder
	b.Grow(4096)

	for _, def := range internaldefs.CounterDefs {
		writeHeader(&b, def.Name, def.Help, "counter")
		writeSample(&b, def.Name, "", snapshot.Counters[def.ID])
	}
	for _, def := range internaldefs.HistogramDefs {
		writeLatency(&b, def, snapshot.Histograms[def.ID])
	}
	writeHeader(&b, internaldefs.AuditDroppedName, internaldefs.AuditDroppedHelp, "counter")
	writeSample(&b, internaldefs.AuditDroppedName, "", dropped)

	return b.String()
}

// writeLatency emits one latency histogram. Engine buckets are per-bucket
// counts; the exposition format wants running totals.
func writeLatency(b *strings.Builder, def internaldefs.HistogramDef, raw []uint64) {
	cumulative := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(raw))

	writeHeader(b, def.Name, def.Help, "histogram")
	for i, le := range internaldefs.HistogramBounds {
		writeSample(b, def.Name+"_bucket", `le="`+le+`"`, cumulative[i])
	}
	writeSample(b, def.Name+"_count", "", cumulative[len(cumulative)-1])
	// The engine keeps no running sum.
	writeSample(b, def.Name+"_sum", "", 0)
}

func writeHeader(b *strings.Builder, name, help, kind string) {
	b.WriteString("# HELP ")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(escapeHelp(help))
	b.WriteString("\n# TYPE ")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(kind)
	b.WriteByte('\n')
}

func writeSample(b *strings.Builder, name, labels string, value uint64) {
	b.WriteString(name)
	if labels != "" {
		b.WriteByte('{')
		b.WriteString(labels)
		b.WriteByte('}')
	}
	b.WriteByte(' ')
	b.WriteString(strconv.FormatUint(value, 10))
	b.WriteByte('\n')
}

var helpEscaper = strings.NewReplacer(`\`, `\\`, "\n", `\n`)

func escapeHelp(help string) string {
	return helpEscaper.Replace(help)
}

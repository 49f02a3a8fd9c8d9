// Package prometheus renders goLogin engine metrics in the Prometheus text
// exposition format.
//
// [NewPrometheusExporter] wraps a [goLogin.Engine]; mount
// [PrometheusExporter.Handler] on the scrape path. Counters are named
// gologin_*_total. The login and session verification latencies are
// histograms with bounds from 5ms to 500ms.
//
// Nothing is registered globally.
package prometheus

// Package otel publishes goLogin engine metrics through an OpenTelemetry meter.
//
// [NewOTelExporter] registers one Int64ObservableCounter per engine counter and
// one Int64ObservableGauge per histogram bucket, all fed by a single callback
// that reads [goLogin.Engine.MetricsSnapshot]. The caller owns the
// MeterProvider.
package otel

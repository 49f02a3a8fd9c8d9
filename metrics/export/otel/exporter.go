package otel

import (
	"context"
	"errors"
	"fmt"

	goLogin "github.com/MrEthical07/goLogin"
	"github.com/MrEthical07/goLogin/metrics/export/internaldefs"
	"go.opentelemetry.io/otel/metric"
)

var (
	ErrNilMeter  = errors.New("nil meter")
	ErrNilSource = errors.New("nil metrics source")
)

type metricsSource interface {
	MetricsSnapshot() goLogin.MetricsSnapshot
	AuditDropped() uint64
}

type observedCounter struct {
	id         goLogin.MetricID
	instrument metric.Int64ObservableCounter
}

// observedLatency mirrors one engine latency histogram as a gauge per bucket
// bound plus a sample count, since observable instruments cannot carry a
// pre-bucketed histogram.
type observedLatency struct {
	id      goLogin.MetricID
	buckets [8]metric.Int64ObservableGauge
	count   metric.Int64ObservableGauge
}

// OTelExporter publishes the login engine's metrics as observable
// instruments. Nothing is pushed: the registered callback snapshots the
// source whenever the meter provider collects.
type OTelExporter struct {
	source       metricsSource
	registration metric.Registration
	counters     []observedCounter
	latencies    []observedLatency
	auditDropped metric.Int64ObservableCounter
}

// NewOTelExporter registers every goLogin instrument on meter.
func NewOTelExporter(meter metric.Meter, engine *goLogin.Engine) (*OTelExporter, error) {
	return NewOTelExporterFromSource(meter, engine)
}

// NewOTelExporterFromSource is NewOTelExporter for any snapshot source.
func NewOTelExporterFromSource(meter metric.Meter, source metricsSource) (*OTelExporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	e := &OTelExporter{source: source}
	var observables []metric.Observable

	counters, err := e.registerCounters(meter)
	if err != nil {
		return nil, err
	}
	observables = append(observables, counters...)

	latencies, err := e.registerLatencies(meter)
	if err != nil {
		return nil, err
	}
	observables = append(observables, latencies...)

	e.auditDropped, err = meter.Int64ObservableCounter(
		internaldefs.AuditDroppedName,
		metric.WithDescription(internaldefs.AuditDroppedHelp),
	)
	if err != nil {
		return nil, fmt.Errorf("create audit dropped counter: %w", err)
	}
	observables = append(observables, e.auditDropped)

	e.registration, err = meter.RegisterCallback(e.observe, observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}
	return e, nil
}

func (e *OTelExporter) registerCounters(meter metric.Meter) ([]metric.Observable, error) {
	out := make([]metric.Observable, 0, len(internaldefs.CounterDefs))
	for _, def := range internaldefs.CounterDefs {
		ins, err := meter.Int64ObservableCounter(def.Name, metric.WithDescription(def.Help))
		if err != nil {
			return nil, fmt.Errorf("create observable counter %s: %w", def.Name, err)
		}
		e.counters = append(e.counters, observedCounter{id: def.ID, instrument: ins})
		out = append(out, ins)
	}
	return out, nil
}

func (e *OTelExporter) registerLatencies(meter metric.Meter) ([]metric.Observable, error) {
	var out []metric.Observable
	for _, def := range internaldefs.HistogramDefs {
		l := observedLatency{id: def.ID}
		for i, suffix := range internaldefs.HistogramBoundSuffix {
			name := def.Name + "_bucket_le_" + suffix
			desc := def.Help + " Samples at or below " + internaldefs.HistogramBounds[i] + "s."
			ins, err := meter.Int64ObservableGauge(name, metric.WithDescription(desc))
			if err != nil {
				return nil, fmt.Errorf("create latency bucket gauge %s: %w", name, err)
			}
			l.buckets[i] = ins
			out = append(out, ins)
		}
		countName := def.Name + "_count"
		count, err := meter.Int64ObservableGauge(countName, metric.WithDescription(def.Help+" Total samples."))
		if err != nil {
			return nil, fmt.Errorf("create latency count gauge %s: %w", countName, err)
		}
		l.count = count
		out = append(out, count)
		e.latencies = append(e.latencies, l)
	}
	return out, nil
}

func (e *OTelExporter) observe(_ context.Context, o metric.Observer) error {
	snapshot := e.source.MetricsSnapshot()
	for _, c := range e.counters {
		o.ObserveInt64(c.instrument, int64(snapshot.Counters[c.id]))
	}
	for _, l := range e.latencies {
		cumulative := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(snapshot.Histograms[l.id]))
		for i, ins := range l.buckets {
			o.ObserveInt64(ins, int64(cumulative[i]))
		}
		o.ObserveInt64(l.count, int64(cumulative[len(cumulative)-1]))
	}
	o.ObserveInt64(e.auditDropped, int64(e.source.AuditDropped()))
	return nil
}

// Close unregisters the collection callback. The instruments stay registered
// on the meter but stop reporting.
func (e *OTelExporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}

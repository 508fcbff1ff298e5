package server

import (
	"context"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Brownie44l1/http-pool/internal/response"
)

const metricPrefix = "httppool."

// Metrics holds server runtime metrics. Counters are kept both as atomics
// (for Snapshot) and as OpenTelemetry instruments.
type Metrics struct {
	ConnectionsAccepted atomic.Int64
	ConnectionsFailed   atomic.Int64
	ActiveConnections   atomic.Int64
	RequestsTotal       atomic.Int64
	Errors4xx           atomic.Int64
	Errors5xx           atomic.Int64

	// Latency tracking (simplified, the histogram has the distribution)
	TotalLatencyNs atomic.Int64

	accepted metric.Int64Counter
	failed   metric.Int64Counter
	active   metric.Int64UpDownCounter
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

// NewMetrics creates the instruments on meter. queueDepth, if not nil, is
// observed as a gauge.
func NewMetrics(meter metric.Meter, queueDepth func() int) (*Metrics, error) {
	m := &Metrics{}
	var err error

	if m.accepted, err = meter.Int64Counter(metricPrefix+"connections.accepted",
		metric.WithDescription("Connections handed to the worker queue"),
		metric.WithUnit("{connection}")); err != nil {
		return nil, err
	}
	if m.failed, err = meter.Int64Counter(metricPrefix+"connections.failed",
		metric.WithDescription("Connections closed without a complete response"),
		metric.WithUnit("{connection}")); err != nil {
		return nil, err
	}
	if m.active, err = meter.Int64UpDownCounter(metricPrefix+"connections.active",
		metric.WithDescription("Connections currently held by a worker"),
		metric.WithUnit("{connection}")); err != nil {
		return nil, err
	}
	if m.requests, err = meter.Int64Counter(metricPrefix+"requests",
		metric.WithDescription("Requests routed, by response status"),
		metric.WithUnit("{request}")); err != nil {
		return nil, err
	}
	if m.duration, err = meter.Float64Histogram(metricPrefix+"request.duration",
		metric.WithDescription("Time spent routing a request"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}

	if queueDepth != nil {
		_, err = meter.Int64ObservableGauge(metricPrefix+"queue.depth",
			metric.WithDescription("Accepted connections waiting for a worker"),
			metric.WithUnit("{connection}"),
			metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
				o.Observe(int64(queueDepth()))
				return nil
			}))
		if err != nil {
			return nil, err
		}
	}

	return m, nil
}

// ConnectionAccepted records a connection pushed onto the queue
func (m *Metrics) ConnectionAccepted(ctx context.Context) {
	m.ConnectionsAccepted.Add(1)
	m.accepted.Add(ctx, 1)
}

// ConnectionStarted records a worker picking up a connection
func (m *Metrics) ConnectionStarted(ctx context.Context) {
	m.ActiveConnections.Add(1)
	m.active.Add(ctx, 1)
}

// ConnectionDone records a worker releasing a connection
func (m *Metrics) ConnectionDone(ctx context.Context, failed bool) {
	m.ActiveConnections.Add(-1)
	m.active.Add(ctx, -1)
	if failed {
		m.ConnectionsFailed.Add(1)
		m.failed.Add(ctx, 1)
	}
}

// RecordRequest records a routed request
func (m *Metrics) RecordRequest(ctx context.Context, code response.StatusCode, duration time.Duration) {
	m.RequestsTotal.Add(1)
	m.TotalLatencyNs.Add(duration.Nanoseconds())

	if code.IsClientError() {
		m.Errors4xx.Add(1)
	} else if code.IsServerError() {
		m.Errors5xx.Add(1)
	}

	status := metric.WithAttributes(attribute.Int("http.response.status_code", int(code)))
	m.requests.Add(ctx, 1, status)
	m.duration.Record(ctx, duration.Seconds(), status)
}

// AverageLatency returns average request latency
func (m *Metrics) AverageLatency() time.Duration {
	totalReqs := m.RequestsTotal.Load()
	if totalReqs == 0 {
		return 0
	}

	avgNs := m.TotalLatencyNs.Load() / totalReqs
	return time.Duration(avgNs)
}

// MetricsSnapshot is a point-in-time copy of Metrics
type MetricsSnapshot struct {
	ConnectionsAccepted int64
	ConnectionsFailed   int64
	ActiveConnections   int64
	RequestsTotal       int64
	Errors4xx           int64
	Errors5xx           int64
	AverageLatency      time.Duration
	QueueDepth          int
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		ConnectionsAccepted: m.ConnectionsAccepted.Load(),
		ConnectionsFailed:   m.ConnectionsFailed.Load(),
		ActiveConnections:   m.ActiveConnections.Load(),
		RequestsTotal:       m.RequestsTotal.Load(),
		Errors4xx:           m.Errors4xx.Load(),
		Errors5xx:           m.Errors5xx.Load(),
		AverageLatency:      m.AverageLatency(),
	}
}

package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records telemetry for guarded outbound calls and article
// generation.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordCall records one guarded outbound call with duration and
	// error status, attributed to the breaker's resource name.
	RecordCall(ctx context.Context, resource string, duration time.Duration, err error)

	// RecordRetry records a retry of a guarded call.
	RecordRetry(ctx context.Context, resource string, attempt int)

	// RecordCircuitTransition records a circuit state change.
	RecordCircuitTransition(ctx context.Context, resource, from, to string)

	// RecordArticle records one article generation with duration and
	// error status.
	RecordArticle(ctx context.Context, duration time.Duration, err error)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	callTotal    metric.Int64Counter
	callErrors   metric.Int64Counter
	callDuration metric.Float64Histogram
	retryTotal   metric.Int64Counter
	circuitTrans metric.Int64Counter
	articleHist  metric.Float64Histogram
}

// NewMetrics creates a Metrics instance with the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	callTotal, err := meter.Int64Counter(
		"pressgen.call.total",
		metric.WithDescription("Total guarded outbound calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	callErrors, err := meter.Int64Counter(
		"pressgen.call.errors",
		metric.WithDescription("Failed guarded outbound calls"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	callDuration, err := meter.Float64Histogram(
		"pressgen.call.duration_ms",
		metric.WithDescription("Guarded outbound call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	retryTotal, err := meter.Int64Counter(
		"pressgen.retry.total",
		metric.WithDescription("Retries of guarded outbound calls"),
		metric.WithUnit("{retry}"),
	)
	if err != nil {
		return nil, err
	}

	circuitTrans, err := meter.Int64Counter(
		"pressgen.circuit.transitions",
		metric.WithDescription("Circuit breaker state transitions"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, err
	}

	articleHist, err := meter.Float64Histogram(
		"pressgen.article.duration_ms",
		metric.WithDescription("Article generation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		callTotal:    callTotal,
		callErrors:   callErrors,
		callDuration: callDuration,
		retryTotal:   retryTotal,
		circuitTrans: circuitTrans,
		articleHist:  articleHist,
	}, nil
}

func (m *metricsImpl) RecordCall(ctx context.Context, resource string, duration time.Duration, err error) {
	opt := metric.WithAttributes(attribute.String("resource", resource))

	m.callTotal.Add(ctx, 1, opt)
	if err != nil {
		m.callErrors.Add(ctx, 1, opt)
	}
	m.callDuration.Record(ctx, float64(duration.Milliseconds()), opt)
}

func (m *metricsImpl) RecordRetry(ctx context.Context, resource string, attempt int) {
	m.retryTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("resource", resource),
		attribute.Int("attempt", attempt),
	))
}

func (m *metricsImpl) RecordCircuitTransition(ctx context.Context, resource, from, to string) {
	m.circuitTrans.Add(ctx, 1, metric.WithAttributes(
		attribute.String("resource", resource),
		attribute.String("from", from),
		attribute.String("to", to),
	))
}

func (m *metricsImpl) RecordArticle(ctx context.Context, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.articleHist.Record(ctx, float64(duration.Milliseconds()),
		metric.WithAttributes(attribute.String("status", status)))
}

// nopMetrics discards all measurements.
type nopMetrics struct{}

func (nopMetrics) RecordCall(context.Context, string, time.Duration, error) {}

func (nopMetrics) RecordRetry(context.Context, string, int) {}

func (nopMetrics) RecordCircuitTransition(context.Context, string, string, string) {}

func (nopMetrics) RecordArticle(context.Context, time.Duration, error) {}

// NopMetrics returns a Metrics that discards everything.
func NopMetrics() Metrics { return nopMetrics{} }

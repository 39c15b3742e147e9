package telemetry

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Checkout outcomes recorded by storefront_checkout_total
const (
	CheckoutOutcomeSuccess          = "success"
	CheckoutOutcomeEmptyCart        = "empty_cart"
	CheckoutOutcomeInvalidItems     = "invalid_items"
	CheckoutOutcomeRejected         = "rejected"
	CheckoutOutcomeUpstreamError    = "upstream_error"
	CheckoutOutcomeInProgress       = "in_progress"
	CheckoutOutcomeNavigationFailed = "navigation_failed"
	CheckoutOutcomeError            = "error"
)

var (
	attrOutcome   = attribute.Key("outcome")
	attrOperation = attribute.Key("operation")
	attrMethod    = attribute.Key("http.method")
	attrRoute     = attribute.Key("http.route")
	attrStatus    = attribute.Key("http.status_code")
)

var (
	// upstreamBuckets cover commerce platform GraphQL calls, which include
	// the platform's own checkout validation
	upstreamBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30}
	// apiBuckets cover request handling of the JSON API
	apiBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
)

// ErrMeterNil is returned when metrics are built without a meter.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// StorefrontMetrics tracks cart activity, checkout outcomes and platform latency.
type StorefrontMetrics struct {
	logger *zap.Logger

	checkoutTotal      metric.Int64Counter
	cartMutationsTotal metric.Int64Counter
	upstreamDuration   metric.Float64Histogram
	streamSubscribers  metric.Int64Gauge

	subscribers atomic.Int64
}

// StorefrontMetricsConfig holds configuration for storefront metrics.
type StorefrontMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

// NewStorefrontMetrics creates the storefront instruments on cfg.Meter.
func NewStorefrontMetrics(cfg StorefrontMetricsConfig) (*StorefrontMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	sm := &StorefrontMetrics{logger: logger}

	var err error
	if sm.checkoutTotal, err = cfg.Meter.Int64Counter(
		"storefront_checkout_total",
		metric.WithDescription("Total number of checkout submissions by outcome"),
		metric.WithUnit("{checkouts}"),
	); err != nil {
		return nil, err
	}
	if sm.cartMutationsTotal, err = cfg.Meter.Int64Counter(
		"storefront_cart_mutations_total",
		metric.WithDescription("Total number of completed cart mutations"),
		metric.WithUnit("{mutations}"),
	); err != nil {
		return nil, err
	}
	if sm.upstreamDuration, err = cfg.Meter.Float64Histogram(
		"storefront_upstream_request_duration_seconds",
		metric.WithDescription("Duration of commerce platform GraphQL requests"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(upstreamBuckets...),
	); err != nil {
		return nil, err
	}
	if sm.streamSubscribers, err = cfg.Meter.Int64Gauge(
		"storefront_cart_stream_subscribers",
		metric.WithDescription("Current number of open cart event streams"),
		metric.WithUnit("{subscribers}"),
	); err != nil {
		return nil, err
	}
	return sm, nil
}

// RecordCheckout records one checkout submission with its outcome.
func (sm *StorefrontMetrics) RecordCheckout(ctx context.Context, outcome string) {
	sm.checkoutTotal.Add(ctx, 1, metric.WithAttributes(attrOutcome.String(outcome)))
}

// RecordCartMutation records one completed cart mutation.
func (sm *StorefrontMetrics) RecordCartMutation(ctx context.Context, operation string) {
	sm.cartMutationsTotal.Add(ctx, 1, metric.WithAttributes(attrOperation.String(operation)))
}

// RecordUpstreamRequest records the duration of one platform request.
func (sm *StorefrontMetrics) RecordUpstreamRequest(ctx context.Context, operation, outcome string, d time.Duration) {
	sm.upstreamDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attrOperation.String(operation),
		attrOutcome.String(outcome),
	))
}

// StreamOpened increments the open stream gauge.
func (sm *StorefrontMetrics) StreamOpened(ctx context.Context) {
	sm.streamSubscribers.Record(ctx, sm.subscribers.Add(1))
}

// StreamClosed decrements the open stream gauge.
func (sm *StorefrontMetrics) StreamClosed(ctx context.Context) {
	sm.streamSubscribers.Record(ctx, sm.subscribers.Add(-1))
}

// APIMetrics records request counts, latency and response sizes of the JSON API.
type APIMetrics struct {
	requests     metric.Int64Counter
	duration     metric.Float64Histogram
	responseSize metric.Int64Histogram
	inFlight     metric.Int64UpDownCounter
}

// NewAPIMetrics creates the API request instruments on meter.
func NewAPIMetrics(meter metric.Meter) (*APIMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	m := &APIMetrics{}

	var err error
	if m.requests, err = meter.Int64Counter(
		"http_server_request_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	); err != nil {
		return nil, err
	}
	if m.duration, err = meter.Float64Histogram(
		"http_server_request_duration_seconds",
		metric.WithDescription("Latency of API requests, cart streams excluded"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(apiBuckets...),
	); err != nil {
		return nil, err
	}
	if m.responseSize, err = meter.Int64Histogram(
		"http_server_response_size_bytes",
		metric.WithDescription("HTTP response body size in bytes"),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(100, 500, 1000, 5000, 10000, 50000, 100000, 500000),
	); err != nil {
		return nil, err
	}
	if m.inFlight, err = meter.Int64UpDownCounter(
		"http_server_active_requests",
		metric.WithDescription("Number of requests currently being served"),
		metric.WithUnit("{request}"),
	); err != nil {
		return nil, err
	}
	return m, nil
}

// Begin marks a request as in flight and returns the func that ends it.
func (m *APIMetrics) Begin(ctx context.Context) func() {
	m.inFlight.Add(ctx, 1)
	return func() { m.inFlight.Add(ctx, -1) }
}

// RecordRequest records a finished request. A zero duration skips the
// latency histogram, which long-lived streams would skew.
func (m *APIMetrics) RecordRequest(ctx context.Context, method, route string, status int, d time.Duration, size int) {
	attrs := metric.WithAttributes(attrMethod.String(method), attrRoute.String(route))
	m.requests.Add(ctx, 1, metric.WithAttributes(
		attrMethod.String(method),
		attrRoute.String(route),
		attrStatus.Int(status),
	))
	if d > 0 {
		m.duration.Record(ctx, d.Seconds(), attrs)
	}
	if size > 0 {
		m.responseSize.Record(ctx, int64(size), attrs)
	}
}

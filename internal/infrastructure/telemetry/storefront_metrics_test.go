package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/infrastructure/telemetry"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func newTestStorefrontMetrics(t *testing.T) (*telemetry.StorefrontMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	sm, err := telemetry.NewStorefrontMetrics(telemetry.StorefrontMetricsConfig{
		Meter:  provider.Meter("test"),
		Logger: zap.NewNop(),
	})
	require.NoError(t, err)
	return sm, reader
}

func TestNewStorefrontMetrics_NilMeter(t *testing.T) {
	sm, err := telemetry.NewStorefrontMetrics(telemetry.StorefrontMetricsConfig{})

	require.ErrorIs(t, err, telemetry.ErrMeterNil)
	assert.Nil(t, sm)
}

func TestNewStorefrontMetrics_Noop(t *testing.T) {
	sm, err := telemetry.NewStorefrontMetrics(telemetry.StorefrontMetricsConfig{
		Meter: noop.NewMeterProvider().Meter("test"),
	})
	require.NoError(t, err)

	ctx := context.Background()
	sm.RecordCheckout(ctx, telemetry.CheckoutOutcomeSuccess)
	sm.RecordCartMutation(ctx, "add_item")
	sm.RecordUpstreamRequest(ctx, "cartCreate", "ok", 10*time.Millisecond)
	sm.StreamOpened(ctx)
	sm.StreamClosed(ctx)
}

func TestStorefrontMetrics_RecordCheckout(t *testing.T) {
	sm, reader := newTestStorefrontMetrics(t)
	ctx := context.Background()

	sm.RecordCheckout(ctx, telemetry.CheckoutOutcomeSuccess)
	sm.RecordCheckout(ctx, telemetry.CheckoutOutcomeSuccess)
	sm.RecordCheckout(ctx, telemetry.CheckoutOutcomeRejected)

	metrics := collect(t, reader)
	m, ok := metrics["storefront_checkout_total"]
	require.True(t, ok)

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	byOutcome := make(map[string]int64)
	for _, dp := range sum.DataPoints {
		v, _ := dp.Attributes.Value(attribute.Key("outcome"))
		byOutcome[v.AsString()] = dp.Value
	}
	assert.Equal(t, int64(2), byOutcome[telemetry.CheckoutOutcomeSuccess])
	assert.Equal(t, int64(1), byOutcome[telemetry.CheckoutOutcomeRejected])
}

func TestStorefrontMetrics_StreamGauge(t *testing.T) {
	sm, reader := newTestStorefrontMetrics(t)
	ctx := context.Background()

	sm.StreamOpened(ctx)
	sm.StreamOpened(ctx)
	sm.StreamClosed(ctx)

	m, ok := collect(t, reader)["storefront_cart_stream_subscribers"]
	require.True(t, ok)
	gauge, ok := m.Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, int64(1), gauge.DataPoints[0].Value)
}

func TestStorefrontMetrics_UpstreamDurationByOperation(t *testing.T) {
	sm, reader := newTestStorefrontMetrics(t)
	ctx := context.Background()

	sm.RecordUpstreamRequest(ctx, "cartCreate", "ok", 300*time.Millisecond)
	sm.RecordUpstreamRequest(ctx, "products", "ok", 40*time.Millisecond)

	m, ok := collect(t, reader)["storefront_upstream_request_duration_seconds"]
	require.True(t, ok)
	hist, ok := m.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 2)

	for _, dp := range hist.DataPoints {
		op, _ := dp.Attributes.Value(attribute.Key("operation"))
		assert.Equal(t, uint64(1), dp.Count, op.AsString())
		if op.AsString() == "cartCreate" {
			assert.InDelta(t, 0.3, dp.Sum, 1e-9)
		}
	}
}

func newTestAPIMetrics(t *testing.T) (*telemetry.APIMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := telemetry.NewAPIMetrics(provider.Meter("test"))
	require.NoError(t, err)
	return m, reader
}

func TestNewAPIMetrics_NilMeter(t *testing.T) {
	m, err := telemetry.NewAPIMetrics(nil)

	require.ErrorIs(t, err, telemetry.ErrMeterNil)
	assert.Nil(t, m)
}

func TestAPIMetrics_RecordRequest(t *testing.T) {
	m, reader := newTestAPIMetrics(t)
	ctx := context.Background()

	m.RecordRequest(ctx, "POST", "/api/v1/checkout", 201, 120*time.Millisecond, 64)
	m.RecordRequest(ctx, "POST", "/api/v1/checkout", 422, 5*time.Millisecond, 80)

	metrics := collect(t, reader)

	total, ok := metrics["http_server_request_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Len(t, total.DataPoints, 2, "one series per status code")

	latency, ok := metrics["http_server_request_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, latency.DataPoints, 1)
	assert.Equal(t, uint64(2), latency.DataPoints[0].Count)
}

func TestAPIMetrics_ZeroDurationSkipsLatency(t *testing.T) {
	m, reader := newTestAPIMetrics(t)
	ctx := context.Background()

	m.RecordRequest(ctx, "GET", "/api/v1/cart/stream", 200, 0, 512)

	metrics := collect(t, reader)
	_, ok := metrics["http_server_request_total"]
	assert.True(t, ok)
	_, ok = metrics["http_server_request_duration_seconds"]
	assert.False(t, ok, "streams must not feed the latency histogram")
}

func TestAPIMetrics_BeginEnd(t *testing.T) {
	m, reader := newTestAPIMetrics(t)
	ctx := context.Background()

	end := m.Begin(ctx)
	inFlight, ok := collect(t, reader)["http_server_active_requests"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, inFlight.DataPoints, 1)
	assert.Equal(t, int64(1), inFlight.DataPoints[0].Value)

	end()
	inFlight, ok = collect(t, reader)["http_server_active_requests"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Equal(t, int64(0), inFlight.DataPoints[0].Value)
}

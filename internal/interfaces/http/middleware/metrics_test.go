package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func newTestMeter(t *testing.T) (metric.Meter, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	return mp.Meter("http.server"), reader
}

func collectByName(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
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

func TestHTTPMetrics_NoMeterPassesThrough(t *testing.T) {
	router := gin.New()
	router.Use(HTTPMetrics(HTTPMetricsConfig{Logger: zap.NewNop()}))
	router.GET("/api/v1/cart", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"items": []string{}})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHTTPMetrics_CountsByRouteAndStatus(t *testing.T) {
	meter, reader := newTestMeter(t)

	router := gin.New()
	router.Use(HTTPMetrics(HTTPMetricsConfig{Meter: meter}))
	router.GET("/api/v1/catalog/products/:handle", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"handle": c.Param("handle")})
	})
	router.POST("/api/v1/checkout", func(c *gin.Context) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"code": "ERR_EMPTY_CART"})
	})

	for _, handle := range []string{"blue-shirt", "red-shirt", "green-shirt"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products/"+handle, nil))
	}
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil))

	metrics := collectByName(t, reader)

	total, ok := metrics["http_server_request_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, total.DataPoints, 2, "product handles collapse into one route series")

	byRoute := make(map[string]int64)
	for _, dp := range total.DataPoints {
		route, _ := dp.Attributes.Value(attribute.Key("http.route"))
		byRoute[route.AsString()] = dp.Value
	}
	assert.Equal(t, int64(3), byRoute["/api/v1/catalog/products/:handle"])
	assert.Equal(t, int64(1), byRoute["/api/v1/checkout"])

	_, ok = metrics["http_server_response_size_bytes"]
	assert.True(t, ok)
}

func TestHTTPMetrics_EventStreamSkipsLatency(t *testing.T) {
	meter, reader := newTestMeter(t)

	router := gin.New()
	router.Use(HTTPMetrics(HTTPMetricsConfig{Meter: meter}))
	router.GET("/api/v1/cart/stream", func(c *gin.Context) {
		c.Header("Content-Type", "text/event-stream")
		c.String(http.StatusOK, "event: cart\ndata: {}\n\n")
	})
	router.GET("/api/v1/cart", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{})
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/cart/stream", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	metrics := collectByName(t, reader)

	latency, ok := metrics["http_server_request_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, latency.DataPoints, 1)
	route, _ := latency.DataPoints[0].Attributes.Value(attribute.Key("http.route"))
	assert.Equal(t, "/api/v1/cart", route.AsString())

	total, ok := metrics["http_server_request_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Len(t, total.DataPoints, 2, "the stream is still counted")
}

func TestHTTPMetrics_ActiveRequestsReturnToZero(t *testing.T) {
	meter, reader := newTestMeter(t)

	router := gin.New()
	router.Use(HTTPMetrics(HTTPMetricsConfig{Meter: meter}))
	router.DELETE("/api/v1/cart", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil))

	active, ok := collectByName(t, reader)["http_server_active_requests"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, active.DataPoints, 1)
	assert.Equal(t, int64(0), active.DataPoints[0].Value)
}

func TestRoutePattern(t *testing.T) {
	router := gin.New()
	var got string
	router.GET("/api/v1/catalog/products/:handle", func(c *gin.Context) {
		got = routePattern(c)
	})
	router.NoRoute(func(c *gin.Context) {
		got = routePattern(c)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products/blue-shirt", nil))
	assert.Equal(t, "/api/v1/catalog/products/:handle", got)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, "unknown", got)
}

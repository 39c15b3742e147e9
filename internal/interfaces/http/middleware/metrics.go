package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/infrastructure/telemetry"
)

const eventStreamContentType = "text/event-stream"

// HTTPMetricsConfig holds configuration for the API metrics middleware.
type HTTPMetricsConfig struct {
	// Meter is nil when metrics export is off
	Meter  metric.Meter
	Logger *zap.Logger
}

// HTTPMetrics returns a Gin middleware that records API request metrics.
// Cart streams are counted but kept out of the latency histogram.
func HTTPMetrics(cfg HTTPMetricsConfig) gin.HandlerFunc {
	if cfg.Meter == nil {
		return passThrough
	}
	metrics, err := telemetry.NewAPIMetrics(cfg.Meter)
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("HTTP metrics disabled", zap.Error(err))
		}
		return passThrough
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()

		end := metrics.Begin(ctx)
		c.Next()
		end()

		elapsed := time.Since(start)
		if isEventStream(c) {
			elapsed = 0
		}
		metrics.RecordRequest(ctx, c.Request.Method, routePattern(c), c.Writer.Status(), elapsed, c.Writer.Size())
	}
}

func passThrough(c *gin.Context) {
	c.Next()
}

// routePattern returns the matched route rather than the raw path so product
// handles and line IDs do not explode label cardinality.
func routePattern(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unknown"
}

func isEventStream(c *gin.Context) bool {
	return strings.HasPrefix(c.Writer.Header().Get("Content-Type"), eventStreamContentType)
}

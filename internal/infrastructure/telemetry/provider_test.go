package telemetry

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

type memoryExporter struct {
	mu      sync.Mutex
	records []sdklog.Record
}

func (e *memoryExporter) Export(_ context.Context, records []sdklog.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range records {
		e.records = append(e.records, r.Clone())
	}
	return nil
}

func (e *memoryExporter) Shutdown(context.Context) error   { return nil }
func (e *memoryExporter) ForceFlush(context.Context) error { return nil }

func (e *memoryExporter) bodies() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.records))
	for _, r := range e.records {
		out = append(out, r.Body().AsString())
	}
	return out
}

func newLogProviders(t *testing.T) (*Providers, *memoryExporter) {
	t.Helper()
	exporter := &memoryExporter{}
	p := &Providers{
		service: "storefront-test",
		logs:    sdklog.NewLoggerProvider(sdklog.WithProcessor(sdklog.NewSimpleProcessor(exporter))),
	}
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })
	return p, exporter
}

func TestSetup_AllSignalsDisabled(t *testing.T) {
	ctx := context.Background()

	p, err := Setup(ctx, Config{
		CollectorEndpoint: "localhost:14317",
		ServiceName:       "test-service",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, p.TracingEnabled())
	assert.False(t, p.MetricsEnabled())
	assert.Nil(t, p.logs)
	assert.NotNil(t, p.Meter("storefront"))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.NoError(t, p.Shutdown(cancelled))
}

func TestSetup_Enabled(t *testing.T) {
	// Requires a local OTLP collector
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	p, err := Setup(ctx, Config{
		CollectorEndpoint: "localhost:14317",
		Insecure:          true,
		ServiceName:       "test-service",
		Traces:            true,
		SamplingRatio:     0.5,
		Metrics:           true,
		Logs:              true,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.True(t, p.TracingEnabled())
	assert.True(t, p.MetricsEnabled())
	assert.NotNil(t, p.logs)

	_, span := StartSpan(ctx, "test-span")
	span.End()
	_ = p.Shutdown(ctx)
}

func TestNewSampler(t *testing.T) {
	assert.Equal(t, "AlwaysOnSampler", newSampler(1).Description())
	assert.Equal(t, "AlwaysOffSampler", newSampler(0).Description())
	assert.Contains(t, newSampler(0.25).Description(), "TraceIDRatioBased{0.25}")
}

func TestProviders_LogExport_DisabledIsNop(t *testing.T) {
	p := &Providers{}

	core := p.logCore(zapcore.DebugLevel)
	assert.False(t, core.Enabled(zapcore.ErrorLevel))

	base := zap.NewNop()
	assert.Same(t, base, p.WithLogExport(base, zapcore.InfoLevel))
}

func TestProviders_WithLogExport_TeesToCollector(t *testing.T) {
	p, exporter := newLogProviders(t)
	observed, logs := observer.New(zapcore.DebugLevel)

	log := p.WithLogExport(zap.New(observed), zapcore.InfoLevel)
	log.Debug("cart loaded")
	log.Info("checkout created", zap.String("session_id", "s1"))
	log.Warn("checkout rejected")

	assert.Equal(t, 3, logs.Len(), "local core keeps every level")
	assert.Equal(t, []string{"checkout created", "checkout rejected"}, exporter.bodies(),
		"collector only receives entries at or above the export level")
}

func TestProviders_LogCore_WithKeepsLevel(t *testing.T) {
	p, exporter := newLogProviders(t)

	core := p.logCore(zapcore.WarnLevel).With([]zapcore.Field{zap.String("component", "cart")})
	log := zap.New(core)
	log.Info("dropped")
	log.Error("kept")

	assert.Equal(t, []string{"kept"}, exporter.bodies())
}

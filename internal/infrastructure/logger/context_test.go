package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContext(t *testing.T) {
	logger := zap.NewExample()
	ctx := WithContext(context.Background(), logger)

	assert.Same(t, logger, FromContext(ctx))
}

func TestFromContext_NotFoundOrWrongType(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	ctx := context.WithValue(context.Background(), LoggerKey, "not a logger")
	assert.NotPanics(t, func() {
		FromContext(ctx).Info("test")
	})
}

func TestRequestAndSessionIDs(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetSessionID(ctx))

	ctx = WithRequestID(ctx, "req-1")
	ctx = WithSessionID(ctx, "sess-1")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "sess-1", GetSessionID(ctx))
}

func TestContextLogger_InjectsFields(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	ctx := WithContext(context.Background(), zap.New(core))
	ctx = WithRequestID(ctx, "req-9")
	ctx = WithSessionID(ctx, "sess-9")

	L(ctx).With(zap.String("variant_id", "42")).Info("Item added")

	entries := recorded.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-9", fields["request_id"])
	assert.Equal(t, "sess-9", fields["session_id"])
	assert.Equal(t, "42", fields["variant_id"])
	assert.NotContains(t, fields, "trace_id")
}

func TestContextLogger_InjectsTraceContext(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	core, recorded := observer.New(zapcore.DebugLevel)
	WithLogger(ctx, zap.New(core)).Warn("Upstream slow")

	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, span.SpanContext().TraceID().String(), fields["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), fields["span_id"])
}

func TestContextLogger_NilLogger(t *testing.T) {
	cl := WithLogger(context.Background(), nil)
	assert.NotPanics(t, func() {
		cl.Debug("debug")
		cl.With(zap.Int("n", 1)).Error("error")
		_ = cl.Zap()
	})
}

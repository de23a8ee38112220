package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

func TestNewTracerProvider_WithoutEndpoint(t *testing.T) {
	ctx := context.Background()

	tp, err := NewTracerProvider(ctx, Config{
		ServiceName: "library",
		Version:     "test",
		Environment: "test",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = tp.Shutdown(ctx) })

	assert.Same(t, tp, otel.GetTracerProvider())

	_, span := tp.Tracer("test").Start(ctx, "op")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	require.NoError(t, tp.ForceFlush(ctx))
}

func TestNewTracerProvider_ResourceCarriesServiceName(t *testing.T) {
	ctx := context.Background()

	// the exporter dials lazily, so an unreachable endpoint is not an error
	tp, err := NewTracerProvider(ctx, Config{
		ServiceName: "library",
		Environment: "staging",
		Endpoint:    "127.0.0.1:1",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = tp.Shutdown(ctx) })

	rec := tracetest.NewSpanRecorder()
	tp.RegisterSpanProcessor(rec)

	_, span := tp.Tracer("test").Start(ctx, "op")
	span.End()

	spans := rec.Ended()
	require.Len(t, spans, 1)

	attrs := spans[0].Resource().Set()
	name, ok := attrs.Value(semconv.ServiceNameKey)
	require.True(t, ok)
	assert.Equal(t, "library", name.AsString())

	env, ok := attrs.Value(semconv.DeploymentEnvironmentKey)
	require.True(t, ok)
	assert.Equal(t, "staging", env.AsString())
}

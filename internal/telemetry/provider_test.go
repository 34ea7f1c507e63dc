package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInit_Disabled(t *testing.T) {
	shutdown, err := Init(context.Background(), Config{
		ServiceName:  "nullslot",
		Enabled:      false,
		OTLPEndpoint: "http://localhost:4318",
	})
	require.NoError(t, err)

	assert.NoError(t, shutdown(context.Background()))
	assert.Contains(t, otel.GetTextMapPropagator().Fields(), "traceparent")
}

func TestInit_Enabled(t *testing.T) {
	ctx := context.Background()
	shutdown, err := Init(ctx, Config{
		ServiceName:  "nullslot",
		Enabled:      true,
		OTLPEndpoint: "http://127.0.0.1:1/",
		SampleRatio:  1,
	})
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(ctx, "sampled")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	// The collector is unreachable; shutdown must still return.
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_ = shutdown(cancelled)
}

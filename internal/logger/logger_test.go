package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "log output: %s", buf.String())
	return entry
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "ParseLevel(%q)", in)
	}
}

func TestNew_JSONFormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "warn", Format: "json", Writer: &buf})

	l.Info("dropped")
	assert.Zero(t, buf.Len())

	l.Warn("kept", "user_id", "7")
	entry := decodeLine(t, &buf)
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "7", entry["user_id"])
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "info", Format: "text", Writer: &buf})

	l.Info("hello")

	assert.True(t, strings.Contains(buf.String(), "msg=hello"), buf.String())
}

func TestTraceContextHandler_AddsSpanIDs(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	var buf bytes.Buffer
	l := slog.New(NewTraceContextHandler(slog.NewJSONHandler(&buf, nil)))
	l.InfoContext(ctx, "inside span")

	entry := decodeLine(t, &buf)
	assert.Equal(t, span.SpanContext().TraceID().String(), entry["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), entry["span_id"])
}

func TestTraceContextHandler_NoSpan(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewTraceContextHandler(slog.NewJSONHandler(&buf, nil)))
	l.InfoContext(context.Background(), "no span")

	entry := decodeLine(t, &buf)
	assert.NotContains(t, entry, "trace_id")
	assert.NotContains(t, entry, "span_id")
}

func TestTraceContextHandler_ContextTags(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewTraceContextHandler(slog.NewJSONHandler(&buf, nil)))

	ctx := WithFlow(WithCommand(context.Background(), "login sso"), "oidc")
	l.InfoContext(ctx, "tagged")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "login sso", entry["nullslot.command"])
	assert.Equal(t, "oidc", entry["nullslot.flow"])
}

func TestMultiHandler_FansOutByLevel(t *testing.T) {
	var debugBuf, errorBuf bytes.Buffer
	h := NewMultiHandler(
		slog.NewJSONHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewJSONHandler(&errorBuf, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	l := slog.New(h).With("component", "test")

	l.Debug("detail")
	assert.NotZero(t, debugBuf.Len())
	assert.Zero(t, errorBuf.Len())

	l.Error("broken")
	assert.Contains(t, errorBuf.String(), `"component":"test"`)
}

func TestOTelHandler_Enabled(t *testing.T) {
	h := NewOTelHandler(slog.LevelWarn)
	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
	assert.NoError(t, h.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelError, "x", 0)))
}

package logger_test

import (
	"context"
	"testing"

	"github.com/Gunvolt24/orders_api/pkg/ctxmeta"
	"github.com/Gunvolt24/orders_api/pkg/logger"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_AddsRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.FromZap(zap.New(core), false)

	ctx := ctxmeta.WithRequestID(context.Background(), "req-1")
	log.Errorf(ctx, "upserting orders failed batch=%d", 3)

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	require.Equal(t, "upserting orders failed batch=3", entries[0].Message)
	require.Equal(t, "req-1", entries[0].ContextMap()["request_id"])
}

func TestZapLogger_NoContextFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.FromZap(zap.New(core), false)

	log.Infof(context.Background(), "orders retrieved count=%d", 2)
	log.Warnf(context.Background(), "fetch failed")

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Empty(t, entries[0].Context)
	require.Equal(t, zapcore.WarnLevel, entries[1].Level)
}

func TestZapLogger_AddsTraceAndSpanIDs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.FromZap(zap.New(core), false)

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	ctx, span := tp.Tracer("test").Start(context.Background(), "OrderService.GetOrders")
	defer span.End()

	log.Errorf(ctxmeta.WithRequestID(ctx, "req-2"), "retrieving orders failed")

	fields := logs.All()[0].ContextMap()
	require.Equal(t, "req-2", fields[ctxmeta.FieldRequestID])
	require.Equal(t, span.SpanContext().TraceID().String(), fields[ctxmeta.FieldTraceID])
	require.Equal(t, span.SpanContext().SpanID().String(), fields[ctxmeta.FieldSpanID])
}

package ctxmeta_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/orders_api/pkg/ctxmeta"
)

func TestRequestID_RoundTrip(t *testing.T) {
	parent := context.Background()
	ctx := ctxmeta.WithRequestID(parent, "req-123")

	got, ok := ctxmeta.RequestIDFromContext(ctx)
	require.True(t, ok)
	require.Equal(t, "req-123", got)

	_, ok = ctxmeta.RequestIDFromContext(parent)
	require.False(t, ok, "родительский контекст не меняется")
}

func TestWithRequestID_NoOpCases(t *testing.T) {
	parent := context.Background()
	require.Equal(t, parent, ctxmeta.WithRequestID(parent, ""))

	var nilCtx context.Context
	require.Nil(t, ctxmeta.WithRequestID(nilCtx, "req-1"))

	_, ok := ctxmeta.RequestIDFromContext(nilCtx)
	require.False(t, ok)
}

func TestRequestIDFromContext_ForeignKeyIgnored(t *testing.T) {
	// строковый ключ с тем же именем не должен совпасть с приватным ключом пакета
	ctx := context.WithValue(context.Background(), ctxmeta.FieldRequestID, "req-xyz") //nolint:staticcheck
	_, ok := ctxmeta.RequestIDFromContext(ctx)
	require.False(t, ok)
}

func TestLogFields_RequestIDOnly(t *testing.T) {
	require.Empty(t, ctxmeta.LogFields(context.Background()))

	ctx := ctxmeta.WithRequestID(context.Background(), "req-7")
	require.Equal(t, []any{ctxmeta.FieldRequestID, "req-7"}, ctxmeta.LogFields(ctx))
}

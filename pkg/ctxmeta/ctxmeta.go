// Пакет ctxmeta — метаданные запроса в context.Context: request_id от HTTP-слоя
// и trace_id/span_id активного спана. Им пользуются логгер и access-лог,
// не завися друг от друга.
package ctxmeta

import "context"

// Имена полей в структурных логах.
const (
	FieldRequestID = "request_id"
	FieldTraceID   = "trace_id"
	FieldSpanID    = "span_id"
)

type requestIDKey struct{}

// WithRequestID — контекст с request_id; пустой id или nil-контекст возвращаются как есть.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil || requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext — request_id запроса, если он был проставлен middleware.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	v, ok := ctx.Value(requestIDKey{}).(string)
	return v, ok && v != ""
}

// LogFields — пары ключ/значение для zap: request_id, trace_id, span_id.
// Отсутствующие значения пропускаются.
func LogFields(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	fields := make([]any, 0, 6)
	if rid, ok := RequestIDFromContext(ctx); ok {
		fields = append(fields, FieldRequestID, rid)
	}
	if tr, ok := TraceIDFromContext(ctx); ok {
		fields = append(fields, FieldTraceID, tr)
	}
	if sp, ok := SpanIDFromContext(ctx); ok {
		fields = append(fields, FieldSpanID, sp)
	}
	return fields
}

package ports

import "context"

// Logger — логгер, которым пользуются сервис, консьюмер и HTTP-слой.
// Из ctx реализация сама берёт request_id/trace_id/span_id.
type Logger interface {
	Infof(ctx context.Context, format string, args ...any)
	Warnf(ctx context.Context, format string, args ...any)
	// Errorf — сервис заказов пишет сюда каждую ошибку ровно один раз.
	Errorf(ctx context.Context, format string, args ...any)
}

package ports

import "context"

// MessageConsumer — фоновый приёмник пакетов заказов из брокера сообщений.
// Run блокируется до отмены ctx; Close освобождает соединения и безопасен при повторном вызове.
type MessageConsumer interface {
	Run(ctx context.Context) error
	Close() error
}

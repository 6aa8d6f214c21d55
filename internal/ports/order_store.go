package ports

import (
	"context"

	"github.com/Gunvolt24/orders_api/internal/domain"
	"github.com/google/uuid"
)

// OrderStore — постоянное хранилище заказов, ключ — ID заказа.
// Требования к реализации: список позиций после записи и чтения совпадает
// (порядок сохраняется); WithinTx применяет изменения атомарно.
type OrderStore interface {
	// All — полный просмотр всех заказов (порядок — родной для хранилища).
	All(ctx context.Context) ([]*domain.Order, error)

	// ByIDs — заказы, чьи ID входят в ids; отсутствующие ID пропускаются.
	ByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Order, error)

	// WithinTx — выполняет fn в одной транзакции: nil → commit, ошибка → rollback.
	WithinTx(ctx context.Context, fn func(tx OrderTx) error) error
}

// OrderTx — операции хранилища внутри транзакции.
type OrderTx interface {
	ByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Order, error)
	Insert(ctx context.Context, order *domain.Order) error
	Update(ctx context.Context, order *domain.Order) error
}

package ports

import (
	"context"

	"github.com/Gunvolt24/orders_api/internal/domain"
)

// OrderService — публичный контракт для транспортного слоя и консьюмера.
type OrderService interface {
	GetOrders(ctx context.Context, filter domain.IDFilter) ([]*domain.Order, error)
	UpsertOrders(ctx context.Context, orders []*domain.Order) ([]*domain.Order, error)
}

package ports

import (
	"context"

	"github.com/Gunvolt24/orders_api/internal/domain"
)

// OrderRepository — доменные операции над заказами (выборка и пакетный upsert).
type OrderRepository interface {
	GetOrders(ctx context.Context, filter domain.IDFilter) ([]*domain.Order, error)
	UpsertOrders(ctx context.Context, orders []*domain.Order) ([]*domain.Order, error)
}

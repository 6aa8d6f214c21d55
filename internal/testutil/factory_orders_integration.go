//go:build integration

package testutil

import (
	"time"

	"github.com/Gunvolt24/orders_api/internal/domain"
	"github.com/google/uuid"
)

// Мини-генератор валидного заказа со всеми проставленными полями.
func MakeOrder(opts ...func(*domain.Order)) *domain.Order {
	o := &domain.Order{
		ID:           uuid.New(),
		CustomerName: "John Smith",
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
		Items: []domain.Item{
			{ProductID: uuid.New(), Quantity: 1},
		},
	}

	for _, fn := range opts {
		fn(o)
	}
	return o
}

func WithID(id uuid.UUID) func(*domain.Order) {
	return func(o *domain.Order) { o.ID = id }
}

func WithCustomer(name string) func(*domain.Order) {
	return func(o *domain.Order) { o.CustomerName = name }
}

func WithCreatedAt(ts time.Time) func(*domain.Order) {
	return func(o *domain.Order) { o.CreatedAt = ts.UTC().Truncate(time.Millisecond) }
}

func WithItems(n int) func(*domain.Order) {
	return func(o *domain.Order) {
		o.Items = make([]domain.Item, 0, n)
		for i := 0; i < n; i++ {
			o.Items = append(o.Items, domain.Item{ProductID: uuid.New(), Quantity: i + 1})
		}
	}
}

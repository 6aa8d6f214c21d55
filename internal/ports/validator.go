package ports

import (
	"context"

	"github.com/Gunvolt24/orders_api/internal/domain"
)

type OrderValidator interface {
	Validate(ctx context.Context, order *domain.Order) error
}

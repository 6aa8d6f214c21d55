package validate

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/Gunvolt24/orders_api/internal/domain"
	"github.com/Gunvolt24/orders_api/internal/ports"
)

// Проверка, что OrderValidator удовлетворяет интерфейсу OrderValidator.
var _ ports.OrderValidator = (*OrderValidator)(nil)

var (
	// ErrInvalidOrder — базовая (sentinel error) ошибка валидации.
	ErrInvalidOrder = errors.New("order validation failed")
	// ErrEmptyBatch — пакет без заказов (частный случай ErrInvalidOrder).
	ErrEmptyBatch = fmt.Errorf("%w: пакет заказов пуст", ErrInvalidOrder)
)

// customerNamePattern — имя клиента непустое и начинается не с пробельного символа.
var customerNamePattern = regexp.MustCompile(`^\S.*$`)

// OrderValidator — структура для валидации заказа.
// Нулевые ID заказа/товара и пустая дата создания допустимы: их проставляет сервер.
type OrderValidator struct{}

// NewOrderValidator — конструктор OrderValidator.
// Возвращает ErrInvalidOrder (с обёрнутой причиной) при любой проблеме.
func NewOrderValidator() *OrderValidator { return &OrderValidator{} }

// Validate — проверяет корректность полей заказа.
func (v *OrderValidator) Validate(_ context.Context, order *domain.Order) error {
	if order == nil {
		return fmt.Errorf("%w: заказ не может быть nil", ErrInvalidOrder)
	}
	if !customerNamePattern.MatchString(order.CustomerName) {
		return fmt.Errorf("%w: customerName не может быть пустым и должен начинаться с непробельного символа", ErrInvalidOrder)
	}
	return v.validateItems(order.Items)
}

// Валидация позиций
func (v *OrderValidator) validateItems(items []domain.Item) error {
	for i := range items {
		if items[i].Quantity < 0 {
			return fmt.Errorf("%w: items[%d].quantity должен быть неотрицательным", ErrInvalidOrder, i)
		}
	}
	return nil
}

// ValidateBatch — валидация пакета: пакет непуст, каждый заказ валиден.
// В ошибке указывается индекс первого невалидного заказа.
func ValidateBatch(ctx context.Context, validator ports.OrderValidator, orders []*domain.Order) error {
	if len(orders) == 0 {
		return ErrEmptyBatch
	}
	for i, order := range orders {
		if err := validator.Validate(ctx, order); err != nil {
			return fmt.Errorf("orders[%d]: %w", i, err)
		}
	}
	return nil
}

package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/Gunvolt24/orders_api/internal/domain"
	"github.com/Gunvolt24/orders_api/internal/ports"
)

// ErrInvalidJSON — тело запроса/сообщения не разбирается как заказ или пакет заказов.
var ErrInvalidJSON = errors.New("invalid json")

// DecodeOrders — строгий разбор пакета заказов: JSON-массив или одиночный объект
// (пакет из одного заказа). Неизвестные поля и данные после значения — ошибка.
func DecodeOrders(raw []byte) ([]*domain.Order, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, fmt.Errorf("%w: payload is missing", ErrInvalidJSON)
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()

	var orders []*domain.Order
	switch trimmed[0] {
	case '[':
		if err := dec.Decode(&orders); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
	case '{':
		var order domain.Order
		if err := dec.Decode(&order); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
		orders = []*domain.Order{&order}
	default:
		return nil, fmt.Errorf("%w: expected array or object", ErrInvalidJSON)
	}

	// гарантируем отсутствие данных после значения
	if err := dec.Decode(new(json.RawMessage)); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data", ErrInvalidJSON)
	}
	return orders, nil
}

// ValidateOrdersFromJSON — разбор и валидация пакета заказов из JSON.
func ValidateOrdersFromJSON(ctx context.Context, validator ports.OrderValidator, raw []byte) ([]*domain.Order, error) {
	orders, err := DecodeOrders(raw)
	if err != nil {
		return nil, err
	}
	if err := ValidateBatch(ctx, validator, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

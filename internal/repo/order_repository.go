package repo

import (
	"context"
	"errors"

	"github.com/Gunvolt24/orders_api/internal/domain"
	"github.com/Gunvolt24/orders_api/internal/ports"
	"github.com/google/uuid"
)

// Проверка, что OrderRepository удовлетворяет интерфейсу OrderRepository.
var _ ports.OrderRepository = (*OrderRepository)(nil)

// ErrNilOrder — в пакете для upsert встретился nil-заказ.
var ErrNilOrder = errors.New("order is nil")

// OrderRepository — сверка входящих пакетов заказов с сохранённым состоянием
// и выборка по необязательному набору ID. Хранилище скрыто за ports.OrderStore.
type OrderRepository struct {
	store ports.OrderStore
}

// NewOrderRepository - конструктор OrderRepository.
func NewOrderRepository(store ports.OrderStore) *OrderRepository {
	return &OrderRepository{store: store}
}

// GetOrders — выборка заказов.
// Фильтр не задан → все заказы; задан пустой → пустой результат без обращения к хранилищу;
// задан → только найденные заказы, отсутствующие ID молча пропускаются.
func (r *OrderRepository) GetOrders(ctx context.Context, filter domain.IDFilter) ([]*domain.Order, error) {
	ids, present := filter.IDs()
	if !present {
		return r.store.All(ctx)
	}
	if len(ids) == 0 {
		return []*domain.Order{}, nil
	}
	return r.store.ByIDs(ctx, ids)
}

// UpsertOrders — пакетный upsert одной транзакцией.
// Шаги:
//  1. собираем ID пакета;
//  2. одним запросом читаем уже сохранённые заказы с этими ID;
//  3. каждый заказ пакета: совпал ID → полная перезапись (включая список позиций), иначе вставка;
//  4. commit всего пакета целиком либо ничего.
//
// Повтор ID внутри пакета: побеждает последнее вхождение.
// Возвращает входной пакет как есть.
func (r *OrderRepository) UpsertOrders(ctx context.Context, orders []*domain.Order) ([]*domain.Order, error) {
	if len(orders) == 0 {
		return []*domain.Order{}, nil
	}
	for _, order := range orders {
		if order == nil {
			return nil, ErrNilOrder
		}
	}

	staged, sequence := stageBatch(orders)

	err := r.store.WithinTx(ctx, func(tx ports.OrderTx) error {
		current, err := tx.ByIDs(ctx, sequence)
		if err != nil {
			return err
		}
		existing := make(map[uuid.UUID]struct{}, len(current))
		for _, order := range current {
			existing[order.ID] = struct{}{}
		}

		for _, id := range sequence {
			order := staged[id]
			if _, ok := existing[id]; ok {
				if err := tx.Update(ctx, order); err != nil {
					return err
				}
				continue
			}
			if err := tx.Insert(ctx, order); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// stageBatch — состояние пакета в памяти до записи: по одному заказу на ID
// (последнее вхождение перезаписывает предыдущие), порядок — по первому вхождению.
func stageBatch(orders []*domain.Order) (map[uuid.UUID]*domain.Order, []uuid.UUID) {
	staged := make(map[uuid.UUID]*domain.Order, len(orders))
	sequence := make([]uuid.UUID, 0, len(orders))
	for _, order := range orders {
		if _, seen := staged[order.ID]; !seen {
			sequence = append(sequence, order.ID)
		}
		staged[order.ID] = order
	}
	return staged, sequence
}

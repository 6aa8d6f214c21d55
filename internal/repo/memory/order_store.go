package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Gunvolt24/orders_api/internal/domain"
	"github.com/Gunvolt24/orders_api/internal/ports"
	"github.com/google/uuid"
)

// Проверка, что OrderStore удовлетворяет интерфейсу OrderStore.
var _ ports.OrderStore = (*OrderStore)(nil)

var (
	// ErrDuplicateID — вставка заказа с уже существующим ID.
	ErrDuplicateID = errors.New("order with this id already exists")
	// ErrNotFound — обновление несуществующего заказа.
	ErrNotFound = errors.New("order not found")
)

// OrderStore — in-memory хранилище заказов для локального запуска и тестов.
// Транзакции сериализуются под write-lock; изменения копятся в транзакции
// и применяются к данным только при успешном commit.
type OrderStore struct {
	mu       sync.RWMutex
	orders   map[uuid.UUID]*domain.Order
	sequence []uuid.UUID // порядок вставки — «родной» порядок хранилища

	beforeCommit func(ctx context.Context) error
}

// Option — настройка OrderStore.
type Option func(*OrderStore)

// WithBeforeCommit — хук перед применением транзакции; ошибка хука откатывает транзакцию.
func WithBeforeCommit(fn func(ctx context.Context) error) Option {
	return func(s *OrderStore) { s.beforeCommit = fn }
}

// NewOrderStore — конструктор OrderStore.
func NewOrderStore(opts ...Option) *OrderStore {
	s := &OrderStore{orders: make(map[uuid.UUID]*domain.Order)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// All — копии всех заказов в порядке вставки.
func (s *OrderStore) All(ctx context.Context) ([]*domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Order, 0, len(s.sequence))
	for _, id := range s.sequence {
		result = append(result, s.orders[id].Clone())
	}
	return result, nil
}

// ByIDs — копии заказов из набора ids в порядке вставки.
func (s *OrderStore) ByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lookup(ids, nil), nil
}

// WithinTx — выполняет fn в транзакции. Ошибка fn, отмена контекста
// или ошибка хука перед commit — данные хранилища не меняются.
func (s *OrderStore) WithinTx(ctx context.Context, fn func(tx ports.OrderTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &orderTx{store: s, writes: make(map[uuid.UUID]*domain.Order)}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	if s.beforeCommit != nil {
		if err := s.beforeCommit(ctx); err != nil {
			return fmt.Errorf("commit: %w", err)
		}
	}

	for _, id := range tx.added {
		s.sequence = append(s.sequence, id)
	}
	for id, order := range tx.writes {
		s.orders[id] = order
	}
	return nil
}

// lookup — заказы из ids с учётом незакоммиченных изменений (overlay). Вызывать под блокировкой.
func (s *OrderStore) lookup(ids []uuid.UUID, tx *orderTx) []*domain.Order {
	wanted := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	sequence := s.sequence
	if tx != nil {
		sequence = append(append([]uuid.UUID(nil), s.sequence...), tx.added...)
	}

	result := make([]*domain.Order, 0, len(ids))
	for _, id := range sequence {
		if _, ok := wanted[id]; !ok {
			continue
		}
		order := s.orders[id]
		if tx != nil {
			if staged, ok := tx.writes[id]; ok {
				order = staged
			}
		}
		result = append(result, order.Clone())
	}
	return result
}

// orderTx — изменения одной транзакции поверх данных хранилища.
type orderTx struct {
	store  *OrderStore
	writes map[uuid.UUID]*domain.Order
	added  []uuid.UUID
}

func (t *orderTx) exists(id uuid.UUID) bool {
	if _, ok := t.writes[id]; ok {
		return true
	}
	_, ok := t.store.orders[id]
	return ok
}

func (t *orderTx) ByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return t.store.lookup(ids, t), nil
}

func (t *orderTx) Insert(ctx context.Context, order *domain.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if t.exists(order.ID) {
		return fmt.Errorf("insert order %s: %w", order.ID, ErrDuplicateID)
	}
	t.writes[order.ID] = order.Clone()
	t.added = append(t.added, order.ID)
	return nil
}

// Update — полная замена заказа всеми полями входного, включая дату создания.
func (t *orderTx) Update(ctx context.Context, order *domain.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !t.exists(order.ID) {
		return fmt.Errorf("update order %s: %w", order.ID, ErrNotFound)
	}
	t.writes[order.ID] = order.Clone()
	return nil
}

package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Gunvolt24/orders_api/internal/domain"
	"github.com/Gunvolt24/orders_api/internal/ports"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Проверка, что OrderStore удовлетворяет интерфейсу OrderStore.
var _ ports.OrderStore = (*OrderStore)(nil)

const selectOrders = `
	SELECT id, customer_name, items, created_at
	FROM orders`

// querier — общий контракт pgxpool.Pool и pgx.Tx для чтения.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// OrderStore — хранилище заказов на Postgres (pgxpool).
// Позиции заказа хранятся одним JSONB-значением в строке заказа.
type OrderStore struct {
	pool *pgxpool.Pool
}

// NewOrderStore - конструктор OrderStore.
func NewOrderStore(pool *pgxpool.Pool) *OrderStore { return &OrderStore{pool: pool} }

// All — полный просмотр таблицы orders.
func (s *OrderStore) All(ctx context.Context) ([]*domain.Order, error) {
	return queryOrders(ctx, s.pool, selectOrders+` ORDER BY created_at, id`)
}

// ByIDs — заказы с id из набора (id = ANY($1)).
func (s *OrderStore) ByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Order, error) {
	return byIDs(ctx, s.pool, ids)
}

// WithinTx — транзакция: fn вернул nil → commit, иначе rollback.
func (s *OrderStore) WithinTx(ctx context.Context, fn func(tx ports.OrderTx) error) error {
	transaction, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	// после Commit вернёт ErrTxClosed; ошибка отката не меняет результат
	defer func() { _ = transaction.Rollback(ctx) }()

	if err := fn(&orderTx{tx: transaction}); err != nil {
		return err
	}

	if err := transaction.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// orderTx — операции OrderTx поверх pgx.Tx.
type orderTx struct {
	tx pgx.Tx
}

func (t *orderTx) ByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Order, error) {
	return byIDs(ctx, t.tx, ids)
}

// Insert — вставка нового заказа. ON CONFLICT страхует гонку двух пакетов
// с одним ID: выигрывает последний commit, перезаписываются все поля.
func (t *orderTx) Insert(ctx context.Context, order *domain.Order) error {
	items, err := encodeItems(order.Items)
	if err != nil {
		return err
	}
	if _, err := t.tx.Exec(ctx, `
		INSERT INTO orders (id, customer_name, items, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			customer_name = EXCLUDED.customer_name,
			items = EXCLUDED.items,
			created_at = EXCLUDED.created_at,
			updated_at = now()
	`, order.ID, order.CustomerName, items, order.CreatedAt.UTC()); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// Update — перезапись всех полей заказа: имя клиента, список позиций, created_at.
func (t *orderTx) Update(ctx context.Context, order *domain.Order) error {
	items, err := encodeItems(order.Items)
	if err != nil {
		return err
	}
	tag, err := t.tx.Exec(ctx, `
		UPDATE orders SET
			customer_name = $2,
			items = $3,
			created_at = $4,
			updated_at = now()
		WHERE id = $1
	`, order.ID, order.CustomerName, items, order.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update order %s: no rows affected", order.ID)
	}
	return nil
}

func byIDs(ctx context.Context, q querier, ids []uuid.UUID) ([]*domain.Order, error) {
	if len(ids) == 0 {
		return []*domain.Order{}, nil
	}
	return queryOrders(ctx, q, selectOrders+` WHERE id = ANY($1::uuid[]) ORDER BY created_at, id`, ids)
}

// queryOrders — выполняет SELECT и собирает заказы, раскодируя JSONB с позициями.
func queryOrders(ctx context.Context, q querier, sql string, args ...any) ([]*domain.Order, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0)
	for rows.Next() {
		var (
			order domain.Order
			raw   []byte
		)
		if err := rows.Scan(&order.ID, &order.CustomerName, &raw, &order.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		if order.Items, err = decodeItems(raw); err != nil {
			return nil, fmt.Errorf("order %s: %w", order.ID, err)
		}
		order.CreatedAt = order.CreatedAt.UTC()
		orders = append(orders, &order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("orders rows: %w", err)
	}
	return orders, nil
}

func encodeItems(items []domain.Item) ([]byte, error) {
	if items == nil {
		items = []domain.Item{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode items: %w", err)
	}
	return raw, nil
}

func decodeItems(raw []byte) ([]domain.Item, error) {
	items := []domain.Item{}
	if len(raw) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	return items, nil
}

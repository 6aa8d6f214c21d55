package gormsql

import (
	"context"
	"fmt"
	"time"

	"github.com/Gunvolt24/orders_api/internal/domain"
	"github.com/Gunvolt24/orders_api/internal/ports"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Проверка, что OrderStore удовлетворяет интерфейсу OrderStore.
var _ ports.OrderStore = (*OrderStore)(nil)

// orderRecord — строка таблицы orders; позиции лежат в JSON-колонке.
type orderRecord struct {
	ID           string        `gorm:"column:id;type:char(36);primaryKey"`
	CustomerName string        `gorm:"column:customer_name;type:text;not null"`
	Items        []domain.Item `gorm:"column:items;type:json;serializer:json;not null"`
	CreatedAt    time.Time     `gorm:"column:created_at;type:datetime(6);not null;index:idx_orders_created_at,priority:1"`
	UpdatedAt    time.Time     `gorm:"column:updated_at;type:datetime(6)"`
}

// TableName — имя таблицы для GORM.
func (orderRecord) TableName() string { return "orders" }

// OrderStore — хранилище заказов на MySQL (GORM).
type OrderStore struct {
	db *gorm.DB
}

// NewOrderStore - конструктор OrderStore.
func NewOrderStore(db *gorm.DB) *OrderStore { return &OrderStore{db: db} }

func (s *OrderStore) All(ctx context.Context) ([]*domain.Order, error) {
	var records []orderRecord
	if err := s.db.WithContext(ctx).Order("created_at, id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	return toDomain(records)
}

func (s *OrderStore) ByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Order, error) {
	return byIDs(ctx, s.db, ids)
}

// WithinTx — db.Transaction: nil → commit, ошибка или паника → rollback.
func (s *OrderStore) WithinTx(ctx context.Context, fn func(tx ports.OrderTx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&orderTx{db: tx})
	})
}

type orderTx struct {
	db *gorm.DB
}

func (t *orderTx) ByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Order, error) {
	return byIDs(ctx, t.db, ids)
}

// Insert — вставка; при гонке по первичному ключу перезаписываем все поля (последний commit выигрывает).
func (t *orderTx) Insert(ctx context.Context, order *domain.Order) error {
	record := fromDomain(order)
	err := t.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"customer_name", "items", "created_at", "updated_at"}),
		}).
		Create(&record).Error
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// Update — перезапись всех полей заказа, включая created_at.
func (t *orderTx) Update(ctx context.Context, order *domain.Order) error {
	record := fromDomain(order)
	res := t.db.WithContext(ctx).
		Model(&orderRecord{ID: record.ID}).
		Select("customer_name", "items", "created_at", "updated_at").
		Updates(&record)
	if res.Error != nil {
		return fmt.Errorf("update order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update order %s: no rows affected", order.ID)
	}
	return nil
}

func byIDs(ctx context.Context, db *gorm.DB, ids []uuid.UUID) ([]*domain.Order, error) {
	if len(ids) == 0 {
		return []*domain.Order{}, nil
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, id.String())
	}

	var records []orderRecord
	if err := db.WithContext(ctx).Where("id IN ?", keys).Order("created_at, id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("select orders by ids: %w", err)
	}
	return toDomain(records)
}

func fromDomain(order *domain.Order) orderRecord {
	items := order.Items
	if items == nil {
		items = []domain.Item{}
	}
	return orderRecord{
		ID:           order.ID.String(),
		CustomerName: order.CustomerName,
		Items:        items,
		CreatedAt:    order.CreatedAt.UTC(),
	}
}

func toDomain(records []orderRecord) ([]*domain.Order, error) {
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		rec := &records[i]
		id, err := uuid.Parse(rec.ID)
		if err != nil {
			return nil, fmt.Errorf("parse order id %q: %w", rec.ID, err)
		}
		items := rec.Items
		if items == nil {
			items = []domain.Item{}
		}
		orders = append(orders, &domain.Order{
			ID:           id,
			CustomerName: rec.CustomerName,
			Items:        items,
			CreatedAt:    rec.CreatedAt.UTC(),
		})
	}
	return orders, nil
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Order — заказ клиента. Идентичность определяется только ID:
// два заказа «один и тот же», если их ID равны.
type Order struct {
	ID           uuid.UUID `json:"id"`
	CustomerName string    `json:"customerName"`
	Items        []Item    `json:"items"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Item — позиция заказа. Отдельной идентичности не имеет,
// список позиций заменяется целиком вместе с заказом.
type Item struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

// EnsureDefaults — проставляет значения, которые сервер генерирует сам:
// ID и ProductID (если не переданы), CreatedAt (UTC) и пустой список позиций вместо nil.
func (o *Order) EnsureDefaults(now time.Time) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now.UTC()
	} else {
		o.CreatedAt = o.CreatedAt.UTC()
	}
	if o.Items == nil {
		o.Items = []Item{}
	}
	for i := range o.Items {
		if o.Items[i].ProductID == uuid.Nil {
			o.Items[i].ProductID = uuid.New()
		}
	}
}

// Clone — глубокая копия заказа (вместе со списком позиций).
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	cloned := *o
	if o.Items != nil {
		cloned.Items = append([]Item(nil), o.Items...)
	}
	return &cloned
}

// IDs — идентификаторы заказов в порядке следования.
func IDs(orders []*Order) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(orders))
	for _, o := range orders {
		if o != nil {
			ids = append(ids, o.ID)
		}
	}
	return ids
}

// ApplyDefaults — EnsureDefaults для каждого заказа пакета (nil пропускаются).
func ApplyDefaults(orders []*Order, now time.Time) {
	for _, o := range orders {
		if o != nil {
			o.EnsureDefaults(now)
		}
	}
}

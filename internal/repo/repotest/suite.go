// Пакет repotest — общие сценарии для реализаций ports.OrderStore.
// Импортируется только из _test.go файлов (как net/http/httptest), поэтому
// зависит от testing и testify и в бинарник сервиса не попадает.
package repotest

import (
	"context"
	"testing"
	"time"

	"github.com/Gunvolt24/orders_api/internal/domain"
	"github.com/Gunvolt24/orders_api/internal/ports"
	"github.com/Gunvolt24/orders_api/internal/repo"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Run — общие сценарии upsert/выборки поверх любого OrderStore.
// Хранилище одно на все подтесты, поэтому каждый сценарий работает со своими ID
// и читает данные через фильтр.
func Run(t *testing.T, store ports.OrderStore) {
	t.Helper()

	r := repo.NewOrderRepository(store)
	ctx := context.Background()

	order := func(name string, quantities ...int) *domain.Order {
		items := make([]domain.Item, 0, len(quantities))
		for _, q := range quantities {
			items = append(items, domain.Item{ProductID: uuid.New(), Quantity: q})
		}
		return &domain.Order{
			ID:           uuid.New(),
			CustomerName: name,
			Items:        items,
			CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
		}
	}

	t.Run("insert then get by ids", func(t *testing.T) {
		a, b := order("Alice", 1, 2), order("Bob", 3)

		_, err := r.UpsertOrders(ctx, []*domain.Order{a, b})
		require.NoError(t, err)

		got, err := r.GetOrders(ctx, domain.OnlyIDs(a.ID, b.ID))
		require.NoError(t, err)
		require.Len(t, got, 2)
		byID := index(got)
		require.Equal(t, "Alice", byID[a.ID].CustomerName)
		require.Equal(t, a.Items, byID[a.ID].Items)
		require.True(t, a.CreatedAt.Equal(byID[a.ID].CreatedAt))
		require.Equal(t, b.Items, byID[b.ID].Items)
	})

	t.Run("all contains stored orders", func(t *testing.T) {
		a := order("Carol", 1)
		_, err := r.UpsertOrders(ctx, []*domain.Order{a})
		require.NoError(t, err)

		got, err := r.GetOrders(ctx, domain.AllOrders())
		require.NoError(t, err)
		require.Contains(t, domain.IDs(got), a.ID)
	})

	t.Run("repeated batch is idempotent", func(t *testing.T) {
		a := order("Dave", 5)
		for i := 0; i < 3; i++ {
			_, err := r.UpsertOrders(ctx, []*domain.Order{a.Clone()})
			require.NoError(t, err)
		}

		got, err := r.GetOrders(ctx, domain.OnlyIDs(a.ID))
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, a.Items, got[0].Items)
	})

	t.Run("same id overwrites every field", func(t *testing.T) {
		a := order("Alice", 1, 2, 3)
		_, err := r.UpsertOrders(ctx, []*domain.Order{a})
		require.NoError(t, err)

		replacement := order("Alicia", 7)
		replacement.ID = a.ID
		replacement.CreatedAt = a.CreatedAt.Add(time.Hour)
		_, err = r.UpsertOrders(ctx, []*domain.Order{replacement})
		require.NoError(t, err)

		got, err := r.GetOrders(ctx, domain.OnlyIDs(a.ID))
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, "Alicia", got[0].CustomerName)
		require.Equal(t, replacement.Items, got[0].Items)
		require.True(t, replacement.CreatedAt.Equal(got[0].CreatedAt), "created_at берётся из входного заказа")
	})

	t.Run("mixed batch inserts and updates together", func(t *testing.T) {
		existing := order("Eve", 1)
		_, err := r.UpsertOrders(ctx, []*domain.Order{existing})
		require.NoError(t, err)

		updated := order("Eva", 2)
		updated.ID = existing.ID
		fresh := order("Frank", 4)
		_, err = r.UpsertOrders(ctx, []*domain.Order{updated, fresh})
		require.NoError(t, err)

		got, err := r.GetOrders(ctx, domain.OnlyIDs(existing.ID, fresh.ID))
		require.NoError(t, err)
		byID := index(got)
		require.Len(t, byID, 2)
		require.Equal(t, "Eva", byID[existing.ID].CustomerName)
		require.Equal(t, "Frank", byID[fresh.ID].CustomerName)
	})

	t.Run("duplicate ids in batch: last wins", func(t *testing.T) {
		first := order("First", 1)
		last := order("Last", 9)
		last.ID = first.ID

		_, err := r.UpsertOrders(ctx, []*domain.Order{first, last})
		require.NoError(t, err)

		got, err := r.GetOrders(ctx, domain.OnlyIDs(first.ID))
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, "Last", got[0].CustomerName)
		require.Equal(t, last.Items, got[0].Items)
	})

	t.Run("filter drops unknown ids", func(t *testing.T) {
		a := order("Grace", 1)
		_, err := r.UpsertOrders(ctx, []*domain.Order{a})
		require.NoError(t, err)

		got, err := r.GetOrders(ctx, domain.OnlyIDs(a.ID, uuid.New(), uuid.New()))
		require.NoError(t, err)
		require.Equal(t, []uuid.UUID{a.ID}, domain.IDs(got))
	})

	t.Run("empty filter returns nothing", func(t *testing.T) {
		got, err := r.GetOrders(ctx, domain.OnlyIDs())
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Empty(t, got)
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		got, err := r.UpsertOrders(ctx, nil)
		require.NoError(t, err)
		require.Empty(t, got)
	})
}

func index(orders []*domain.Order) map[uuid.UUID]*domain.Order {
	m := make(map[uuid.UUID]*domain.Order, len(orders))
	for _, o := range orders {
		m[o.ID] = o
	}
	return m
}

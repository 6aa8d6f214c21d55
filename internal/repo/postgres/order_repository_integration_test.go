//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/orders_api/internal/domain"
	"github.com/Gunvolt24/orders_api/internal/repo"
	pgrepo "github.com/Gunvolt24/orders_api/internal/repo/postgres"
	"github.com/Gunvolt24/orders_api/internal/repo/repotest"
	"github.com/Gunvolt24/orders_api/internal/testutil"
)

// 1) Общие сценарии upsert/выборки на настоящем Postgres
func TestRepo_Suite_TC(t *testing.T) {
	// длинный контекст — только на подъём контейнера
	ctxStart, cancelStart := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancelStart()

	pg, stopPG, err := testutil.StartPostgresTC(ctxStart)
	require.NoError(t, err)
	defer func() { _ = stopPG(context.Background()) }()

	// миграции
	require.NoError(t, testutil.ApplyMigrationsGoose(pg.DSN))

	repotest.Run(t, pgrepo.NewOrderStore(pg.Pool))
}

// 2) Позиции хранятся JSONB: порядок и количество сохраняются, пустой список читается как []
func TestRepo_ItemsRoundTrip_TC(t *testing.T) {
	t.Parallel()

	ctxStart, cancelStart := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancelStart()

	pg, stopPG, err := testutil.StartPostgresTC(ctxStart)
	require.NoError(t, err)
	defer func() { _ = stopPG(context.Background()) }()
	require.NoError(t, testutil.ApplyMigrationsGoose(pg.DSN))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	r := repo.NewOrderRepository(pgrepo.NewOrderStore(pg.Pool))

	many := testutil.MakeOrder(testutil.WithItems(5))
	none := testutil.MakeOrder(testutil.WithItems(0))
	_, err = r.UpsertOrders(ctx, []*domain.Order{many, none})
	require.NoError(t, err)

	got, err := r.GetOrders(ctx, domain.OnlyIDs(many.ID, none.ID))
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, o := range got {
		switch o.ID {
		case many.ID:
			require.Equal(t, many.Items, o.Items)
		case none.ID:
			require.NotNil(t, o.Items)
			require.Empty(t, o.Items)
		}
	}
}

// 3) Выборка без фильтра упорядочена по created_at
func TestRepo_All_OrderedByCreatedAt_TC(t *testing.T) {
	t.Parallel()

	ctxStart, cancelStart := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancelStart()

	pg, stopPG, err := testutil.StartPostgresTC(ctxStart)
	require.NoError(t, err)
	defer func() { _ = stopPG(context.Background()) }()
	require.NoError(t, testutil.ApplyMigrationsGoose(pg.DSN))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	r := repo.NewOrderRepository(pgrepo.NewOrderStore(pg.Pool))

	base := time.Now().UTC().Add(-time.Hour)
	var want []uuid.UUID
	batch := make([]*domain.Order, 0, 4)
	for i := 3; i >= 0; i-- {
		batch = append(batch, testutil.MakeOrder(testutil.WithCreatedAt(base.Add(time.Duration(i)*time.Minute))))
	}
	for i := len(batch) - 1; i >= 0; i-- {
		want = append(want, batch[i].ID)
	}
	_, err = r.UpsertOrders(ctx, batch)
	require.NoError(t, err)

	got, err := r.GetOrders(ctx, domain.AllOrders())
	require.NoError(t, err)
	require.Equal(t, want, domain.IDs(got))
}

// 4) Ошибка посреди пакета откатывает всю транзакцию
func TestRepo_Upsert_RollbackOnFailure_TC(t *testing.T) {
	t.Parallel()

	ctxStart, cancelStart := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancelStart()

	pg, stopPG, err := testutil.StartPostgresTC(ctxStart)
	require.NoError(t, err)
	defer func() { _ = stopPG(context.Background()) }()
	require.NoError(t, testutil.ApplyMigrationsGoose(pg.DSN))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	r := repo.NewOrderRepository(pgrepo.NewOrderStore(pg.Pool))

	alice := testutil.MakeOrder(testutil.WithCustomer("Alice"))
	_, err = r.UpsertOrders(ctx, []*domain.Order{alice})
	require.NoError(t, err)

	// нулевой байт в тексте Postgres отвергает — второй заказ пакета упадёт
	renamed := testutil.MakeOrder(testutil.WithID(alice.ID), testutil.WithCustomer("Alicia"))
	broken := testutil.MakeOrder(testutil.WithCustomer("bad\x00name"))
	_, err = r.UpsertOrders(ctx, []*domain.Order{renamed, broken})
	require.Error(t, err)

	got, err := r.GetOrders(ctx, domain.AllOrders())
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Alice", got[0].CustomerName)
}

// 5) Отменённый контекст — ошибка, без частичной записи
func TestRepo_Upsert_CanceledContext_TC(t *testing.T) {
	t.Parallel()

	ctxStart, cancelStart := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancelStart()

	pg, stopPG, err := testutil.StartPostgresTC(ctxStart)
	require.NoError(t, err)
	defer func() { _ = stopPG(context.Background()) }()
	require.NoError(t, testutil.ApplyMigrationsGoose(pg.DSN))

	r := repo.NewOrderRepository(pgrepo.NewOrderStore(pg.Pool))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.UpsertOrders(ctx, []*domain.Order{testutil.MakeOrder()})
	require.Error(t, err)

	got, err := r.GetOrders(context.Background(), domain.AllOrders())
	require.NoError(t, err)
	require.Empty(t, got)
}

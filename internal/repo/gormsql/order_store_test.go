package gormsql

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"

	"github.com/Gunvolt24/orders_api/internal/domain"
)

func TestRecordMapping_RoundTrip(t *testing.T) {
	msk := time.FixedZone("MSK", 3*3600)
	order := &domain.Order{
		ID:           uuid.New(),
		CustomerName: "Alice",
		Items:        []domain.Item{{ProductID: uuid.New(), Quantity: 2}},
		CreatedAt:    time.Date(2024, 3, 1, 15, 0, 0, 0, msk),
	}

	rec := fromDomain(order)
	require.Equal(t, order.ID.String(), rec.ID)
	require.Equal(t, time.UTC, rec.CreatedAt.Location())

	got, err := toDomain([]orderRecord{rec})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, order.ID, got[0].ID)
	require.Equal(t, order.Items, got[0].Items)
	require.True(t, order.CreatedAt.Equal(got[0].CreatedAt))
}

func TestRecordMapping_NilItemsStoredAsEmpty(t *testing.T) {
	rec := fromDomain(&domain.Order{ID: uuid.New()})
	require.NotNil(t, rec.Items)

	got, err := toDomain([]orderRecord{{ID: uuid.NewString()}})
	require.NoError(t, err)
	require.NotNil(t, got[0].Items)
}

func TestRecordMapping_BadID(t *testing.T) {
	_, err := toDomain([]orderRecord{{ID: "not-a-uuid"}})
	require.ErrorContains(t, err, "parse order id")
}

func TestOpen_InvalidDSN(t *testing.T) {
	_, err := Open(context.Background(), "no-at-sign-or-slash", 1)
	require.ErrorContains(t, err, "parse dsn")
}

func TestRecordSchema_CustomerNameUnbounded(t *testing.T) {
	s, err := schema.Parse(&orderRecord{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	f := s.LookUpField("customer_name")
	require.NotNil(t, f)
	// без ограничения длины, как text в миграции Postgres
	require.Equal(t, schema.DataType("text"), f.DataType)
	require.Zero(t, f.Size)
}

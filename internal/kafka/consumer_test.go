package kafka

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/orders_api/internal/domain"
	"github.com/Gunvolt24/orders_api/internal/kafka/mocks"
	"github.com/Gunvolt24/orders_api/pkg/validate"
)

type nopLogger struct{}

func (nopLogger) Infof(context.Context, string, ...any)  {}
func (nopLogger) Warnf(context.Context, string, ...any)  {}
func (nopLogger) Errorf(context.Context, string, ...any) {}

var fixedNow = time.Date(2025, 11, 26, 6, 22, 19, 0, time.UTC)

const validBatch = `[{"id":"6f1c7f3a-1c1e-4a55-9a55-0c1f0b1d2e3f","customerName":"Alice","items":[{"productId":"0b5f2b1e-8c9d-4e3f-a1b2-c3d4e5f60718","quantity":2}]}]`

// runAsync запускает Consumer.Run в отдельном горутине и возвращает канал с ошибкой.
func runAsync(ctx context.Context, c *Consumer) <-chan error {
	errCh := make(chan error, 1)
	go func() { errCh <- c.Run(ctx) }()
	return errCh
}

func newTestConsumer(r reader, s batchUpserter) *Consumer {
	return &Consumer{
		reader: r, service: s, validator: validate.NewOrderValidator(), log: nopLogger{},
		now:            func() time.Time { return fixedNow },
		processTimeout: 30 * time.Millisecond,
		retryInitial:   5 * time.Millisecond,
		retryMax:       10 * time.Millisecond,
		jitterRand:     rand.New(rand.NewSource(1)),
	}
}

// blockUntilCancel — второй FetchMessage ждёт отмены контекста.
func blockUntilCancel(r *mocks.Mockreader) {
	r.EXPECT().FetchMessage(gomock.Any()).
		DoAndReturn(func(ctx context.Context) (kafka.Message, error) {
			<-ctx.Done()
			return kafka.Message{}, ctx.Err()
		})
}

func stopAndWait(t *testing.T, cancel context.CancelFunc, errCh <-chan error) {
	t.Helper()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("want context.Canceled, got %v", err)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatal("timeout waiting for Run to stop")
	}
}

// Успешная обработка + коммит; сервер проставляет CreatedAt
func TestRun_OK_Commits(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	s := mocks.NewMockbatchUpserter(ctrl)

	rc := kafka.ReaderConfig{Topic: "orders", GroupID: "g1", Brokers: []string{"b:9092"}}
	r.EXPECT().Config().Return(rc).AnyTimes()
	r.EXPECT().FetchMessage(gomock.Any()).
		Return(kafka.Message{Offset: 1, Value: []byte(validBatch)}, nil)
	s.EXPECT().UpsertOrders(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, orders []*domain.Order) ([]*domain.Order, error) {
			if len(orders) != 1 || orders[0].CustomerName != "Alice" {
				t.Errorf("unexpected batch: %+v", orders)
			}
			if !orders[0].CreatedAt.Equal(fixedNow) {
				t.Errorf("createdAt not defaulted: %v", orders[0].CreatedAt)
			}
			return orders, nil
		})
	r.EXPECT().CommitMessages(gomock.Any(), gomock.Any()).Return(nil)
	blockUntilCancel(r)

	c := newTestConsumer(r, s)

	ctx, cancel := context.WithCancel(context.Background())
	stopAndWait(t, cancel, runAsync(ctx, c))
}

// Одиночный объект без id — пакет из одного заказа с сгенерированным ID
func TestRun_SingleObject_DefaultsApplied(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	s := mocks.NewMockbatchUpserter(ctrl)

	r.EXPECT().Config().Return(kafka.ReaderConfig{Topic: "orders"}).AnyTimes()
	r.EXPECT().FetchMessage(gomock.Any()).
		Return(kafka.Message{Offset: 4, Value: []byte(`{"customerName":"Bob","items":[{"quantity":0}]}`)}, nil)
	s.EXPECT().UpsertOrders(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, orders []*domain.Order) ([]*domain.Order, error) {
			if len(orders) != 1 || orders[0].ID == uuid.Nil || orders[0].Items[0].ProductID == uuid.Nil {
				t.Errorf("defaults not applied: %+v", orders)
			}
			return orders, nil
		})
	r.EXPECT().CommitMessages(gomock.Any(), gomock.Any()).Return(nil)
	blockUntilCancel(r)

	ctx, cancel := context.WithCancel(context.Background())
	stopAndWait(t, cancel, runAsync(ctx, newTestConsumer(r, s)))
}

// Невалидное сообщение => коммитим без вызова сервиса (чтобы не ретраить мусор)
func TestRun_InvalidPayload_Commits(t *testing.T) {
	payloads := map[string]string{
		"not json":      "bad",
		"empty batch":   "[]",
		"invalid order": `[{"customerName":" "}]`,
		"unknown field": `[{"customerName":"A","email":"a@b.c"}]`,
	}

	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			r := mocks.NewMockreader(ctrl)
			s := mocks.NewMockbatchUpserter(ctrl) // без EXPECT: сервис не вызывается

			r.EXPECT().Config().Return(kafka.ReaderConfig{Topic: "orders"}).AnyTimes()
			r.EXPECT().FetchMessage(gomock.Any()).
				Return(kafka.Message{Offset: 7, Value: []byte(payload)}, nil)
			r.EXPECT().CommitMessages(gomock.Any(), gomock.Any()).Return(nil)
			blockUntilCancel(r)

			ctx, cancel := context.WithCancel(context.Background())
			stopAndWait(t, cancel, runAsync(ctx, newTestConsumer(r, s)))
		})
	}
}

// Временная ошибка сервиса (БД/сеть/таймаут) => НЕ коммитим
func TestRun_TemporaryFailure_NoCommit(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	s := mocks.NewMockbatchUpserter(ctrl)

	r.EXPECT().Config().Return(kafka.ReaderConfig{Topic: "orders"}).AnyTimes()
	r.EXPECT().FetchMessage(gomock.Any()).
		Return(kafka.Message{Offset: 2, Value: []byte(validBatch)}, nil)
	s.EXPECT().UpsertOrders(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))
	// CommitMessages специально не ожидаем: лишний вызов уронит тест как "unexpected call".
	blockUntilCancel(r)

	ctx, cancel := context.WithCancel(context.Background())
	stopAndWait(t, cancel, runAsync(ctx, newTestConsumer(r, s)))
}

// Ошибки FetchMessage ретраятся; по отмене контекста — корректный выход
func TestRun_FetchError_RetryThenStopOnCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	s := mocks.NewMockbatchUpserter(ctrl)

	r.EXPECT().Config().Return(kafka.ReaderConfig{Topic: "orders"}).AnyTimes()
	r.EXPECT().FetchMessage(gomock.Any()).
		DoAndReturn(func(_ context.Context) (kafka.Message, error) {
			return kafka.Message{}, errors.New("broker error")
		}).AnyTimes()

	c := newTestConsumer(r, s)

	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()

	if err := c.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("want DeadlineExceeded, got %v", err)
	}
}

// CommitMessages вернул ошибку — только предупреждение; цикл живёт дальше
func TestRun_CommitWarnOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	s := mocks.NewMockbatchUpserter(ctrl)

	r.EXPECT().Config().Return(kafka.ReaderConfig{Topic: "orders"}).AnyTimes()
	r.EXPECT().FetchMessage(gomock.Any()).
		Return(kafka.Message{Offset: 3, Value: []byte(validBatch)}, nil)
	s.EXPECT().UpsertOrders(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, orders []*domain.Order) ([]*domain.Order, error) { return orders, nil })
	r.EXPECT().CommitMessages(gomock.Any(), gomock.Any()).Return(errors.New("temporary"))
	blockUntilCancel(r)

	ctx, cancel := context.WithCancel(context.Background())
	stopAndWait(t, cancel, runAsync(ctx, newTestConsumer(r, s)))
}

// Close() прокидывает вызов в reader.Close() ровно один раз
func TestClose_DelegatesToReader(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	s := mocks.NewMockbatchUpserter(ctrl)

	r.EXPECT().Close().Return(nil).Times(1)

	c := newTestConsumer(r, s)
	if err := c.Close(); err != nil {
		t.Fatalf("expected nil from Close, got %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("expected nil from second Close, got %v", err)
	}
}

func TestNextBackoff_CapsAtMax(t *testing.T) {
	c := newTestConsumer(nil, nil)
	if got := c.nextBackoff(4 * time.Millisecond); got != 8*time.Millisecond {
		t.Fatalf("want 8ms, got %v", got)
	}
	if got := c.nextBackoff(8 * time.Millisecond); got != c.retryMax {
		t.Fatalf("want retryMax, got %v", got)
	}
}

func TestWithJitterEqual_Bounds(t *testing.T) {
	c := newTestConsumer(nil, nil)
	for i := 0; i < 100; i++ {
		d := c.withJitterEqual(100 * time.Millisecond)
		if d < 50*time.Millisecond || d > 100*time.Millisecond {
			t.Fatalf("jitter out of bounds: %v", d)
		}
	}
	if c.withJitterEqual(0) != 0 {
		t.Fatalf("zero duration must stay zero")
	}
}

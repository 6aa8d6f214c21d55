package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/Gunvolt24/orders_api/internal/domain"
	"github.com/Gunvolt24/orders_api/internal/ports"
	"github.com/Gunvolt24/orders_api/pkg/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Проверка, что OrderService удовлетворяет интерфейсу OrderService.
var _ ports.OrderService = (*OrderService)(nil)

const tracerName = "github.com/Gunvolt24/orders_api/internal/usecase"

// OrderService — прикладной слой над репозиторием заказов (без знаний о транспорте).
// Бизнес-правил не добавляет: логирование, метрики и спаны вокруг вызовов репозитория.
// Ошибки репозитория логируются один раз и возвращаются вызывающему без изменений.
type OrderService struct {
	repo   ports.OrderRepository // доступ к репозиторию
	log    ports.Logger          // доступ к логгеру
	tracer trace.Tracer
}

// NewOrderService — DI-конструктор.
func NewOrderService(repo ports.OrderRepository, log ports.Logger) *OrderService {
	return &OrderService{
		repo:   repo,
		log:    log,
		tracer: otel.Tracer(tracerName),
	}
}

// GetOrders — выборка заказов по необязательному фильтру ID.
func (s *OrderService) GetOrders(ctx context.Context, filter domain.IDFilter) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrders",
		trace.WithAttributes(attribute.String("orders.filter", describeFilter(filter))))
	defer span.End()

	start := time.Now()
	orders, err := s.repo.GetOrders(ctx, filter)
	metrics.ObserveServiceCall(metrics.OpGetOrders, start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "retrieving orders")
		s.log.Errorf(ctx, "retrieving orders failed filter=%s err=%v", describeFilter(filter), err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("orders.count", len(orders)))
	s.log.Infof(ctx, "orders retrieved filter=%s count=%d took=%s", describeFilter(filter), len(orders), time.Since(start))
	return orders, nil
}

// UpsertOrders — пакетный upsert (вставка новых, полная замена существующих) одной транзакцией.
func (s *OrderService) UpsertOrders(ctx context.Context, orders []*domain.Order) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.UpsertOrders",
		trace.WithAttributes(attribute.Int("orders.batch_size", len(orders))))
	defer span.End()

	start := time.Now()
	upserted, err := s.repo.UpsertOrders(ctx, orders)
	metrics.ObserveServiceCall(metrics.OpUpsertOrders, start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upserting orders")
		s.log.Errorf(ctx, "upserting orders failed batch=%d err=%v", len(orders), err)
		return nil, err
	}

	metrics.OrdersUpserted.Add(float64(len(upserted)))
	s.log.Infof(ctx, "orders upserted batch=%d took=%s", len(upserted), time.Since(start))
	return upserted, nil
}

// describeFilter — короткое описание фильтра для логов и атрибутов спана.
func describeFilter(filter domain.IDFilter) string {
	ids, present := filter.IDs()
	if !present {
		return "all"
	}
	return fmt.Sprintf("ids(%d)", len(ids))
}

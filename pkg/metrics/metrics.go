package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Операции сервиса заказов (значение лейбла op).
const (
	OpGetOrders    = "get_orders"
	OpUpsertOrders = "upsert_orders"
)

var (
	ServiceOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_service_operations_total",
			Help: "Order service calls by operation and result",
		},
		[]string{"op", "result"}, // result: ok|error
	)
	ServiceDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "orders_service_operation_duration_seconds",
			Help:    "Order service call latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)
	OrdersUpserted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_upserted_total",
			Help: "Number of orders persisted by successful upsert batches",
		},
	)
)

var (
	KafkaMessagesConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_consumed_total",
			Help: "Number of messages fetched from Kafka",
		},
		[]string{"topic"},
	)
	KafkaMessagesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_processed_total",
			Help: "Number of messages processed successfully",
		},
		[]string{"topic"},
	)
	KafkaMessagesFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_failed_total",
			Help: "Number of messages failed to process",
		},
		[]string{"topic"},
	)
)

var registerOnce sync.Once

// MustRegister — регистрирует метрики в глобальном реестре (повторный вызов безопасен).
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			ServiceOps, ServiceDuration, OrdersUpserted,
			KafkaMessagesConsumed, KafkaMessagesProcessed, KafkaMessagesFailed,
		)
	})
}

// ObserveServiceCall — счётчик результата и длительность вызова сервиса.
func ObserveServiceCall(op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	ServiceOps.WithLabelValues(op, result).Inc()
	ServiceDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

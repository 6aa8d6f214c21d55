package kafka

import (
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	defaultProcessTimeout = 5 * time.Second
	defaultRetryInitial   = time.Second
	defaultRetryMax       = 30 * time.Second

	// DefaultMaxMessageBytes — потолок размера пакета; совпадает с лимитом тела POST /api/orders.
	DefaultMaxMessageBytes = 10 << 20
)

// ConsumerConfig — параметры подписки на топик с пакетами заказов.
type ConsumerConfig struct {
	Brokers     []string
	Topic       string
	GroupID     string
	StartOffset string // first | last (по умолчанию last)

	// MaxMessageBytes — максимальный размер одного fetch; 0 → DefaultMaxMessageBytes.
	MaxMessageBytes int

	ProcessTimeout time.Duration // таймаут одного UpsertOrders
	RetryInitial   time.Duration // первая пауза после ошибки fetch
	RetryMax       time.Duration // потолок экспоненциального backoff
}

// withDefaults — копия конфига с заполненными нулевыми таймаутами и лимитами.
func (c ConsumerConfig) withDefaults() ConsumerConfig {
	if c.ProcessTimeout <= 0 {
		c.ProcessTimeout = defaultProcessTimeout
	}
	if c.RetryInitial <= 0 {
		c.RetryInitial = defaultRetryInitial
	}
	if c.RetryMax < c.RetryInitial {
		c.RetryMax = max(defaultRetryMax, c.RetryInitial)
	}
	if c.MaxMessageBytes <= 0 {
		c.MaxMessageBytes = DefaultMaxMessageBytes
	}
	return c
}

// ReaderConfig — конфигурация kafka.Reader с ручным коммитом оффсетов.
func (c ConsumerConfig) ReaderConfig() kafka.ReaderConfig {
	c = c.withDefaults()
	rc := kafka.ReaderConfig{
		Brokers:        c.Brokers,
		GroupID:        c.GroupID,
		Topic:          c.Topic,
		MaxBytes:       c.MaxMessageBytes,
		CommitInterval: 0,
	}

	if strings.EqualFold(strings.TrimSpace(c.StartOffset), "first") {
		rc.StartOffset = kafka.FirstOffset
	} else {
		rc.StartOffset = kafka.LastOffset
	}
	return rc
}

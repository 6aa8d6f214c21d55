package kafka

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/Gunvolt24/orders_api/internal/domain"
	"github.com/Gunvolt24/orders_api/internal/ports"
	"github.com/Gunvolt24/orders_api/pkg/metrics"
	"github.com/segmentio/kafka-go"
)

// Проверка, что Consumer удовлетворяет интерфейсу верхнего уровня (порт приложения).
var _ ports.MessageConsumer = (*Consumer)(nil)

// reader — часть kafka.Reader, которой пользуется Consumer.
type reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Config() kafka.ReaderConfig
	Close() error
}

// batchUpserter — приёмник пакетов; в приложении это ports.OrderService.
type batchUpserter interface {
	UpsertOrders(ctx context.Context, orders []*domain.Order) ([]*domain.Order, error)
}

// Consumer — читает пакеты заказов из топика и передаёт их в UpsertOrders.
type Consumer struct {
	reader         reader
	service        batchUpserter
	validator      ports.OrderValidator
	log            ports.Logger
	now            func() time.Time
	processTimeout time.Duration
	retryInitial   time.Duration
	retryMax       time.Duration
	jitterRand     *rand.Rand
	closeOnce      sync.Once
}

// NewConsumer — конструктор. Reader настроен на ручной коммит оффсетов;
// незаданные таймауты берутся по умолчанию.
func NewConsumer(cfg *ConsumerConfig, service batchUpserter, validator ports.OrderValidator, log ports.Logger) *Consumer {
	conf := cfg.withDefaults()

	return &Consumer{
		reader:         kafka.NewReader(conf.ReaderConfig()),
		service:        service,
		validator:      validator,
		log:            log,
		now:            time.Now,
		processTimeout: conf.ProcessTimeout,
		retryInitial:   conf.RetryInitial,
		retryMax:       conf.RetryMax,
		jitterRand:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run — цикл до отмены ctx. Оффсет коммитится после успешного upsert пакета
// и после невалидного пакета (он пропускается навсегда); ошибка хранилища
// оставляет оффсет незакоммиченным, и пакет придёт снова.
// Повторная доставка безопасна: upsert одного и того же пакета идемпотентен.
func (c *Consumer) Run(ctx context.Context) error {
	rc := c.reader.Config()
	c.log.Infof(ctx, "kafka consumer started topic=%s group_id=%s brokers=%v", rc.Topic, rc.GroupID, rc.Brokers)

	retry := c.retryInitial

	for {
		msg, fetchErr := c.reader.FetchMessage(ctx)
		if fetchErr != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			sleep := c.withJitterEqual(retry)
			c.log.Warnf(ctx, "fetch failed: %v (will retry in %s)", fetchErr, sleep)
			if !c.sleepWithBackoff(ctx, sleep) {
				return ctx.Err()
			}
			retry = c.nextBackoff(retry)
			continue
		}

		retry = c.retryInitial
		metrics.KafkaMessagesConsumed.WithLabelValues(rc.Topic).Inc()

		if shouldCommit := c.handleMessage(ctx, rc.Topic, &msg); shouldCommit {
			c.commitSafely(ctx, &msg)
		} else {
			// пауза перед повторной выборкой того же сообщения
			_ = c.sleepWithBackoff(ctx, c.withJitterEqual(minDuration(c.retryInitial, 500*time.Millisecond)))
		}
	}
}

// Close — закрывает reader; повторные вызовы ничего не делают.
func (c *Consumer) Close() (retErr error) {
	c.closeOnce.Do(func() {
		retErr = c.reader.Close()
	})
	return retErr
}

package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Gunvolt24/orders_api/config"
	"github.com/Gunvolt24/orders_api/internal/kafka"
	"github.com/Gunvolt24/orders_api/internal/ports"
	"github.com/Gunvolt24/orders_api/internal/repo"
	"github.com/Gunvolt24/orders_api/internal/repo/gormsql"
	"github.com/Gunvolt24/orders_api/internal/repo/memory"
	"github.com/Gunvolt24/orders_api/internal/repo/postgres"
	rest "github.com/Gunvolt24/orders_api/internal/transport/http"
	"github.com/Gunvolt24/orders_api/internal/usecase"
	"github.com/Gunvolt24/orders_api/pkg/logger"
	"github.com/Gunvolt24/orders_api/pkg/metrics"
	"github.com/Gunvolt24/orders_api/pkg/telemetry"
	"github.com/Gunvolt24/orders_api/pkg/validate"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

// App — собранное приложение и его внешние интерфейсы (HTTP, метрики, consumer).
type App struct {
	Logger          ports.Logger          // логгер
	HTTPServer      *http.Server          // HTTP-сервер API
	MetricsServer   *http.Server          // отдельный сервер /metrics (может быть nil)
	KafkaConsumer   ports.MessageConsumer // консьюмер сообщений (nil, если Kafka выключена)
	gracefulTimeout time.Duration         // время ожидания завершения HTTP-серверов
}

// Cleanup — функция освобождения ресурсов.
type Cleanup func()

// applyGinMode — устанавливает режим Gin по строке;
// неизвестное значение → debug и предупреждение в лог.
func applyGinMode(ctx context.Context, mode string, log ports.Logger) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	case "", "debug":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.DebugMode)
		log.Warnf(ctx, "unknown GIN_MODE=%q, fallback to debug", mode)
	}
}

// openStore — хранилище заказов по драйверу из конфигурации и функция его закрытия.
func openStore(ctx context.Context, cfg *config.Config, log ports.Logger) (ports.OrderStore, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		log.Warnf(ctx, "using in-memory order store, data is lost on restart")
		return memory.NewOrderStore(), func() {}, nil

	case config.DriverMySQL:
		db, err := gormsql.Open(ctx, cfg.MySQL.DSN, cfg.MySQL.MaxOpenConns)
		if err != nil {
			return nil, nil, fmt.Errorf("mysql: %w", err)
		}
		closeDB := func() {
			if err := gormsql.Close(db); err != nil {
				log.Warnf(ctx, "close mysql: %v", err)
			}
		}
		if cfg.MySQL.AutoMigrate {
			if err := gormsql.AutoMigrate(ctx, db); err != nil {
				closeDB()
				return nil, nil, fmt.Errorf("mysql: %w", err)
			}
			log.Infof(ctx, "mysql schema migrated")
		}
		return gormsql.NewOrderStore(db), closeDB, nil

	default:
		if cfg.Postgres.AutoMigrate {
			if err := postgres.Migrate(ctx, cfg.Postgres.DSN, nil); err != nil {
				return nil, nil, fmt.Errorf("postgres: %w", err)
			}
			log.Infof(ctx, "postgres migrations applied")
		}
		pool, err := postgres.NewPool(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres: %w", err)
		}
		return postgres.NewOrderStore(pool), pool.Close, nil
	}
}

// Bootstrap — собирает зависимости и возвращает приложение, функцию очистки и ошибку.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, Cleanup, error) {
	// Логгер (dev/prod режим задаётся конфигурацией).
	logg, cleanupLogger, err := logger.NewZapLogger(cfg.Logger.IsProd)
	if err != nil {
		return nil, func() {}, err
	}

	// Регистрация метрик (Prometheus).
	metrics.MustRegister()

	store, closeStore, err := openStore(ctx, cfg, logg)
	if err != nil {
		if cErr := cleanupLogger(); cErr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cErr)
		}
		return nil, func() {}, err
	}
	logg.Infof(ctx, "order store ready driver=%s", cfg.Storage.Driver)

	// Трейсинг OTEL (при включённой конфигурации); по умолчанию — no-op.
	shutdownTrace := func(context.Context) error { return nil }
	if cfg.Tracing.Enabled {
		setup, tErr := telemetry.SetupTracing(ctx, telemetry.Options{
			ServiceName: cfg.Tracing.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			SampleRatio: cfg.Tracing.SampleRatio,
		})
		if tErr != nil {
			logg.Warnf(ctx, "failed to setup tracing: %v", tErr)
		} else {
			logg.Infof(ctx, "otel tracing enabled service=%s endpoint=%s sample=%.2f",
				cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
			shutdownTrace = setup
		}
	}

	// Сборка зависимостей доменного слоя.
	orderRepo := repo.NewOrderRepository(store)
	orderService := usecase.NewOrderService(orderRepo, logg)
	orderValidator := validate.NewOrderValidator()

	// Режим Gin.
	applyGinMode(ctx, cfg.HTTP.GinMode, logg)

	// Имя сервиса для otelgin (только при включённом трейсинге).
	otelServiceName := ""
	if cfg.Tracing.Enabled {
		otelServiceName = cfg.Tracing.ServiceName
	}

	// Роутер и HTTP-сервер.
	httpHandler := rest.NewHandler(orderService, orderValidator, logg, cfg.HTTP.HandlerTimeout)
	router := rest.NewRouter(httpHandler, otelServiceName)

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	// Отдельный сервер метрик (пустой адрес — только /metrics на основном роутере).
	var metricsSrv *http.Server
	if cfg.Metrics.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           mux,
			ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		}
	}

	app := &App{
		Logger:          logg,
		HTTPServer:      httpSrv,
		MetricsServer:   metricsSrv,
		gracefulTimeout: cfg.HTTP.GracefulTimeout,
	}

	// Консьюмер Kafka — только при ORDER_KAFKA_ENABLED=true.
	var consumer *kafka.Consumer
	if cfg.Kafka.Enabled {
		kafkaCfg := kafka.ConsumerConfig{
			Brokers:        cfg.Kafka.Brokers,
			GroupID:        cfg.Kafka.GroupID,
			Topic:          cfg.Kafka.Topic,
			StartOffset:    cfg.Kafka.StartOffset,
			ProcessTimeout: cfg.Kafka.ProcessTimeout,
			RetryInitial:   cfg.Kafka.RetryInitial,
			RetryMax:       cfg.Kafka.RetryMax,
		}
		consumer = kafka.NewConsumer(&kafkaCfg, orderService, orderValidator, logg)
		app.KafkaConsumer = consumer
	}

	// Очистка ресурсов (в обратном порядке).
	cleanup := func() {
		if terr := shutdownTrace(context.Background()); terr != nil {
			logg.Warnf(ctx, "shutdown tracing: %v", terr)
		}
		if consumer != nil {
			if err := consumer.Close(); err != nil {
				logg.Warnf(ctx, "kafka consumer close error: %v", err)
			}
		}

		closeStore()
		if cerr := cleanupLogger(); cerr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cerr)
		}
	}

	return app, cleanup, nil
}

// Run — запускает HTTP-серверы и консьюмера; ждёт отмены контекста или ошибки и останавливает их.
// Отмена контекста — штатная остановка (nil); ошибка любого компонента останавливает остальные.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.Infof(ctx, "http server starting (addr=%s)", a.HTTPServer.Addr)
		return listen(a.HTTPServer)
	})

	if a.MetricsServer != nil {
		g.Go(func() error {
			a.Logger.Infof(ctx, "metrics server starting (addr=%s)", a.MetricsServer.Addr)
			return listen(a.MetricsServer)
		})
	}

	if a.KafkaConsumer != nil {
		g.Go(func() error {
			a.Logger.Infof(ctx, "kafka consumer starting")
			err := a.KafkaConsumer.Run(gctx)
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		})
	}

	// Остановка по отмене контекста или по ошибке любого компонента.
	g.Go(func() error {
		<-gctx.Done()
		a.Logger.Infof(ctx, "shutdown requested, starting graceful shutdown")
		a.shutdown(ctx)
		return nil
	})

	err := g.Wait()
	if err != nil {
		a.Logger.Warnf(ctx, "background error: %v", err)
	}
	a.Logger.Infof(ctx, "service stopped")
	return err
}

func (a *App) shutdown(ctx context.Context) {
	gt := a.gracefulTimeout
	if gt <= 0 {
		gt = 5 * time.Second
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), gt)
	defer cancel()

	if err := a.HTTPServer.Shutdown(shutdownCtx); err != nil {
		a.Logger.Warnf(ctx, "http server shutdown failed: %v", err)
	} else {
		a.Logger.Infof(ctx, "http server stopped gracefully")
	}

	if a.MetricsServer != nil {
		if err := a.MetricsServer.Shutdown(shutdownCtx); err != nil {
			a.Logger.Warnf(ctx, "metrics server shutdown failed: %v", err)
		}
	}

	if a.KafkaConsumer != nil {
		if err := a.KafkaConsumer.Close(); err != nil {
			a.Logger.Warnf(ctx, "kafka consumer close error: %v", err)
		}
	}
}

// listen — ListenAndServe без ошибки штатной остановки.
func listen(srv *http.Server) error {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen %s: %w", srv.Addr, err)
	}
	return nil
}

package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ordermgmt/internal/auth"
	"github.com/vladislavdragonenkov/ordermgmt/internal/cache"
	"github.com/vladislavdragonenkov/ordermgmt/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/ordermgmt/internal/health"
	"github.com/vladislavdragonenkov/ordermgmt/internal/messaging/kafka"
	ordersvc "github.com/vladislavdragonenkov/ordermgmt/internal/service/order"
	"github.com/vladislavdragonenkov/ordermgmt/internal/storage/memory"
	"github.com/vladislavdragonenkov/ordermgmt/internal/storage/postgres"
	transport "github.com/vladislavdragonenkov/ordermgmt/internal/transport/http"
	"github.com/vladislavdragonenkov/ordermgmt/internal/version"
)

const shutdownTimeout = 5 * time.Second

// Run поднимает сервис заказов: хранилище, кэш, Kafka producer, REST API
// и сервер метрик; блокируется до отмены контекста.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	healthHandler := healthcheck.NewHandler(version.GetVersion())

	repo, store, err := initStorage(ctx, cfg, logger, healthHandler)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	producer := initKafka(cfg, logger)
	if producer != nil {
		defer func() {
			if err := producer.Close(); err != nil {
				logger.WithError(err).Warn("failed to close kafka producer")
			}
		}()
	}

	orderCache := cache.New()

	var publisher domain.EventPublisher
	if producer != nil {
		publisher = producer
	}
	svc := ordersvc.NewService(repo, orderCache, publisher, logger.WithField("layer", "orchestrator"))

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	if cfg.JWTSecret != "" {
		validator := auth.NewTokenValidator(cfg.JWTSecret, logger.WithField("layer", "auth"))
		e.Use(auth.ServiceMiddleware(validator, logger.WithField("layer", "auth")))
	}

	httpServer := transport.NewServer(svc, logger.WithField("layer", "http"))
	httpServer.Register(e.Group("/api/v1/orders"))

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("REST API слушает %s", cfg.HTTPAddr)
		errCh <- e.Start(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP-сервер")
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := e.Shutdown(stopCtx); err != nil {
			logger.WithError(err).Warn("graceful stop завершился с ошибкой")
		}
		shutdownHTTP(metricsSrv, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(metricsSrv, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// initStorage выбирает реализацию репозитория: PostgreSQL при наличии DSN,
// иначе in-memory для локальной разработки.
func initStorage(ctx context.Context, cfg Config, logger *log.Entry, healthHandler *healthcheck.Handler) (domain.OrderRepository, *postgres.Store, error) {
	if cfg.PostgresDSN == "" {
		logger.Info("postgres DSN не задан, используем in-memory хранилище")
		return memory.NewOrderRepository(), nil, nil
	}

	store, err := postgres.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, err
	}
	if err := store.EnsureSchema(ctx); err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	healthHandler.RegisterChecker("postgres", healthcheck.NewSimpleChecker("postgres", func() error {
		checkCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return store.Ping(checkCtx)
	}))

	logger.Info("postgres хранилище инициализировано")
	return postgres.NewOrderRepository(store), store, nil
}

// initKafka создаёт producer, если заданы брокеры. Недоступность Kafka
// не мешает запуску: сервис продолжит работать без публикации событий.
func initKafka(cfg Config, logger *log.Entry) *kafka.Producer {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("kafka брокеры не заданы, события публиковаться не будут")
		return nil
	}

	producer, err := kafka.NewProducer(cfg.KafkaBrokers)
	if err != nil {
		logger.WithError(err).Warn("failed to create kafka producer, continuing without kafka")
		return nil
	}
	logger.WithField("brokers", cfg.KafkaBrokers).Info("kafka producer initialized")
	return producer
}

// startMetricsServer запускает HTTP-обработчик /metrics и health-пробы.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("metrics shutdown with error")
	}
}

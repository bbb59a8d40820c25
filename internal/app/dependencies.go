package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderstore/internal/domain"
	"github.com/vladislavdragonenkov/orderstore/internal/health"
	"github.com/vladislavdragonenkov/orderstore/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/orderstore/internal/metrics"
	"github.com/vladislavdragonenkov/orderstore/internal/storage/observed"
	"github.com/vladislavdragonenkov/orderstore/internal/storage/postgres"
	"github.com/vladislavdragonenkov/orderstore/internal/version"
)

// Dependencies содержит все зависимости приложения.
type Dependencies struct {
	Customers domain.CustomerRepository
	Products  domain.ProductRepository
	Orders    domain.OrderRepository

	// Store равен nil для хранилища в памяти.
	Store *postgres.Store
	// Publisher равен nil, если Kafka не настроена или недоступна.
	Publisher domain.OrderEventPublisher

	Metrics  *metrics.RepositoryMetrics
	Registry *prometheus.Registry
	Health   *health.Registry
	Logger   *log.Entry

	cfg      Config
	producer *kafka.Producer
}

// NewDependencies создаёт хранилище по конфигурации, оборачивает репозитории
// логированием и метриками и подключает публикацию событий в Kafka.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	storage, err := initStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	repoMetrics := metrics.NewRepositoryMetrics(registry)

	deps := &Dependencies{
		Store:    storage.store,
		Metrics:  repoMetrics,
		Registry: registry,
		Health:   health.NewRegistry(version.GetVersion()),
		Logger:   logger,
		cfg:      cfg,
	}

	producer, kafkaErr := initKafkaProducer(cfg.KafkaBrokerList(), logger)
	if producer != nil {
		deps.producer = producer
		deps.Publisher = initOrderEventPublisher(producer, cfg.KafkaTopic, logger)
	}

	repoLogger := logger.WithField("layer", "storage")
	deps.Customers = observed.Customers(storage.customers, repoLogger, repoMetrics)
	deps.Products = observed.Products(storage.products, repoLogger, repoMetrics)
	deps.Orders = observed.Orders(storage.orders, deps.Publisher, repoLogger, repoMetrics)

	deps.registerHealthChecks(kafkaErr)
	return deps, nil
}

func (d *Dependencies) registerHealthChecks(kafkaErr error) {
	if d.Store == nil {
		d.Health.Register("storage", health.NewSimpleChecker("storage", func(context.Context) error {
			return nil
		}))
	} else {
		store := d.Store
		d.Health.Register("storage", health.NewSimpleChecker("storage", store.Ping))
		d.Health.Register("migrations", health.NewOptionalChecker("migrations", func(ctx context.Context) error {
			state, err := store.MigrationStatus(ctx)
			if err != nil {
				return err
			}
			if !state.UpToDate() {
				return fmt.Errorf("%d pending migrations, schema version %d", state.Pending, state.Version)
			}
			return nil
		}))
	}

	if len(d.cfg.KafkaBrokerList()) > 0 {
		d.Health.Register("kafka", health.NewOptionalChecker("kafka", func(context.Context) error {
			if d.producer == nil {
				return fmt.Errorf("kafka producer unavailable: %w", kafkaErr)
			}
			return nil
		}))
	}
}

// FlushMetrics записывает метрики в textfile, если путь задан в конфигурации.
func (d *Dependencies) FlushMetrics() error {
	return metrics.WriteTextfile(d.cfg.MetricsTextfile, d.Registry)
}

// Close сбрасывает метрики и освобождает подключения.
func (d *Dependencies) Close() error {
	if d == nil {
		return nil
	}

	var errs []error
	if err := d.FlushMetrics(); err != nil {
		errs = append(errs, err)
	}
	closeKafka(d.producer, d.Logger)
	if err := d.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close postgres: %w", err))
	}
	return errors.Join(errs...)
}

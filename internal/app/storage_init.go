package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderstore/internal/domain"
	"github.com/vladislavdragonenkov/orderstore/internal/storage/memory"
	"github.com/vladislavdragonenkov/orderstore/internal/storage/postgres"
)

type storageDependencies struct {
	customers domain.CustomerRepository
	products  domain.ProductRepository
	orders    domain.OrderRepository
	store     *postgres.Store
}

// initStorage выбирает реализацию хранилища по cfg.StorageDriver.
func initStorage(ctx context.Context, cfg Config, logger *log.Entry) (storageDependencies, error) {
	switch cfg.StorageDriver {
	case "", StorageDriverMemory:
		logger.Info("using in-memory storage")
		return storageDependencies{
			customers: memory.NewCustomerRepository(),
			products:  memory.NewProductRepository(),
			orders:    memory.NewOrderRepository(),
		}, nil
	case StorageDriverPostgres:
		if cfg.PostgresDSN == "" {
			return storageDependencies{}, fmt.Errorf("postgres DSN is required for storage driver %q", StorageDriverPostgres)
		}

		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return storageDependencies{}, err
		}
		if cfg.PostgresAutoMigrate {
			if err := store.EnsureSchema(ctx); err != nil {
				_ = store.Close()
				return storageDependencies{}, fmt.Errorf("apply migrations: %w", err)
			}
			logger.Info("postgres schema is up to date")
		}

		logger.Info("using postgres storage")
		return storageDependencies{
			customers: postgres.NewCustomerRepository(store),
			products:  postgres.NewProductRepository(store),
			orders:    postgres.NewOrderRepository(store),
			store:     store,
		}, nil
	default:
		return storageDependencies{}, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}

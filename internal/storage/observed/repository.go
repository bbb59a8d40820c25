// Package observed оборачивает репозитории логированием, метриками и
// публикацией событий заказов.
package observed

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderstore/internal/domain"
	"github.com/vladislavdragonenkov/orderstore/internal/metrics"
)

// Имена сущностей для логов и метрик.
const (
	EntityCustomer = "customer"
	EntityProduct  = "product"
	EntityOrder    = "order"
)

type repository[T any] struct {
	next    domain.Repository[T]
	entity  string
	logger  *log.Entry
	metrics *metrics.RepositoryMetrics
}

func newRepository[T any](next domain.Repository[T], entity string, logger *log.Entry, m *metrics.RepositoryMetrics) repository[T] {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return repository[T]{
		next:    next,
		entity:  entity,
		logger:  logger.WithField("entity", entity),
		metrics: m,
	}
}

// Customers оборачивает хранилище клиентов.
func Customers(next domain.CustomerRepository, logger *log.Entry, m *metrics.RepositoryMetrics) domain.CustomerRepository {
	r := newRepository[domain.Customer](next, EntityCustomer, logger, m)
	return &r
}

// Products оборачивает хранилище товаров.
func Products(next domain.ProductRepository, logger *log.Entry, m *metrics.RepositoryMetrics) domain.ProductRepository {
	r := newRepository[domain.Product](next, EntityProduct, logger, m)
	return &r
}

func (r *repository[T]) Create(ctx context.Context, entity T) error {
	done := r.metrics.StartOperation(r.entity, "create")
	err := r.next.Create(ctx, entity)
	r.finish(done, "create", "", err)
	return err
}

func (r *repository[T]) Update(ctx context.Context, entity T) error {
	done := r.metrics.StartOperation(r.entity, "update")
	err := r.next.Update(ctx, entity)
	r.finish(done, "update", "", err)
	return err
}

func (r *repository[T]) Find(ctx context.Context, id string) (T, error) {
	done := r.metrics.StartOperation(r.entity, "find")
	entity, err := r.next.Find(ctx, id)
	r.finish(done, "find", id, err)
	return entity, err
}

func (r *repository[T]) FindAll(ctx context.Context) ([]T, error) {
	done := r.metrics.StartOperation(r.entity, "find_all")
	entities, err := r.next.FindAll(ctx)
	r.finish(done, "find_all", "", err)
	if err == nil {
		r.logger.WithField("count", len(entities)).Debug("Entities listed")
	}
	return entities, err
}

func (r *repository[T]) finish(done func(string), operation, id string, err error) {
	result := resultOf(err)
	done(result)

	entry := r.logger.WithField("operation", operation)
	if id != "" {
		entry = entry.WithField("id", id)
	}

	switch result {
	case metrics.ResultOK:
		entry.Debug("Repository operation completed")
	case metrics.ResultError:
		entry.WithError(err).Error("Repository operation failed")
	default:
		entry.WithError(err).Info("Repository operation rejected")
	}
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case domain.IsNotFound(err):
		return metrics.ResultNotFound
	case errors.Is(err, domain.ErrAlreadyExists):
		return metrics.ResultConflict
	default:
		return metrics.ResultError
	}
}

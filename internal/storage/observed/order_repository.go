package observed

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderstore/internal/domain"
	"github.com/vladislavdragonenkov/orderstore/internal/metrics"
)

type orderRepository struct {
	repository[domain.Order]
	publisher domain.OrderEventPublisher
}

// Orders оборачивает хранилище заказов. После успешных Create и Update
// публикуется OrderEvent; ошибка публикации логируется и не возвращается.
// publisher может быть nil.
func Orders(next domain.OrderRepository, publisher domain.OrderEventPublisher, logger *log.Entry, m *metrics.RepositoryMetrics) domain.OrderRepository {
	return &orderRepository{
		repository: newRepository[domain.Order](next, EntityOrder, logger, m),
		publisher:  publisher,
	}
}

func (r *orderRepository) Create(ctx context.Context, order domain.Order) error {
	if err := r.repository.Create(ctx, order); err != nil {
		return err
	}
	r.publish(ctx, domain.NewOrderEvent(domain.OrderEventCreated, order))
	return nil
}

func (r *orderRepository) Update(ctx context.Context, order domain.Order) error {
	if err := r.repository.Update(ctx, order); err != nil {
		return err
	}
	r.publish(ctx, domain.NewOrderEvent(domain.OrderEventUpdated, order))
	return nil
}

func (r *orderRepository) publish(ctx context.Context, event domain.OrderEvent) {
	if r.publisher == nil {
		return
	}

	entry := r.logger.WithFields(log.Fields{
		"order_id":   event.OrderID,
		"event_type": event.Type,
	})
	if err := r.publisher.Publish(ctx, event); err != nil {
		r.metrics.RecordPublishFailure()
		entry.WithError(err).Warn("Failed to publish order event")
		return
	}
	r.metrics.RecordEventPublished()
	entry.Debug("Order event published")
}

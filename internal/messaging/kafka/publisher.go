package kafka

import (
	"context"
	"fmt"

	"github.com/vladislavdragonenkov/orderstore/internal/domain"
)

// OrderEventPublisher публикует события заказов в Kafka topic. Ключ сообщения
// равен ID заказа, поэтому события одного заказа попадают в одну партицию.
type OrderEventPublisher struct {
	producer *Producer
	topic    string
}

// NewOrderEventPublisher создаёт паблишер; пустой topic заменяется TopicOrderEvents.
func NewOrderEventPublisher(producer *Producer, topic string) *OrderEventPublisher {
	if topic == "" {
		topic = TopicOrderEvents
	}
	return &OrderEventPublisher{
		producer: producer,
		topic:    topic,
	}
}

// Topic возвращает topic, в который уходят события.
func (p *OrderEventPublisher) Topic() string {
	return p.topic
}

func (p *OrderEventPublisher) Publish(ctx context.Context, event domain.OrderEvent) error {
	if p == nil || p.producer == nil {
		return fmt.Errorf("kafka order event publisher is not initialized")
	}
	if event.OrderID == "" {
		return domain.ErrOrderIDRequired
	}

	return p.producer.PublishEvent(ctx, p.topic, event.OrderID, newOrderEventMessage(event))
}

var _ domain.OrderEventPublisher = (*OrderEventPublisher)(nil)

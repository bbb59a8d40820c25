package kafka

import (
	"time"

	"github.com/vladislavdragonenkov/orderstore/internal/domain"
)

// TopicOrderEvents — topic событий заказов по умолчанию.
const TopicOrderEvents = "orderstore.order.events"

// OrderEventMessage — JSON-представление события заказа в Kafka.
type OrderEventMessage struct {
	EventType  string    `json:"event_type"`
	OrderID    string    `json:"order_id"`
	CustomerID string    `json:"customer_id"`
	TotalMinor int64     `json:"total_minor"`
	ItemCount  int       `json:"item_count"`
	OccurredAt time.Time `json:"occurred_at"`
}

func newOrderEventMessage(event domain.OrderEvent) OrderEventMessage {
	return OrderEventMessage{
		EventType:  string(event.Type),
		OrderID:    event.OrderID,
		CustomerID: event.CustomerID,
		TotalMinor: event.TotalMinor,
		ItemCount:  event.ItemCount,
		OccurredAt: event.OccurredAt,
	}
}

package domain

import (
	"context"
	"time"
)

// OrderEventType определяет тип события заказа.
type OrderEventType string

const (
	OrderEventCreated OrderEventType = "order.created"
	OrderEventUpdated OrderEventType = "order.updated"
)

// OrderEvent — снимок заказа после успешной записи в хранилище.
type OrderEvent struct {
	Type       OrderEventType
	OrderID    string
	CustomerID string
	TotalMinor int64
	ItemCount  int
	OccurredAt time.Time
}

// NewOrderEvent собирает событие из агрегата.
func NewOrderEvent(eventType OrderEventType, order Order) OrderEvent {
	return OrderEvent{
		Type:       eventType,
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		TotalMinor: order.Total(),
		ItemCount:  len(order.Items),
		OccurredAt: time.Now().UTC(),
	}
}

// OrderEventPublisher публикует события заказов во внешнюю шину.
type OrderEventPublisher interface {
	Publish(ctx context.Context, event OrderEvent) error
}

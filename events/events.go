// Package events carries order lifecycle events over RabbitMQ and turns them
// into customer email notifications.
package events

import (
	"time"

	"github.com/google/uuid"

	"go-storefront/models"
)

const (
	TypeOrderPlaced        = "order.placed"
	TypeOrderStatusChanged = "order.status_changed"
)

// Event is the message body published for every order change.
type Event struct {
	ID            string             `json:"id"`
	Type          string             `json:"type"`
	OccurredAt    time.Time          `json:"occurredAt"`
	OrderID       string             `json:"orderId"`
	UserID        string             `json:"userId"`
	Status        models.OrderStatus `json:"status"`
	TotalAmount   float64            `json:"totalAmount"`
	PaymentMethod string             `json:"paymentMethod"`
}

func NewOrderEvent(eventType string, order *models.Order) Event {
	return Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		OccurredAt:    time.Now().UTC(),
		OrderID:       order.ID.Hex(),
		UserID:        order.UserID.Hex(),
		Status:        order.Status,
		TotalAmount:   order.TotalAmount,
		PaymentMethod: order.PaymentMethod,
	}
}

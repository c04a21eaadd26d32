package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"go-storefront/models"
)

const (
	dlxExchange = "orders.dlx"
	dlqSuffix   = ".dlq"
)

// Channel is the subset of *amqp.Channel used for publishing.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// DeclareQueue declares the durable event queue and its dead-letter queue.
func DeclareQueue(ch *amqp.Channel, queue string) error {
	dlq := queue + dlqSuffix
	if err := ch.ExchangeDeclare(dlxExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare DLX: %w", err)
	}
	if _, err := ch.QueueDeclare(dlq, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare DLQ: %w", err)
	}
	if err := ch.QueueBind(dlq, queue, dlxExchange, false, nil); err != nil {
		return fmt.Errorf("bind DLQ: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    dlxExchange,
		"x-dead-letter-routing-key": queue,
	}); err != nil {
		return fmt.Errorf("declare event queue: %w", err)
	}
	return nil
}

// Publisher sends order events to a queue through the default exchange.
type Publisher struct {
	mu    sync.Mutex
	ch    Channel
	queue string
	log   *slog.Logger
}

func NewPublisher(ch Channel, queue string, log *slog.Logger) *Publisher {
	return &Publisher{ch: ch, queue: queue, log: log}
}

func (p *Publisher) PublishOrderPlaced(ctx context.Context, order *models.Order) error {
	return p.publish(ctx, NewOrderEvent(TypeOrderPlaced, order))
}

func (p *Publisher) PublishOrderStatusChanged(ctx context.Context, order *models.Order) error {
	return p.publish(ctx, NewOrderEvent(TypeOrderStatusChanged, order))
}

func (p *Publisher) publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Type:         event.Type,
		Timestamp:    event.OccurredAt,
		Body:         body,
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	p.log.Debug("event published", "type", event.Type, "event_id", event.ID, "order_id", event.OrderID)
	return nil
}

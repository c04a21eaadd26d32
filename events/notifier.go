package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-storefront/repositories"
)

const idempotencyTTL = 24 * time.Hour

// Mailer sends customer-facing order emails.
type Mailer interface {
	SendOrderPlacedEmail(toEmail, name, orderID string, totalAmount float64, paymentMethod string) error
	SendOrderStatusEmail(toEmail, name, orderID, status string) error
}

var (
	errMalformed = errors.New("malformed event")
	errRetry     = errors.New("retryable")
)

// Notifier consumes order events and emails the order's owner. Redis, when
// configured, makes delivery at-most-once per event id.
type Notifier struct {
	channel *amqp.Channel
	queue   string
	users   repositories.UserRepository
	redis   *redis.Client
	mailer  Mailer
	log     *slog.Logger
	done    chan struct{}
}

func NewNotifier(ch *amqp.Channel, queue string, users repositories.UserRepository, rdb *redis.Client, mailer Mailer, log *slog.Logger) *Notifier {
	return &Notifier{
		channel: ch,
		queue:   queue,
		users:   users,
		redis:   rdb,
		mailer:  mailer,
		log:     log,
		done:    make(chan struct{}),
	}
}

func (n *Notifier) Start(ctx context.Context) error {
	if err := n.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set QoS: %w", err)
	}
	msgs, err := n.channel.Consume(n.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				n.processMessage(ctx, msg)
			case <-n.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	n.log.Info("order notifier started", "queue", n.queue)
	return nil
}

func (n *Notifier) Stop() { close(n.done) }

func (n *Notifier) processMessage(ctx context.Context, msg amqp.Delivery) {
	err := n.handle(ctx, msg.Body)
	switch {
	case err == nil:
		_ = msg.Ack(false)
	case errors.Is(err, errRetry):
		n.log.Warn("notification deferred", "error", err)
		_ = msg.Nack(false, true)
	default:
		n.log.Error("notification failed", "error", err)
		_ = msg.Nack(false, false)
	}
}

func (n *Notifier) handle(ctx context.Context, body []byte) error {
	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}
	if event.ID == "" {
		return fmt.Errorf("%w: missing id", errMalformed)
	}
	log := n.log.With("event_id", event.ID, "type", event.Type, "order_id", event.OrderID)

	key := "notified:" + event.ID
	if n.redis != nil {
		fresh, err := n.redis.SetNX(ctx, key, "1", idempotencyTTL).Result()
		if err != nil {
			return fmt.Errorf("%w: idempotency key: %v", errRetry, err)
		}
		if !fresh {
			log.Info("event already handled, skipping")
			return nil
		}
	}

	if err := n.notify(ctx, event); err != nil {
		if n.redis != nil {
			_ = n.redis.Del(ctx, key).Err()
		}
		return err
	}
	log.Info("customer notified")
	return nil
}

func (n *Notifier) notify(ctx context.Context, event Event) error {
	userID, err := primitive.ObjectIDFromHex(event.UserID)
	if err != nil {
		return fmt.Errorf("%w: user id %q", errMalformed, event.UserID)
	}
	user, err := n.users.FindByID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		n.log.Warn("order owner no longer exists", "user_id", event.UserID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: load user: %v", errRetry, err)
	}

	switch event.Type {
	case TypeOrderPlaced:
		err = n.mailer.SendOrderPlacedEmail(user.Email, user.Name, event.OrderID, event.TotalAmount, event.PaymentMethod)
	case TypeOrderStatusChanged:
		err = n.mailer.SendOrderStatusEmail(user.Email, user.Name, event.OrderID, string(event.Status))
	default:
		return fmt.Errorf("%w: unknown type %q", errMalformed, event.Type)
	}
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-storefront/models"
	"go-storefront/repositories"
)

// EventPublisher announces order lifecycle changes to other processes.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, order *models.Order) error
	PublishOrderStatusChanged(ctx context.Context, order *models.Order) error
}

type OrderItemInput struct {
	ProductID string
	Name      string
	Price     float64
	Quantity  int
}

type CreateOrderInput struct {
	Items           []OrderItemInput
	TotalAmount     *float64
	ShippingAddress string
	PaymentMethod   string
	Notes           string
	Customer        *models.Customer
}

type OrderService struct {
	orders    repositories.OrderRepository
	users     repositories.UserRepository
	publisher EventPublisher
	log       *slog.Logger
}

// NewOrderService builds the order workflow. publisher may be nil.
func NewOrderService(orders repositories.OrderRepository, users repositories.UserRepository, publisher EventPublisher, log *slog.Logger) *OrderService {
	return &OrderService{orders: orders, users: users, publisher: publisher, log: log}
}

// Create stores the submitted items verbatim as the order's snapshot and
// starts the order in Pending. Product stock is left untouched.
func (s *OrderService) Create(ctx context.Context, session *Session, in CreateOrderInput) (*models.Order, error) {
	requester, err := authorizeLive(ctx, s.users, session, models.RoleUser)
	if err != nil {
		return nil, err
	}

	items, subtotal, err := snapshotItems(in.Items)
	if err != nil {
		return nil, err
	}
	shipping := strings.TrimSpace(in.ShippingAddress)
	if shipping == "" {
		return nil, fmt.Errorf("%w: shippingAddress is required", ErrValidation)
	}
	if in.TotalAmount == nil {
		return nil, fmt.Errorf("%w: totalAmount is required", ErrValidation)
	}
	if *in.TotalAmount < 0 {
		return nil, fmt.Errorf("%w: totalAmount must not be negative", ErrValidation)
	}
	if total := decimal.NewFromFloat(*in.TotalAmount); !total.Equal(subtotal) {
		s.log.Warn("order total differs from item subtotal",
			"user_id", requester.UserID.Hex(),
			"submitted", total.String(),
			"subtotal", subtotal.String())
	}

	payment := strings.TrimSpace(in.PaymentMethod)
	if payment == "" {
		payment = models.DefaultPaymentMethod
	}

	order := &models.Order{
		UserID:          requester.UserID,
		Items:           items,
		TotalAmount:     *in.TotalAmount,
		ShippingAddress: shipping,
		Customer:        in.Customer,
		PaymentMethod:   payment,
		Status:          models.OrderStatusPending,
		Notes:           in.Notes,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	s.log.Info("order created", "order_id", order.ID.Hex(), "user_id", requester.UserID.Hex(), "items", len(items))

	if s.publisher != nil {
		if err := s.publisher.PublishOrderPlaced(ctx, order); err != nil {
			s.log.Error("publish order placed", "order_id", order.ID.Hex(), "error", err)
		}
	}
	return order, nil
}

// List returns every order for admins and only the requester's own orders
// otherwise, newest first, with owner details attached.
func (s *OrderService) List(ctx context.Context, session *Session) ([]models.Order, error) {
	requester, _, err := liveSession(ctx, s.users, session)
	if err != nil {
		return nil, err
	}

	var owner *primitive.ObjectID
	if !requester.IsAdmin() {
		owner = &requester.UserID
	}
	orders, err := s.orders.List(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if err := s.attachOwners(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Get returns a single order to its owner or an admin. A malformed id is
// reported the same as a missing order.
func (s *OrderService) Get(ctx context.Context, session *Session, rawID string) (*models.Order, error) {
	requester, _, err := liveSession(ctx, s.users, session)
	if err != nil {
		return nil, err
	}
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return nil, fmt.Errorf("order %w", ErrNotFound)
	}

	order, err := s.orders.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("order %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	if err := AuthorizeOwner(requester, order.UserID); err != nil {
		return nil, err
	}

	orders := []models.Order{*order}
	if err := s.attachOwners(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

// UpdateStatus sets any of the known statuses regardless of the current one.
func (s *OrderService) UpdateStatus(ctx context.Context, session *Session, rawID string, status models.OrderStatus) (*models.Order, error) {
	admin, err := authorizeLive(ctx, s.users, session, models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, status)
	}
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return nil, fmt.Errorf("order %w", ErrNotFound)
	}

	order, err := s.orders.UpdateStatus(ctx, id, status)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("order %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	s.log.Info("order status updated", "order_id", id.Hex(), "status", status, "by", admin.UserID.Hex())

	if s.publisher != nil {
		if err := s.publisher.PublishOrderStatusChanged(ctx, order); err != nil {
			s.log.Error("publish order status", "order_id", id.Hex(), "error", err)
		}
	}

	orders := []models.Order{*order}
	if err := s.attachOwners(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (s *OrderService) attachOwners(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	seen := make(map[primitive.ObjectID]struct{}, len(orders))
	ids := make([]primitive.ObjectID, 0, len(orders))
	for _, o := range orders {
		if _, ok := seen[o.UserID]; !ok {
			seen[o.UserID] = struct{}{}
			ids = append(ids, o.UserID)
		}
	}

	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("load order owners: %w", err)
	}
	for i := range orders {
		if u, ok := users[orders[i].UserID]; ok {
			orders[i].Owner = &models.OrderOwner{ID: u.ID, Name: u.Name, Email: u.Email}
		}
	}
	return nil
}

func snapshotItems(in []OrderItemInput) ([]models.OrderItem, decimal.Decimal, error) {
	if len(in) == 0 {
		return nil, decimal.Zero, fmt.Errorf("%w: order must contain at least one item", ErrValidation)
	}

	subtotal := decimal.Zero
	items := make([]models.OrderItem, 0, len(in))
	for i, item := range in {
		productID, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("%w: item %d has an invalid product id", ErrValidation, i)
		}
		if strings.TrimSpace(item.Name) == "" {
			return nil, decimal.Zero, fmt.Errorf("%w: item %d has no name", ErrValidation, i)
		}
		if item.Price < 0 {
			return nil, decimal.Zero, fmt.Errorf("%w: item %d has a negative price", ErrValidation, i)
		}
		if item.Quantity < 1 {
			return nil, decimal.Zero, fmt.Errorf("%w: item %d quantity must be at least 1", ErrValidation, i)
		}

		items = append(items, models.OrderItem{
			ProductID: productID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(line)
	}
	return items, subtotal, nil
}

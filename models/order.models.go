package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// OrderStatuses lists every accepted status in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// Valid reports whether s is one of OrderStatuses.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// DefaultPaymentMethod is used when checkout does not name one.
const DefaultPaymentMethod = "Cash on Delivery"

// OrderItem is a snapshot of a product taken when the order was placed.
// ProductID is a lookup reference only; the item stays valid after the
// product is edited or deleted.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"product"`
	Name      string             `bson:"name" json:"name"`
	Price     float64            `bson:"price" json:"price"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// Customer holds contact details submitted at checkout.
type Customer struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Phone string `bson:"phone" json:"phone"`
}

// OrderOwner is the read-only view of the ordering user attached to responses.
type OrderOwner struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
}

// Order represents a user's order
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID          primitive.ObjectID `bson:"user_id" json:"userId"`
	Owner           *OrderOwner        `bson:"-" json:"user,omitempty"`
	Items           []OrderItem        `bson:"items" json:"items"`
	TotalAmount     float64            `bson:"total_amount" json:"totalAmount"`
	ShippingAddress string             `bson:"shipping_address" json:"shippingAddress"`
	Customer        *Customer          `bson:"customer,omitempty" json:"customer,omitempty"`
	PaymentMethod   string             `bson:"payment_method" json:"paymentMethod"`
	Status          OrderStatus        `bson:"status" json:"status"`
	Notes           string             `bson:"notes" json:"notes"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updatedAt"`
}

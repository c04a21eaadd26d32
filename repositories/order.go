package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-storefront/models"
)

const ordersCollection = "orders"

type orderRepo struct {
	coll *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) OrderRepository {
	return &orderRepo{coll: db.Collection(ordersCollection)}
}

func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	now := time.Now().UTC()
	order.ID = primitive.NewObjectID()
	order.CreatedAt = now
	order.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *orderRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	return &order, nil
}

func (r *orderRepo) List(ctx context.Context, owner *primitive.ObjectID) ([]models.Order, error) {
	filter := bson.M{}
	if owner != nil {
		filter["user_id"] = *owner
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("read orders: %w", err)
	}
	return orders, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) (*models.Order, error) {
	update := bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order models.Order
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	return &order, nil
}

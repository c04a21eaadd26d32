package repositories

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-storefront/models"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate key")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	// FindByIdentifier matches identifier against email or phone.
	FindByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error)
}

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	// Featured returns up to limit in-stock products, newest first.
	Featured(ctx context.Context, limit int) ([]models.Product, error)
	Update(ctx context.Context, id primitive.ObjectID, update models.ProductUpdate) (*models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	// List returns orders newest first; a nil owner lists every order.
	List(ctx context.Context, owner *primitive.ObjectID) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) (*models.Order, error)
}

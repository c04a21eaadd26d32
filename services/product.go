package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-storefront/models"
	"go-storefront/repositories"
)

// FeaturedLimit caps the storefront's featured product strip.
const FeaturedLimit = 4

type ProductInput struct {
	Name        string
	Description string
	Price       *float64
	ImageURL    string
	Stock       *int
	Category    string
	Vendor      string
}

type ProductService struct {
	products repositories.ProductRepository
	users    repositories.UserRepository
	log      *slog.Logger
}

func NewProductService(products repositories.ProductRepository, users repositories.UserRepository, log *slog.Logger) *ProductService {
	return &ProductService{products: products, users: users, log: log}
}

func (s *ProductService) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	products, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *ProductService) Featured(ctx context.Context) ([]models.Product, error) {
	products, err := s.products.Featured(ctx, FeaturedLimit)
	if err != nil {
		return nil, fmt.Errorf("featured products: %w", err)
	}
	return products, nil
}

func (s *ProductService) Get(ctx context.Context, rawID string) (*models.Product, error) {
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid product id", ErrValidation)
	}
	return s.find(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, session *Session, in ProductInput) (*models.Product, error) {
	admin, err := authorizeLive(ctx, s.users, session, models.RoleAdmin)
	if err != nil {
		return nil, err
	}

	in.Name = strings.TrimSpace(in.Name)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	if in.Name == "" || in.Price == nil || in.Stock == nil || in.ImageURL == "" {
		return nil, fmt.Errorf("%w: name, price, stock and imageUrl are required", ErrValidation)
	}
	if err := checkAmounts(in.Price, in.Stock); err != nil {
		return nil, err
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = models.DefaultCategory
	}

	product := &models.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       *in.Price,
		ImageURL:    in.ImageURL,
		Stock:       *in.Stock,
		Category:    category,
		Vendor:      strings.TrimSpace(in.Vendor),
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.log.Info("product created", "product_id", product.ID.Hex(), "by", admin.UserID.Hex())
	return product, nil
}

// Update applies a partial update; fields left nil keep their stored value.
func (s *ProductService) Update(ctx context.Context, session *Session, rawID string, update models.ProductUpdate) (*models.Product, error) {
	admin, err := authorizeLive(ctx, s.users, session, models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid product id", ErrValidation)
	}
	if update.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", ErrValidation)
	}
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, fmt.Errorf("%w: name must not be empty", ErrValidation)
	}
	if update.ImageURL != nil && strings.TrimSpace(*update.ImageURL) == "" {
		return nil, fmt.Errorf("%w: imageUrl must not be empty", ErrValidation)
	}
	if err := checkAmounts(update.Price, update.Stock); err != nil {
		return nil, err
	}
	if update.Category != nil && strings.TrimSpace(*update.Category) == "" {
		category := models.DefaultCategory
		update.Category = &category
	}

	product, err := s.products.Update(ctx, id, update)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("product %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	s.log.Info("product updated", "product_id", id.Hex(), "by", admin.UserID.Hex())
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, session *Session, rawID string) error {
	admin, err := authorizeLive(ctx, s.users, session, models.RoleAdmin)
	if err != nil {
		return err
	}
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return fmt.Errorf("product %w", ErrNotFound)
	}

	err = s.products.Delete(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("product %w", ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	s.log.Info("product deleted", "product_id", id.Hex(), "by", admin.UserID.Hex())
	return nil
}

func (s *ProductService) find(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("product %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	return product, nil
}

func checkAmounts(price *float64, stock *int) error {
	if price != nil && *price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	if stock != nil && *stock < 0 {
		return fmt.Errorf("%w: stock must not be negative", ErrValidation)
	}
	return nil
}

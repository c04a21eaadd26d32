// Package seed populates a fresh database with the bootstrap admin account
// and an optional sample catalog.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go-storefront/config"
	"go-storefront/models"
	"go-storefront/repositories"
	"go-storefront/utils"
)

var sampleProducts = []models.Product{
	{
		Name:        "Premium Hammer",
		Description: "Claw hammer with fiberglass handle for durability and comfort.",
		Price:       1250,
		ImageURL:    "/placeholder.svg?text=Hammer",
		Stock:       30,
		Category:    "tools",
		Vendor:      "BuildRight",
	},
	{
		Name:        "Industrial Fastener Set",
		Description: "High-quality steel fasteners for industrial use",
		Price:       29.99,
		ImageURL:    "/placeholder.svg?text=Fasteners",
		Stock:       15,
		Category:    "fasteners",
	},
	{
		Name:        "Precision Bearings",
		Description: "Low-friction bearings for mechanical applications",
		Price:       49.99,
		ImageURL:    "/placeholder.svg?text=Bearings",
		Stock:       8,
		Category:    "bearings",
	},
}

// Admin creates the configured admin account unless a user with that email
// already exists. It returns whether an account was created.
func Admin(ctx context.Context, users repositories.UserRepository, cfg config.AdminConfig, log *slog.Logger) (bool, error) {
	if cfg.Email == "" {
		log.Info("admin seed skipped", "reason", "ADMIN_EMAIL not set")
		return false, nil
	}

	_, err := users.FindByIdentifier(ctx, cfg.Email)
	if err == nil {
		log.Info("admin seed skipped", "reason", "admin already exists")
		return false, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return false, fmt.Errorf("look up admin: %w", err)
	}
	if cfg.Password == "" {
		return false, fmt.Errorf("%w: ADMIN_PASSWORD", config.ErrMissingSetting)
	}

	hashed, err := utils.HashPassword(cfg.Password)
	if err != nil {
		return false, err
	}
	admin := &models.User{
		Name:     cfg.Name,
		Email:    cfg.Email,
		Phone:    cfg.Phone,
		Address:  cfg.Address,
		Password: hashed,
		Role:     models.RoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return false, fmt.Errorf("create admin: phone %q already registered: %w", cfg.Phone, err)
		}
		return false, fmt.Errorf("create admin: %w", err)
	}

	log.Info("admin user created", "user_id", admin.ID.Hex())
	return true, nil
}

// SampleProducts inserts the sample catalog into an empty products
// collection. It returns the number of products inserted.
func SampleProducts(ctx context.Context, products repositories.ProductRepository, log *slog.Logger) (int, error) {
	count, err := products.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		log.Info("product seed skipped", "existing", count)
		return 0, nil
	}

	for _, p := range sampleProducts {
		if err := products.Create(ctx, &p); err != nil {
			return 0, fmt.Errorf("create sample product %q: %w", p.Name, err)
		}
	}
	log.Info("sample products created", "count", len(sampleProducts))
	return len(sampleProducts), nil
}

package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-storefront/models"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int { return &v }
func strPtr(v string) *string { return &v }

func hammerInput() ProductInput {
	return ProductInput{
		Name:     "Hammer",
		Price:    floatPtr(1250),
		Stock:    intPtr(30),
		ImageURL: "/img/hammer.png",
	}
}

func TestProductService_Create(t *testing.T) {
	f := newFixture(t)
	admin := f.addUser(t, "admin@example.com", models.RoleAdmin)

	product, err := f.productSvc.Create(context.Background(), admin, hammerInput())
	require.NoError(t, err)
	assert.False(t, product.ID.IsZero())
	assert.Equal(t, 30, product.Stock)
	assert.Equal(t, 1250.0, product.Price)
	assert.Equal(t, models.DefaultCategory, product.Category)
}

func TestProductService_Create_Authorization(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t, "ann@example.com", models.RoleUser)

	_, err := f.productSvc.Create(context.Background(), nil, hammerInput())
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = f.productSvc.Create(context.Background(), user, hammerInput())
	assert.ErrorIs(t, err, ErrForbidden)

	n, _ := f.products.Count(context.Background())
	assert.Zero(t, n)
}

func TestProductService_Create_Validation(t *testing.T) {
	f := newFixture(t)
	admin := f.addUser(t, "admin@example.com", models.RoleAdmin)

	tests := []struct {
		name   string
		mutate func(*ProductInput)
	}{
		{"missing name", func(in *ProductInput) { in.Name = "" }},
		{"missing price", func(in *ProductInput) { in.Price = nil }},
		{"missing stock", func(in *ProductInput) { in.Stock = nil }},
		{"missing image", func(in *ProductInput) { in.ImageURL = "" }},
		{"negative price", func(in *ProductInput) { in.Price = floatPtr(-1) }},
		{"negative stock", func(in *ProductInput) { in.Stock = intPtr(-1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := hammerInput()
			tt.mutate(&in)
			_, err := f.productSvc.Create(context.Background(), admin, in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestProductService_Get(t *testing.T) {
	f := newFixture(t)
	admin := f.addUser(t, "admin@example.com", models.RoleAdmin)
	created, err := f.productSvc.Create(context.Background(), admin, hammerInput())
	require.NoError(t, err)

	got, err := f.productSvc.Get(context.Background(), created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Hammer", got.Name)

	_, err = f.productSvc.Get(context.Background(), "not-an-id")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.productSvc.Get(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductService_Update(t *testing.T) {
	f := newFixture(t)
	admin := f.addUser(t, "admin@example.com", models.RoleAdmin)
	created, err := f.productSvc.Create(context.Background(), admin, hammerInput())
	require.NoError(t, err)

	updated, err := f.productSvc.Update(context.Background(), admin, created.ID.Hex(), models.ProductUpdate{
		Price: floatPtr(999),
	})
	require.NoError(t, err)
	assert.Equal(t, 999.0, updated.Price)
	assert.Equal(t, "Hammer", updated.Name)
	assert.Equal(t, 30, updated.Stock)
}

func TestProductService_Update_Failures(t *testing.T) {
	f := newFixture(t)
	admin := f.addUser(t, "admin@example.com", models.RoleAdmin)
	user := f.addUser(t, "ann@example.com", models.RoleUser)
	created, err := f.productSvc.Create(context.Background(), admin, hammerInput())
	require.NoError(t, err)
	id := created.ID.Hex()

	_, err = f.productSvc.Update(context.Background(), user, id, models.ProductUpdate{Name: strPtr("x")})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.productSvc.Update(context.Background(), admin, "bad", models.ProductUpdate{Name: strPtr("x")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.productSvc.Update(context.Background(), admin, id, models.ProductUpdate{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.productSvc.Update(context.Background(), admin, id, models.ProductUpdate{Stock: intPtr(-5)})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.productSvc.Update(context.Background(), admin, primitive.NewObjectID().Hex(), models.ProductUpdate{Name: strPtr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductService_Delete(t *testing.T) {
	f := newFixture(t)
	admin := f.addUser(t, "admin@example.com", models.RoleAdmin)
	user := f.addUser(t, "ann@example.com", models.RoleUser)
	created, err := f.productSvc.Create(context.Background(), admin, hammerInput())
	require.NoError(t, err)

	assert.ErrorIs(t, f.productSvc.Delete(context.Background(), user, created.ID.Hex()), ErrForbidden)
	require.NoError(t, f.productSvc.Delete(context.Background(), admin, created.ID.Hex()))
	assert.ErrorIs(t, f.productSvc.Delete(context.Background(), admin, created.ID.Hex()), ErrNotFound)
}

func TestProductService_ListAndFeatured(t *testing.T) {
	f := newFixture(t)
	admin := f.addUser(t, "admin@example.com", models.RoleAdmin)
	for i, name := range []string{"Saw", "Drill", "Wrench", "Level", "Tape"} {
		in := hammerInput()
		in.Name = name
		in.Category = "tools"
		in.Price = floatPtr(float64(100 * (i + 1)))
		if name == "Tape" {
			in.Stock = intPtr(0)
		}
		_, err := f.productSvc.Create(context.Background(), admin, in)
		require.NoError(t, err)
	}

	featured, err := f.productSvc.Featured(context.Background())
	require.NoError(t, err)
	require.Len(t, featured, FeaturedLimit)
	assert.Equal(t, "Level", featured[0].Name)

	filtered, err := f.productSvc.List(context.Background(), models.ProductFilter{
		Category: "tools",
		MinPrice: floatPtr(200),
		MaxPrice: floatPtr(300),
	})
	require.NoError(t, err)
	require.Len(t, filtered, 2)

	searched, err := f.productSvc.List(context.Background(), models.ProductFilter{Search: "dRi"})
	require.NoError(t, err)
	require.Len(t, searched, 1)
	assert.Equal(t, "Drill", searched[0].Name)
}

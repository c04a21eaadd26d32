package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-storefront/models"
	"go-storefront/repositories/repotest"
	"go-storefront/utils"
)

const testSecret = "test-secret"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordingPublisher struct {
	mu      sync.Mutex
	placed  []models.Order
	changed []models.Order
	err     error
}

func (p *recordingPublisher) PublishOrderPlaced(_ context.Context, o *models.Order) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.placed = append(p.placed, *o)
	return p.err
}

func (p *recordingPublisher) PublishOrderStatusChanged(_ context.Context, o *models.Order) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changed = append(p.changed, *o)
	return p.err
}

type fixture struct {
	users     *repotest.Users
	products  *repotest.Products
	orders    *repotest.Orders
	tokens    *utils.TokenService
	publisher *recordingPublisher

	auth       *AuthService
	productSvc *ProductService
	orderSvc   *OrderService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:     repotest.NewUsers(),
		products:  repotest.NewProducts(),
		orders:    repotest.NewOrders(),
		tokens:    utils.NewTokenService(testSecret, time.Hour),
		publisher: &recordingPublisher{},
	}
	log := discardLogger()
	f.auth = NewAuthService(f.users, f.tokens, log)
	f.productSvc = NewProductService(f.products, f.users, log)
	f.orderSvc = NewOrderService(f.orders, f.users, f.publisher, log)
	return f
}

// addUser stores a user directly and returns its session.
func (f *fixture) addUser(t *testing.T, email string, role models.Role) *Session {
	t.Helper()
	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)
	user := &models.User{
		Name:     "User " + email,
		Email:    email,
		Phone:    "phone-" + email,
		Address:  "1 Main St",
		Password: hash,
		Role:     role,
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return &Session{UserID: user.ID, Role: role, Name: user.Name}
}

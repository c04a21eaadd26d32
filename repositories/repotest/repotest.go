// Package repotest provides in-memory repositories for tests that exercise
// services and handlers without a MongoDB server.
package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-storefront/models"
	"go-storefront/repositories"
)

type Users struct {
	mu    sync.Mutex
	byID  map[primitive.ObjectID]models.User
	order []primitive.ObjectID
}

func NewUsers() *Users {
	return &Users{byID: map[primitive.ObjectID]models.User{}}
}

func (r *Users) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byID {
		if existing.Email == user.Email || (user.Phone != "" && existing.Phone == user.Phone) {
			return repositories.ErrDuplicate
		}
	}
	now := time.Now().UTC()
	user.ID = primitive.NewObjectID()
	user.CreatedAt, user.UpdatedAt = now, now
	r.byID[user.ID] = *user
	r.order = append(r.order, user.ID)
	return nil
}

func (r *Users) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &user, nil
}

func (r *Users) FindByIdentifier(_ context.Context, identifier string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.order {
		user := r.byID[id]
		if user.Email == identifier || (user.Phone != "" && user.Phone == identifier) {
			return &user, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *Users) ExistsByEmailOrPhone(_ context.Context, email, phone string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.byID {
		if user.Email == email || (phone != "" && user.Phone == phone) {
			return true, nil
		}
	}
	return false, nil
}

func (r *Users) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := make(map[primitive.ObjectID]*models.User, len(ids))
	for _, id := range ids {
		if user, ok := r.byID[id]; ok {
			found[id] = &user
		}
	}
	return found, nil
}

// Remove deletes a user, simulating an account removed out of band.
func (r *Users) Remove(id primitive.ObjectID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
}

// SetRole changes a stored user's role, simulating a promotion or demotion
// made out of band.
func (r *Users) SetRole(id primitive.ObjectID, role models.Role) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.byID[id]; ok {
		user.Role = role
		r.byID[id] = user
	}
}

type Products struct {
	mu    sync.Mutex
	items []models.Product
	clock int64
}

func NewProducts() *Products {
	return &Products{}
}

func (r *Products) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Monotonic timestamps keep newest-first ordering stable within a test.
	r.clock++
	now := time.Unix(0, 0).UTC().Add(time.Duration(r.clock) * time.Second)
	product.ID = primitive.NewObjectID()
	product.CreatedAt, product.UpdatedAt = now, now
	r.items = append(r.items, *product)
	return nil
}

func (r *Products) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(id)
	if i < 0 {
		return nil, repositories.ErrNotFound
	}
	product := r.items[i]
	return &product, nil
}

func (r *Products) List(_ context.Context, f models.ProductFilter) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	search := strings.ToLower(f.Search)
	result := []models.Product{}
	for _, p := range r.items {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.MinPrice != nil && p.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.Price > *f.MaxPrice {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		result = append(result, p)
	}
	newestFirst(result)
	return result, nil
}

func (r *Products) Featured(_ context.Context, limit int) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := []models.Product{}
	for _, p := range r.items {
		if p.Stock > 0 {
			result = append(result, p)
		}
	}
	newestFirst(result)
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *Products) Update(_ context.Context, id primitive.ObjectID, u models.ProductUpdate) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(id)
	if i < 0 {
		return nil, repositories.ErrNotFound
	}
	p := &r.items[i]
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.ImageURL != nil {
		p.ImageURL = *u.ImageURL
	}
	if u.Stock != nil {
		p.Stock = *u.Stock
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.Vendor != nil {
		p.Vendor = *u.Vendor
	}
	p.UpdatedAt = time.Now().UTC()
	updated := *p
	return &updated, nil
}

func (r *Products) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(id)
	if i < 0 {
		return repositories.ErrNotFound
	}
	r.items = append(r.items[:i], r.items[i+1:]...)
	return nil
}

func (r *Products) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.items)), nil
}

func (r *Products) index(id primitive.ObjectID) int {
	for i, p := range r.items {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func newestFirst(products []models.Product) {
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
}

type Orders struct {
	mu    sync.Mutex
	items []models.Order
	clock int64
}

func NewOrders() *Orders {
	return &Orders{}
}

func (r *Orders) Create(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clock++
	now := time.Unix(0, 0).UTC().Add(time.Duration(r.clock) * time.Second)
	order.ID = primitive.NewObjectID()
	order.CreatedAt, order.UpdatedAt = now, now
	stored := *order
	stored.Owner = nil
	stored.Items = append([]models.OrderItem(nil), order.Items...)
	r.items = append(r.items, stored)
	return nil
}

func (r *Orders) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, o := range r.items {
		if o.ID == id {
			return &o, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *Orders) List(_ context.Context, owner *primitive.ObjectID) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := []models.Order{}
	for _, o := range r.items {
		if owner != nil && o.UserID != *owner {
			continue
		}
		result = append(result, o)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *Orders) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.OrderStatus) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i].Status = status
			r.items[i].UpdatedAt = time.Now().UTC()
			updated := r.items[i]
			return &updated, nil
		}
	}
	return nil, repositories.ErrNotFound
}

var (
	_ repositories.UserRepository    = (*Users)(nil)
	_ repositories.ProductRepository = (*Products)(nil)
	_ repositories.OrderRepository   = (*Orders)(nil)
)

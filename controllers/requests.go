package controllers

import (
	"go-storefront/models"
	"go-storefront/services"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	Address  string `json:"address" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type productRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	ImageURL    string   `json:"imageUrl" validate:"required"`
	Image       string   `json:"image"`
	Stock       *int     `json:"stock" validate:"required,gte=0"`
	Category    string   `json:"category"`
	Vendor      string   `json:"vendor"`
}

func (p *productRequest) applyAlias() {
	if p.ImageURL == "" {
		p.ImageURL = p.Image
	}
}

func (p productRequest) input() services.ProductInput {
	return services.ProductInput{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Stock:       p.Stock,
		Category:    p.Category,
		Vendor:      p.Vendor,
	}
}

type productUpdateRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	ImageURL    *string  `json:"imageUrl"`
	Image       *string  `json:"image"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
	Category    *string  `json:"category"`
	Vendor      *string  `json:"vendor"`
}

func (p *productUpdateRequest) applyAlias() {
	if p.ImageURL == nil {
		p.ImageURL = p.Image
	}
}

func (p productUpdateRequest) update() models.ProductUpdate {
	return models.ProductUpdate{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Stock:       p.Stock,
		Category:    p.Category,
		Vendor:      p.Vendor,
	}
}

type orderItemRequest struct {
	Product  string   `json:"product" validate:"required"`
	Name     string   `json:"name" validate:"required"`
	Price    *float64 `json:"price" validate:"required,gte=0"`
	Quantity int      `json:"quantity" validate:"gte=1"`
}

type orderRequest struct {
	Items           []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	TotalAmount     *float64           `json:"totalAmount" validate:"required,gte=0"`
	ShippingAddress string             `json:"shippingAddress" validate:"required"`
	PaymentMethod   string             `json:"paymentMethod"`
	Notes           string             `json:"notes"`
	Customer        *models.Customer   `json:"customer"`
}

func (o orderRequest) input() services.CreateOrderInput {
	items := make([]services.OrderItemInput, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, services.OrderItemInput{
			ProductID: it.Product,
			Name:      it.Name,
			Price:     *it.Price,
			Quantity:  it.Quantity,
		})
	}
	return services.CreateOrderInput{
		Items:           items,
		TotalAmount:     o.TotalAmount,
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   o.PaymentMethod,
		Notes:           o.Notes,
		Customer:        o.Customer,
	}
}

type statusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required"`
}

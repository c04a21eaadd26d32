package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultCategory is assigned to products created without a category.
const DefaultCategory = "uncategorized"

// Product represents a sellable catalog item
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	ImageURL    string             `bson:"image_url" json:"imageUrl"`
	Stock       int                `bson:"stock" json:"stock"`
	Category    string             `bson:"category" json:"category"`
	Vendor      string             `bson:"vendor,omitempty" json:"vendor,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

// ProductFilter narrows a catalog listing. Zero values mean "no constraint".
type ProductFilter struct {
	Category string
	MinPrice *float64
	MaxPrice *float64
	Search   string
}

// ProductUpdate is a partial update; nil fields are left unchanged.
type ProductUpdate struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	ImageURL    *string  `json:"imageUrl"`
	Stock       *int     `json:"stock"`
	Category    *string  `json:"category"`
	Vendor      *string  `json:"vendor"`
}

// Empty reports whether the update changes nothing.
func (u ProductUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.Price == nil && u.ImageURL == nil &&
		u.Stock == nil && u.Category == nil && u.Vendor == nil
}

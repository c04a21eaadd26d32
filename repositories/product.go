package repositories

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-storefront/models"
)

const productsCollection = "products"

type productRepo struct {
	coll *mongo.Collection
}

func NewProductRepository(db *mongo.Database) ProductRepository {
	return &productRepo{coll: db.Collection(productsCollection)}
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	now := time.Now().UTC()
	product.ID = primitive.NewObjectID()
	product.CreatedAt = now
	product.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, product); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *productRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	return &product, nil
}

func (r *productRepo) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, productQuery(filter), opts)
}

func (r *productRepo) Featured(ctx context.Context, limit int) ([]models.Product, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	return r.find(ctx, bson.M{"stock": bson.M{"$gt": 0}}, opts)
}

func (r *productRepo) Update(ctx context.Context, id primitive.ObjectID, update models.ProductUpdate) (*models.Product, error) {
	set := productSet(update)
	set["updated_at"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var product models.Product
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return &product, nil
}

func (r *productRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepo) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

func (r *productRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Product, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("read products: %w", err)
	}
	return products, nil
}

func productQuery(f models.ProductFilter) bson.M {
	query := bson.M{}
	if f.Category != "" {
		query["category"] = f.Category
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		price := bson.M{}
		if f.MinPrice != nil {
			price["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			price["$lte"] = *f.MaxPrice
		}
		query["price"] = price
	}
	if f.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
		}
	}
	return query
}

func productSet(u models.ProductUpdate) bson.M {
	set := bson.M{}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.Price != nil {
		set["price"] = *u.Price
	}
	if u.ImageURL != nil {
		set["image_url"] = *u.ImageURL
	}
	if u.Stock != nil {
		set["stock"] = *u.Stock
	}
	if u.Category != nil {
		set["category"] = *u.Category
	}
	if u.Vendor != nil {
		set["vendor"] = *u.Vendor
	}
	return set
}

package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"go-storefront/models"
)

const usersCollection = "users"

type userRepo struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepo{coll: db.Collection(usersCollection)}
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *userRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *userRepo) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"$or": bson.A{
		bson.M{"email": identifier},
		bson.M{"phone": identifier},
	}})
}

func (r *userRepo) ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"$or": bson.A{
		bson.M{"email": email},
		bson.M{"phone": phone},
	}})
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return count > 0, nil
}

func (r *userRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error) {
	users := make(map[primitive.ObjectID]*models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users[user.ID] = &user
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("read users: %w", err)
	}
	return users, nil
}

func (r *userRepo) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := r.coll.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

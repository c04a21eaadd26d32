package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-storefront/models"
	"go-storefront/repositories"
)

// Session is the identity resolved from a request's session token.
type Session struct {
	UserID primitive.ObjectID
	Role   models.Role
	Name   string
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == models.RoleAdmin
}

// Authorize is the single role predicate used by every protected operation.
// RoleUser admits any authenticated session; RoleAdmin admits admins only.
func Authorize(s *Session, required models.Role) error {
	if s == nil {
		return ErrUnauthenticated
	}
	if required == models.RoleAdmin && s.Role != models.RoleAdmin {
		return ErrForbidden
	}
	return nil
}

// AuthorizeOwner admits the owner of a resource and any admin.
func AuthorizeOwner(s *Session, owner primitive.ObjectID) error {
	if err := Authorize(s, models.RoleUser); err != nil {
		return err
	}
	if s.IsAdmin() || s.UserID == owner {
		return nil
	}
	return ErrForbidden
}

// liveSession re-reads the session's user so that role changes and deleted
// accounts take effect before the token expires.
func liveSession(ctx context.Context, users repositories.UserRepository, s *Session) (*Session, *models.User, error) {
	if s == nil {
		return nil, nil, ErrUnauthenticated
	}
	user, err := users.FindByID(ctx, s.UserID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil, fmt.Errorf("%w: user no longer exists", ErrUnauthenticated)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load session user: %w", err)
	}
	return &Session{UserID: user.ID, Role: user.Role, Name: user.Name}, user, nil
}

// authorizeLive applies Authorize to the session's current user record, so a
// demoted or deleted account loses access before its token expires.
func authorizeLive(ctx context.Context, users repositories.UserRepository, s *Session, required models.Role) (*Session, error) {
	live, _, err := liveSession(ctx, users, s)
	if err != nil {
		return nil, err
	}
	if err := Authorize(live, required); err != nil {
		return nil, err
	}
	return live, nil
}

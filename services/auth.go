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
	"go-storefront/utils"
)

// Tokens issues and verifies session tokens.
type Tokens interface {
	Issue(userID primitive.ObjectID, role models.Role, name string) (string, error)
	Verify(raw string) (*utils.Identity, error)
}

type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Address  string
	Password string
}

type AuthService struct {
	users  repositories.UserRepository
	tokens Tokens
	log    *slog.Logger
}

func NewAuthService(users repositories.UserRepository, tokens Tokens, log *slog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, log: log}
}

// Register creates a user with the default role. The returned user carries
// no password hash.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	if in.Name == "" || in.Email == "" || in.Phone == "" || in.Address == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: all fields are required", ErrValidation)
	}

	exists, err := s.users.ExistsByEmailOrPhone(ctx, in.Email, in.Phone)
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("user with this email or phone %w", ErrConflict)
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Phone:    in.Phone,
		Address:  in.Address,
		Password: hashed,
		Role:     models.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, fmt.Errorf("user with this email or phone %w", ErrConflict)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info("user registered", "user_id", user.ID.Hex())
	user.Password = ""
	return user, nil
}

// Login authenticates by email or phone. Unknown identifiers and wrong
// passwords fail identically.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (string, *models.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return "", nil, fmt.Errorf("%w: email/phone and password are required", ErrValidation)
	}

	user, err := s.users.FindByIdentifier(ctx, identifier)
	if errors.Is(err, repositories.ErrNotFound) {
		s.log.Info("login failed", "reason", "unknown identifier")
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("find user: %w", err)
	}
	if !utils.CheckPassword(user.Password, password) {
		s.log.Info("login failed", "reason", "password mismatch", "user_id", user.ID.Hex())
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Role, user.Name)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	user.Password = ""
	return token, user, nil
}

// CurrentUser resolves a raw session token to the live user record.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	identity, err := s.tokens.Verify(token)
	if errors.Is(err, utils.ErrMissingSecret) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	_, user, err := liveSession(ctx, s.users, &Session{UserID: identity.UserID, Role: identity.Role, Name: identity.Name})
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

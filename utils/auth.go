package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-storefront/models"
)

// DefaultTokenTTL is the fixed lifetime of a session token.
const DefaultTokenTTL = 24 * time.Hour

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
	ErrMalformedToken = errors.New("malformed token")
	ErrMissingSecret  = errors.New("token secret is not configured")
)

// Claims represents the JWT claims
type Claims struct {
	UserID string      `json:"userId"`
	Role   models.Role `json:"role"`
	Name   string      `json:"name"`
	jwt.RegisteredClaims
}

// Identity is what a verified token says about its bearer.
type Identity struct {
	UserID primitive.ObjectID
	Role   models.Role
	Name   string
}

// TokenService issues and verifies HS256 session tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL returns the absolute lifetime given to every issued token.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue generates a JWT token for a user
func (s *TokenService) Issue(userID primitive.ObjectID, role models.Role, name string) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrMissingSecret
	}
	now := s.now()
	claims := &Claims{
		UserID: userID.Hex(),
		Role:   role,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks the signature and expiry of raw and returns the identity it carries.
func (s *TokenService) Verify(raw string) (*Identity, error) {
	if len(s.secret) == 0 {
		return nil, ErrMissingSecret
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenMalformed), errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return nil, ErrMalformedToken
	default:
		return nil, ErrInvalidToken
	}

	if claims.UserID == "" || claims.Role == "" || !claims.Role.Valid() {
		return nil, ErrMalformedToken
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, ErrMalformedToken
	}
	return &Identity{UserID: id, Role: claims.Role, Name: claims.Name}, nil
}

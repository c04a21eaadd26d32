package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-storefront/models"
)

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	userID := primitive.NewObjectID()

	token, err := svc.Issue(userID, models.RoleAdmin, "Alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	id, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, id.UserID)
	assert.Equal(t, models.RoleAdmin, id.Role)
	assert.Equal(t, "Alice", id.Name)
}

func TestTokenService_DefaultTTL(t *testing.T) {
	svc := NewTokenService("test-secret", 0)
	assert.Equal(t, 24*time.Hour, svc.TTL())
}

func TestTokenService_WrongSecret(t *testing.T) {
	token, err := NewTokenService("secret-a", time.Hour).Issue(primitive.NewObjectID(), models.RoleUser, "Bob")
	require.NoError(t, err)

	_, err = NewTokenService("secret-b", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_Expired(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := svc.Issue(primitive.NewObjectID(), models.RoleUser, "Bob")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenService_Malformed(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	_, err := svc.Verify("not-a-jwt")
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestTokenService_BadUserID(t *testing.T) {
	claims := &Claims{
		UserID: "12345",
		Role:   models.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = NewTokenService("test-secret", time.Hour).Verify(raw)
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestTokenService_MissingRole(t *testing.T) {
	claims := &Claims{
		UserID: primitive.NewObjectID().Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = NewTokenService("test-secret", time.Hour).Verify(raw)
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestTokenService_MissingSecret(t *testing.T) {
	svc := NewTokenService("", time.Hour)

	_, err := svc.Issue(primitive.NewObjectID(), models.RoleUser, "Bob")
	assert.ErrorIs(t, err, ErrMissingSecret)

	_, err = svc.Verify("anything")
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestPassword_HashAndCheck(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)
	assert.True(t, CheckPassword(hash, "password123"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

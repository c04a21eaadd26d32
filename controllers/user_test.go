package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerBody() map[string]string {
	return map[string]string{
		"name":     "Ann",
		"email":    "ann@example.com",
		"phone":    "5550001",
		"address":  "1 Main St",
		"password": "secret123",
	}
}

func TestUserController_Register(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.user.Register(rec, request(t, http.MethodPost, "/api/auth/register", registerBody(), nil, nil))
	require.Equal(t, http.StatusCreated, rec.Code)

	user := decodeBody(t, rec)["user"].(map[string]interface{})
	assert.Equal(t, "ann@example.com", user["email"])
	assert.Equal(t, "user", user["role"])
	assert.NotContains(t, user, "password")

	rec = httptest.NewRecorder()
	env.user.Register(rec, request(t, http.MethodPost, "/api/auth/register", registerBody(), nil, nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUserController_Register_Validation(t *testing.T) {
	env := newTestEnv(t)
	body := registerBody()
	delete(body, "phone")

	rec := httptest.NewRecorder()
	env.user.Register(rec, request(t, http.MethodPost, "/api/auth/register", body, nil, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "phone is required", decodeBody(t, rec)["message"])

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", nil)
	env.user.Register(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserController_LoginMeLogout(t *testing.T) {
	env := newTestEnv(t)
	rec := httptest.NewRecorder()
	env.user.Register(rec, request(t, http.MethodPost, "/api/auth/register", registerBody(), nil, nil))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	env.user.Login(rec, request(t, http.MethodPost, "/api/auth/login",
		map[string]string{"identifier": "5550001", "password": "secret123"}, nil, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, decodeBody(t, rec)["user"], "password")

	cookie := sessionCookie(rec, "auth_token")
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, 3600, cookie.MaxAge)

	me := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	me.AddCookie(cookie)
	rec = httptest.NewRecorder()
	env.user.Me(rec, me)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ann", decodeBody(t, rec)["user"].(map[string]interface{})["name"])

	for i := 0; i < 2; i++ {
		rec = httptest.NewRecorder()
		env.user.Logout(rec, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		cleared := sessionCookie(rec, "auth_token")
		require.NotNil(t, cleared)
		assert.Empty(t, cleared.Value)
		assert.Negative(t, cleared.MaxAge)
	}
}

func TestUserController_Login_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "ann@example.com", "user")

	rec := httptest.NewRecorder()
	env.user.Login(rec, request(t, http.MethodPost, "/api/auth/login",
		map[string]string{"identifier": "ann@example.com", "password": "nope"}, nil, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials", decodeBody(t, rec)["message"])
	assert.Nil(t, sessionCookie(rec, "auth_token"))
}

func TestUserController_Me_Unauthenticated(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.user.Me(rec, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, sessionCookie(rec, "auth_token"))
}

func TestUserController_Me_DeletedUserClearsCookie(t *testing.T) {
	env := newTestEnv(t)
	s := env.addUser(t, "ann@example.com", "user")
	token, err := env.tokens.Issue(s.UserID, s.Role, s.Name)
	require.NoError(t, err)
	env.users.Remove(s.UserID)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	rec := httptest.NewRecorder()
	env.user.Me(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	cleared := sessionCookie(rec, "auth_token")
	require.NotNil(t, cleared)
	assert.Negative(t, cleared.MaxAge)
}

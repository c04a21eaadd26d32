package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"go-storefront/models"
	"go-storefront/utils"
)

func TestClassifyPath(t *testing.T) {
	tests := map[string]PathClass{
		"/":               PathOpen,
		"/products":       PathOpen,
		"/products/abc":   PathOpen,
		"/cart":           PathOpen,
		"/login":          PathPublicOnly,
		"/register":       PathPublicOnly,
		"/login/help":     PathOpen,
		"/orders":         PathUserProtected,
		"/orders/123":     PathUserProtected,
		"/checkout":       PathUserProtected,
		"/cart/checkout":  PathUserProtected,
		"/profile":        PathUserProtected,
		"/ordersummary":   PathOpen,
		"/admin":          PathAdminProtected,
		"/admin/products": PathAdminProtected,
	}
	for path, want := range tests {
		assert.Equal(t, want, ClassifyPath(path), path)
	}
}

func TestPageGate_DecisionTable(t *testing.T) {
	const (
		none  = ""
		bad   = "bad"
		user  = "user"
		admin = "admin"
	)
	tests := []struct {
		path     string
		token    string
		wantCode int
		wantLoc  string
	}{
		{"/login", none, http.StatusOK, ""},
		{"/login", bad, http.StatusOK, ""},
		{"/login", user, http.StatusTemporaryRedirect, "/"},
		{"/register", admin, http.StatusTemporaryRedirect, "/"},

		{"/orders", none, http.StatusTemporaryRedirect, "/login?redirect=%2Forders"},
		{"/orders/42?x=1", bad, http.StatusTemporaryRedirect, "/login?redirect=%2Forders%2F42%3Fx%3D1"},
		{"/orders", user, http.StatusOK, ""},
		{"/checkout", admin, http.StatusOK, ""},

		{"/admin", none, http.StatusTemporaryRedirect, "/login?redirect=%2Fadmin"},
		{"/admin/orders", user, http.StatusTemporaryRedirect, "/"},
		{"/admin/orders", admin, http.StatusOK, ""},

		{"/products", none, http.StatusOK, ""},
		{"/products", bad, http.StatusOK, ""},
		{"/products", user, http.StatusOK, ""},
		{"/", admin, http.StatusOK, ""},
	}

	gate := PageGate(utils.NewTokenService(testSecret, time.Hour), testCookie, discardLogger())(okHandler())
	for _, tt := range tests {
		t.Run(tt.path+"/"+tt.token, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			switch tt.token {
			case bad:
				withCookie(req, "not.a.token")
			case user:
				withCookie(req, issueToken(t, models.RoleUser))
			case admin:
				withCookie(req, issueToken(t, models.RoleAdmin))
			}

			rec := httptest.NewRecorder()
			gate.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantLoc != "" {
				assert.Equal(t, tt.wantLoc, rec.Header().Get("Location"))
			}
		})
	}
}

func TestPageGate_ClearsBadCookieOutsidePublicOnly(t *testing.T) {
	gate := PageGate(utils.NewTokenService(testSecret, time.Hour), testCookie, discardLogger())(okHandler())

	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, withCookie(httptest.NewRequest(http.MethodGet, "/products", nil), "garbage"))
	assert.True(t, clearedCookie(rec))

	rec = httptest.NewRecorder()
	gate.ServeHTTP(rec, withCookie(httptest.NewRequest(http.MethodGet, "/login", nil), "garbage"))
	assert.False(t, clearedCookie(rec))
}

func TestPageGate_MissingSecret(t *testing.T) {
	gate := PageGate(utils.NewTokenService("", time.Hour), testCookie, discardLogger())(okHandler())

	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, withCookie(httptest.NewRequest(http.MethodGet, "/orders", nil), "token"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

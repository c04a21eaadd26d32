package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-storefront/models"
	"go-storefront/utils"
)

const testSecret = "middleware-secret"

var testCookie = utils.SessionCookie{Name: "auth_token", TTL: time.Hour}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func issueToken(t *testing.T, role models.Role) string {
	t.Helper()
	token, err := utils.NewTokenService(testSecret, time.Hour).Issue(primitive.NewObjectID(), role, "Tester")
	require.NoError(t, err)
	return token
}

func withCookie(r *http.Request, token string) *http.Request {
	r.AddCookie(&http.Cookie{Name: testCookie.Name, Value: token})
	return r
}

// clearedCookie reports whether the response expires the session cookie.
func clearedCookie(rec *httptest.ResponseRecorder) bool {
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookie.Name && c.MaxAge < 0 {
			return true
		}
	}
	return false
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

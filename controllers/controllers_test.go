package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"go-storefront/middleware"
	"go-storefront/models"
	"go-storefront/repositories/repotest"
	"go-storefront/services"
	"go-storefront/utils"
)

type testEnv struct {
	users    *repotest.Users
	products *repotest.Products
	orders   *repotest.Orders
	tokens   *utils.TokenService
	cookie   utils.SessionCookie

	user    *UserController
	product *ProductController
	order   *OrderController
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	env := &testEnv{
		users:    repotest.NewUsers(),
		products: repotest.NewProducts(),
		orders:   repotest.NewOrders(),
		tokens:   utils.NewTokenService("controller-secret", time.Hour),
		cookie:   utils.SessionCookie{Name: "auth_token", TTL: time.Hour},
	}
	env.user = NewUserController(services.NewAuthService(env.users, env.tokens, log), env.cookie, log)
	env.product = NewProductController(services.NewProductService(env.products, env.users, log), log)
	env.order = NewOrderController(services.NewOrderService(env.orders, env.users, nil, log), env.cookie, log)
	return env
}

func (e *testEnv) addUser(t *testing.T, email string, role models.Role) *services.Session {
	t.Helper()
	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)
	u := &models.User{Name: email, Email: email, Phone: "p-" + email, Address: "addr", Password: hash, Role: role}
	require.NoError(t, e.users.Create(context.Background(), u))
	return &services.Session{UserID: u.ID, Role: role, Name: u.Name}
}

// request builds a JSON request carrying session s and route vars.
func request(t *testing.T, method, target string, body interface{}, s *services.Session, vars map[string]string) *http.Request {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, r)
	if s != nil {
		req = req.WithContext(middleware.WithSession(req.Context(), s))
	}
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func sessionCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

package routes

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"go-storefront/config"
	"go-storefront/controllers"
	"go-storefront/middleware"
	"go-storefront/models"
	"go-storefront/utils"
)

// Dependencies carries everything the router needs to wire handlers.
type Dependencies struct {
	Users    *controllers.UserController
	Products *controllers.ProductController
	Orders   *controllers.OrderController
	Health   *controllers.HealthController
	Pages    http.Handler

	Tokens    middleware.TokenVerifier
	Cookie    utils.SessionCookie
	RateLimit config.RateLimitConfig
	Redis     *redis.Client
	Log       *slog.Logger
}

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, d Dependencies) {
	router.Use(middleware.RequestID, middleware.AccessLog(d.Log))

	router.HandleFunc("/healthz", d.Health.Healthz).Methods(http.MethodGet)
	router.HandleFunc("/readyz", d.Health.Readyz).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.Session(d.Tokens, d.Cookie, d.Log))
	api.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not found"}` + "\n"))
	})

	user := middleware.RequireRole(models.RoleUser)
	admin := middleware.RequireRole(models.RoleAdmin)
	limited := func(scope string, h http.HandlerFunc) http.Handler {
		return middleware.RateLimit(d.RateLimit, d.Redis, scope, d.Log)(h)
	}

	// Auth routes
	api.Handle("/auth/register", limited("register", d.Users.Register)).Methods(http.MethodPost)
	api.Handle("/auth/login", limited("login", d.Users.Login)).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", d.Users.Logout).Methods(http.MethodPost)
	api.HandleFunc("/auth/me", d.Users.Me).Methods(http.MethodGet)

	// Product routes; featured is registered ahead of {id}
	api.HandleFunc("/products", d.Products.GetProducts).Methods(http.MethodGet)
	api.HandleFunc("/products/featured", d.Products.GetFeaturedProducts).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}", d.Products.GetProductByID).Methods(http.MethodGet)
	api.Handle("/products", admin(http.HandlerFunc(d.Products.CreateProduct))).Methods(http.MethodPost)
	api.Handle("/products/{id}", admin(http.HandlerFunc(d.Products.UpdateProduct))).Methods(http.MethodPut)
	api.Handle("/products/{id}", admin(http.HandlerFunc(d.Products.DeleteProduct))).Methods(http.MethodDelete)

	// Order routes
	api.Handle("/orders", user(http.HandlerFunc(d.Orders.GetOrders))).Methods(http.MethodGet)
	api.Handle("/orders", user(http.HandlerFunc(d.Orders.CreateOrder))).Methods(http.MethodPost)
	api.Handle("/orders/{id}", user(http.HandlerFunc(d.Orders.GetOrder))).Methods(http.MethodGet)
	api.Handle("/orders/{id}", admin(http.HandlerFunc(d.Orders.UpdateOrderStatus))).Methods(http.MethodPut)

	// Storefront pages
	router.MatcherFunc(isPage).Handler(middleware.PageGate(d.Tokens, d.Cookie, d.Log)(d.Pages))
}

func isPage(r *http.Request, _ *mux.RouteMatch) bool {
	p := r.URL.Path
	if p == "/api" || strings.HasPrefix(p, "/api/") {
		return false
	}
	return p != "/healthz" && p != "/readyz"
}

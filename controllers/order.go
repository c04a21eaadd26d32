package controllers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-storefront/middleware"
	"go-storefront/services"
	"go-storefront/utils"
)

// OrderController handles order-related requests
type OrderController struct {
	Orders *services.OrderService
	Cookie utils.SessionCookie
	Log    *slog.Logger
}

// NewOrderController creates a new OrderController
func NewOrderController(orders *services.OrderService, cookie utils.SessionCookie, log *slog.Logger) *OrderController {
	return &OrderController{
		Orders: orders,
		Cookie: cookie,
		Log:    log,
	}
}

// CreateOrder places an order from the submitted cart contents
func (oc *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if msg, ok := decodeAndValidate(r, &req); !ok {
		writeMessage(w, http.StatusBadRequest, msg)
		return
	}

	order, err := oc.Orders.Create(r.Context(), middleware.SessionFrom(r.Context()), req.input())
	if err != nil {
		writeServiceError(w, oc.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Order created successfully",
		"order":   order,
	})
}

// GetOrders lists the caller's orders, or every order for admins
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := oc.Orders.List(r.Context(), middleware.SessionFrom(r.Context()))
	if err != nil {
		clearStaleSession(w, oc.Cookie, err)
		writeServiceError(w, oc.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

// GetOrder returns one order to its owner or an admin
func (oc *OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !primitive.IsValidObjectID(id) {
		writeMessage(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	order, err := oc.Orders.Get(r.Context(), middleware.SessionFrom(r.Context()), id)
	if err != nil {
		clearStaleSession(w, oc.Cookie, err)
		writeServiceError(w, oc.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"order": order})
}

// UpdateOrderStatus sets an order's status (Admin only)
func (oc *OrderController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !primitive.IsValidObjectID(id) {
		writeMessage(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var req statusRequest
	if msg, ok := decodeAndValidate(r, &req); !ok {
		writeMessage(w, http.StatusBadRequest, msg)
		return
	}

	order, err := oc.Orders.UpdateStatus(r.Context(), middleware.SessionFrom(r.Context()), id, req.Status)
	if err != nil {
		writeServiceError(w, oc.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Order status updated successfully",
		"order":   order,
	})
}

package controllers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"go-storefront/middleware"
	"go-storefront/models"
	"go-storefront/services"
)

// ProductController handles product-related requests
type ProductController struct {
	Products *services.ProductService
	Log      *slog.Logger
}

// NewProductController creates a new ProductController
func NewProductController(products *services.ProductService, log *slog.Logger) *ProductController {
	return &ProductController{
		Products: products,
		Log:      log,
	}
}

// GetProducts lists products matching the query filters
func (pc *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := pc.Products.List(r.Context(), productFilter(r))
	if err != nil {
		writeServiceError(w, pc.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"products": products})
}

// GetFeaturedProducts lists the newest in-stock products
func (pc *ProductController) GetFeaturedProducts(w http.ResponseWriter, r *http.Request) {
	products, err := pc.Products.Featured(r.Context())
	if err != nil {
		writeServiceError(w, pc.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"products": products})
}

// GetProductByID retrieves a single product by ID
func (pc *ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	product, err := pc.Products.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, pc.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"product": product})
}

// CreateProduct handles adding a new product (Admin only)
func (pc *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if msg, ok := decodeAndValidate(r, &req, req.applyAlias); !ok {
		writeMessage(w, http.StatusBadRequest, msg)
		return
	}

	product, err := pc.Products.Create(r.Context(), middleware.SessionFrom(r.Context()), req.input())
	if err != nil {
		writeServiceError(w, pc.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Product created successfully",
		"product": product,
	})
}

// UpdateProduct applies a partial update to a product (Admin only)
func (pc *ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req productUpdateRequest
	if msg, ok := decodeAndValidate(r, &req, req.applyAlias); !ok {
		writeMessage(w, http.StatusBadRequest, msg)
		return
	}

	product, err := pc.Products.Update(r.Context(), middleware.SessionFrom(r.Context()), mux.Vars(r)["id"], req.update())
	if err != nil {
		writeServiceError(w, pc.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Product updated successfully",
		"product": product,
	})
}

// DeleteProduct handles deleting a product (Admin only)
func (pc *ProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := pc.Products.Delete(r.Context(), middleware.SessionFrom(r.Context()), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, pc.Log, err)
		return
	}
	writeMessage(w, http.StatusOK, "Product deleted successfully")
}

// productFilter reads the list filters. Unparseable price bounds are ignored.
func productFilter(r *http.Request) models.ProductFilter {
	q := r.URL.Query()
	filter := models.ProductFilter{
		Category: strings.TrimSpace(q.Get("category")),
		Search:   strings.TrimSpace(q.Get("search")),
	}
	if v, err := strconv.ParseFloat(q.Get("minPrice"), 64); err == nil {
		filter.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(q.Get("maxPrice"), 64); err == nil {
		filter.MaxPrice = &v
	}
	return filter
}

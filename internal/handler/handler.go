// Package handler exposes the catalog and order placement over HTTP.
package handler

import (
	"net/http"

	"github.com/xenking/order-capture/internal/domain/customer"
	"github.com/xenking/order-capture/internal/domain/product"
)

// HandlerConfig holds non-dependency configuration for the Handler.
type HandlerConfig struct {
	// Currency is the ISO 4217 code reported next to every amount.
	Currency string
}

// Handler serves the JSON API, delegating to the product repository and the
// customer service.
type Handler struct {
	products  product.Repository
	customers *customer.Service
	currency  string
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	cfg HandlerConfig,
	products product.Repository,
	customers *customer.Service,
) *Handler {
	if cfg.Currency == "" {
		cfg.Currency = "USD"
	}
	return &Handler{
		products:  products,
		customers: customers,
		currency:  cfg.Currency,
	}
}

// Register mounts the API routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/products", h.ListProducts)
	mux.HandleFunc("GET /api/products/{id}", h.GetProduct)
	mux.HandleFunc("POST /api/products", h.CreateProduct)
	mux.HandleFunc("DELETE /api/products/{id}", h.DeleteProduct)

	mux.HandleFunc("POST /api/customers", h.CreateCustomer)
	mux.HandleFunc("GET /api/customers/{id}", h.GetCustomer)
	mux.HandleFunc("POST /api/customers/{id}/orders", h.PlaceOrder)
	mux.HandleFunc("GET /api/customers/{id}/orders", h.ListOrders)
}

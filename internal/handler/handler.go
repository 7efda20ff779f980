// Package handler exposes the customer and order services over HTTP/JSON.
// Request decoding and validation live here; business rules stay in the
// domain services, and domain errors are mapped to HTTP statuses on the way
// out.
package handler

import (
	"github.com/go-chi/chi/v5"

	"github.com/xenking/customer-orders-api/internal/domain/customer"
	"github.com/xenking/customer-orders-api/internal/domain/order"
	"github.com/xenking/customer-orders-api/internal/storage"
)

// Handler serves the HTTP API, delegating business logic to the domain
// services.
type Handler struct {
	customers *customer.Service
	orders    *order.Service
	diag      storage.Diagnostics
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(customers *customer.Service, orders *order.Service, diag storage.Diagnostics) *Handler {
	return &Handler{
		customers: customers,
		orders:    orders,
		diag:      diag,
	}
}

// Routes builds the router for all API endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Root)
	r.Get("/test", h.StoreDiagnostics)

	r.Route("/api", func(r chi.Router) {
		r.Route("/customers", func(r chi.Router) {
			r.Post("/", h.CreateCustomer)
			r.Get("/", h.ListCustomers)
			r.Get("/{id}", h.GetCustomer)
			r.Put("/{id}", h.UpdateCustomer)
			r.Delete("/{id}", h.DeleteCustomer)
		})
		r.Route("/orders", func(r chi.Router) {
			r.Post("/", h.CreateOrder)
			r.Get("/", h.ListOrders)
			r.Get("/{id}", h.GetOrder)
			r.Put("/{id}", h.UpdateOrder)
			r.Delete("/{id}", h.DeleteOrder)
		})
	})

	return r
}

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/customer-orders-api/internal/domain/customer"
	"github.com/xenking/customer-orders-api/internal/domain/order"
)

// errorBody is the JSON error envelope shared by all endpoints.
type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// okBody confirms a successful delete.
type okBody struct {
	OK bool `json:"ok"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Code: status, Message: msg})
}

// writeDomainError maps a domain error to its HTTP status and message.
// Unrecognized errors become 500s and are logged; their text never reaches
// the client.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, customer.ErrNotFound):
		writeError(w, http.StatusNotFound, "Customer not found")
	case errors.Is(err, customer.ErrEmailExists):
		writeError(w, http.StatusBadRequest, "Email already exists")
	case errors.Is(err, customer.ErrHasOrders):
		writeError(w, http.StatusBadRequest, "Cannot delete customer with existing orders")
	case errors.Is(err, order.ErrNotFound):
		writeError(w, http.StatusNotFound, "Order not found")
	case errors.Is(err, order.ErrInvalidCustomer):
		writeError(w, http.StatusBadRequest, "Invalid customer_id")
	default:
		zctx.From(r.Context()).Error("Request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON decodes the request body into dst. Unknown fields are ignored to
// keep the API forgiving about extra payload keys.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.Wrap(err, "decode body")
	}
	return nil
}

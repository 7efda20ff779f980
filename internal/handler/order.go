package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/xenking/customer-orders-api/internal/domain/order"
)

type orderItemPayload struct {
	ID          string   `json:"id"`
	ProductName string   `json:"product_name"`
	UnitPrice   *float64 `json:"unit_price"`
	Quantity    *int     `json:"quantity"`
}

type orderPayload struct {
	CustomerID    string             `json:"customer_id"`
	Status        string             `json:"status"`
	Items         []orderItemPayload `json:"items"`
	DiscountType  string             `json:"discount_type"`
	DiscountValue *float64           `json:"discount_value"`
}

// orderPatch is the partial-update body; absent fields stay nil and leave the
// stored value untouched. A present items field replaces the list wholesale.
type orderPatch struct {
	Status        *string             `json:"status"`
	Items         *[]orderItemPayload `json:"items"`
	DiscountType  *string             `json:"discount_type"`
	DiscountValue *float64            `json:"discount_value"`
}

type orderItemResponse struct {
	ID          string  `json:"id,omitempty"`
	ProductName string  `json:"product_name"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
	LineTotal   float64 `json:"line_total"`
}

type orderResponse struct {
	ID            string              `json:"id"`
	CustomerID    string              `json:"customer_id"`
	Status        string              `json:"status"`
	Items         []orderItemResponse `json:"items"`
	DiscountType  string              `json:"discount_type"`
	DiscountValue float64             `json:"discount_value"`
	Subtotal      float64             `json:"subtotal"`
	Total         float64             `json:"total"`
}

func orderToResponse(o *order.Order) orderResponse {
	items := make([]orderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = orderItemResponse{
			ID:          it.ID,
			ProductName: it.ProductName,
			UnitPrice:   it.UnitPrice.InexactFloat64(),
			Quantity:    it.Quantity,
			LineTotal:   it.LineTotal.InexactFloat64(),
		}
	}
	return orderResponse{
		ID:            o.ID,
		CustomerID:    o.CustomerID,
		Status:        string(o.Status),
		Items:         items,
		DiscountType:  string(o.DiscountType),
		DiscountValue: o.DiscountValue.InexactFloat64(),
		Subtotal:      o.Subtotal.InexactFloat64(),
		Total:         o.Total.InexactFloat64(),
	}
}

// itemsFromPayload validates and converts the line items. The second return
// value is a validation message; empty means the items are valid.
func itemsFromPayload(payload []orderItemPayload) ([]order.OrderItem, string) {
	items := make([]order.OrderItem, len(payload))
	for i, it := range payload {
		if it.ProductName == "" {
			return nil, "product_name is required"
		}
		if it.UnitPrice == nil {
			return nil, "unit_price is required"
		}
		if *it.UnitPrice < 0 {
			return nil, "unit_price must be non-negative"
		}
		if it.Quantity == nil {
			return nil, "quantity is required"
		}
		if *it.Quantity < 1 {
			return nil, "quantity must be at least 1"
		}
		items[i] = order.OrderItem{
			ID:          it.ID,
			ProductName: it.ProductName,
			UnitPrice:   decimal.NewFromFloat(*it.UnitPrice),
			Quantity:    *it.Quantity,
		}
	}
	return items, ""
}

// CreateOrder handles POST /api/orders.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req orderPayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CustomerID == "" {
		writeError(w, http.StatusBadRequest, "customer_id is required")
		return
	}
	status := order.Status(req.Status)
	if req.Status != "" && !status.Valid() {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}
	discountType := order.DiscountType(req.DiscountType)
	if req.DiscountType != "" && !discountType.Valid() {
		writeError(w, http.StatusBadRequest, "invalid discount_type")
		return
	}
	discountValue := decimal.Zero
	if req.DiscountValue != nil {
		if *req.DiscountValue < 0 {
			writeError(w, http.StatusBadRequest, "discount_value must be non-negative")
			return
		}
		discountValue = decimal.NewFromFloat(*req.DiscountValue)
	}
	items, msg := itemsFromPayload(req.Items)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	o, err := h.orders.Create(r.Context(), order.CreateParams{
		CustomerID:    req.CustomerID,
		Status:        status,
		Items:         items,
		DiscountType:  discountType,
		DiscountValue: discountValue,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orderToResponse(o))
}

// ListOrders handles GET /api/orders with optional customer_id and status
// query filters.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	orders, err := h.orders.List(r.Context(), order.Filter{
		CustomerID: q.Get("customer_id"),
		Status:     order.Status(q.Get("status")),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	out := make([]orderResponse, len(orders))
	for i := range orders {
		out[i] = orderToResponse(&orders[i])
	}
	writeJSON(w, http.StatusOK, out)
}

// GetOrder handles GET /api/orders/{id}.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orderToResponse(o))
}

// UpdateOrder handles PUT /api/orders/{id}.
func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	var req orderPatch
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var params order.UpdateParams
	if req.Status != nil {
		s := order.Status(*req.Status)
		if !s.Valid() {
			writeError(w, http.StatusBadRequest, "invalid status")
			return
		}
		params.Status = &s
	}
	if req.DiscountType != nil {
		dt := order.DiscountType(*req.DiscountType)
		if !dt.Valid() {
			writeError(w, http.StatusBadRequest, "invalid discount_type")
			return
		}
		params.DiscountType = &dt
	}
	if req.DiscountValue != nil {
		if *req.DiscountValue < 0 {
			writeError(w, http.StatusBadRequest, "discount_value must be non-negative")
			return
		}
		dv := decimal.NewFromFloat(*req.DiscountValue)
		params.DiscountValue = &dv
	}
	if req.Items != nil {
		items, msg := itemsFromPayload(*req.Items)
		if msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
		params.Items = &items
	}

	o, err := h.orders.Update(r.Context(), chi.URLParam(r, "id"), params)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orderToResponse(o))
}

// DeleteOrder handles DELETE /api/orders/{id}.
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, okBody{OK: true})
}

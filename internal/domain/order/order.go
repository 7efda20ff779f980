package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Status enumerates order lifecycle states.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusShipped   Status = "shipped"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known order status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusPaid, StatusShipped, StatusCancelled:
		return true
	}
	return false
}

// DiscountType enumerates the supported discount strategies.
type DiscountType string

const (
	// DiscountAmount subtracts a fixed monetary value, capped at the subtotal.
	DiscountAmount DiscountType = "amount"
	// DiscountPercent subtracts a percentage of the subtotal, capped at the subtotal.
	DiscountPercent DiscountType = "percent"
)

// Valid reports whether d is a known discount type.
func (d DiscountType) Valid() bool {
	return d == DiscountAmount || d == DiscountPercent
}

// Sentinel errors for order operations.
var (
	// ErrNotFound is returned when a requested order does not exist.
	ErrNotFound = errors.New("order not found")
	// ErrInvalidCustomer is returned when an order references a customer
	// that does not exist.
	ErrInvalidCustomer = errors.New("invalid customer_id")
)

// OrderItem is a single line item embedded in an order. ID is an optional
// client-supplied line identifier. LineTotal is derived by the pricing
// calculator and never trusted from input.
type OrderItem struct {
	ID          string          `json:"id,omitempty"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// Order represents a customer order. Subtotal and Total are derived from
// Items and the discount fields; they are recomputed on every write.
type Order struct {
	ID            string
	CustomerID    string
	Status        Status
	Items         []OrderItem
	DiscountType  DiscountType
	DiscountValue decimal.Decimal
	Subtotal      decimal.Decimal
	Total         decimal.Decimal
	CreatedAt     time.Time
}

// Filter narrows an order listing. Zero-value fields match everything;
// non-empty fields are exact matches combined with AND.
type Filter struct {
	CustomerID string
	Status     Status
}

// Repository defines persistence operations for orders.
//
// Insert assigns the store identity to o.ID. Update and Delete return
// ErrNotFound when the target record does not exist. ExistsForCustomer
// reports whether any order references the given customer.
type Repository interface {
	Insert(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id string) (*Order, error)
	Find(ctx context.Context, f Filter) ([]Order, error)
	Update(ctx context.Context, o *Order) error
	Delete(ctx context.Context, id string) error
	ExistsForCustomer(ctx context.Context, customerID string) (bool, error)
}

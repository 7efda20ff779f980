package order

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// CustomerChecker reports whether a customer exists. It is implemented by the
// customer repository; declared here to avoid a package cycle.
type CustomerChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Service encapsulates order business logic: the customer reference check on
// create and the unconditional recompute of totals on every write.
type Service struct {
	orders    Repository
	customers CustomerChecker
}

// NewService creates an order Service with the required dependencies.
func NewService(orders Repository, customers CustomerChecker) *Service {
	return &Service{
		orders:    orders,
		customers: customers,
	}
}

// CreateParams holds the input for creating an order. Zero-value Status and
// DiscountType default to draft and amount.
type CreateParams struct {
	CustomerID    string
	Status        Status
	Items         []OrderItem
	DiscountType  DiscountType
	DiscountValue decimal.Decimal
}

// Create validates the customer reference, computes totals, and persists the
// order. It returns ErrInvalidCustomer when the customer does not exist,
// regardless of the item or discount payload.
func (s *Service) Create(ctx context.Context, p CreateParams) (*Order, error) {
	exists, err := s.customers.Exists(ctx, p.CustomerID)
	if err != nil {
		return nil, errors.Wrapf(err, "check customer %q", p.CustomerID)
	}
	if !exists {
		return nil, ErrInvalidCustomer
	}

	o := &Order{
		CustomerID:    p.CustomerID,
		Status:        p.Status,
		Items:         p.Items,
		DiscountType:  p.DiscountType,
		DiscountValue: p.DiscountValue,
	}
	if o.Status == "" {
		o.Status = StatusDraft
	}
	if o.DiscountType == "" {
		o.DiscountType = DiscountAmount
	}
	o.Recompute()

	if err := s.orders.Insert(ctx, o); err != nil {
		return nil, errors.Wrap(err, "insert order")
	}
	return o, nil
}

// Get returns a single order by ID.
func (s *Service) Get(ctx context.Context, id string) (*Order, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "find order %q", id)
	}
	return o, nil
}

// List returns orders matching the filter. A zero filter returns all orders.
func (s *Service) List(ctx context.Context, f Filter) ([]Order, error) {
	out, err := s.orders.Find(ctx, f)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return out, nil
}

// UpdateParams holds a partial order update. Nil fields are left unchanged.
// Items replace the stored list wholesale; lines are never merged.
type UpdateParams struct {
	Status        *Status
	DiscountType  *DiscountType
	DiscountValue *decimal.Decimal
	Items         *[]OrderItem
}

// Update loads the order, applies the present fields, and recomputes totals
// regardless of which fields changed so the stored subtotal and total never
// drift from the items and discount.
func (s *Service) Update(ctx context.Context, id string, p UpdateParams) (*Order, error) {
	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Status != nil {
		o.Status = *p.Status
	}
	if p.DiscountType != nil {
		o.DiscountType = *p.DiscountType
	}
	if p.DiscountValue != nil {
		o.DiscountValue = *p.DiscountValue
	}
	if p.Items != nil {
		o.Items = *p.Items
	}
	o.Recompute()

	if err := s.orders.Update(ctx, o); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "update order %q", id)
	}
	return o, nil
}

// Delete removes the order with the given ID. Deleting an order has no effect
// on the customer it references.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.orders.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return errors.Wrapf(err, "delete order %q", id)
	}
	return nil
}

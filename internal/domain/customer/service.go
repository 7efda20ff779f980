package customer

import (
	"context"

	"github.com/go-faster/errors"
)

// OrderChecker reports whether any order references a customer. It is
// implemented by the order repository; declared here to avoid a package cycle.
type OrderChecker interface {
	ExistsForCustomer(ctx context.Context, customerID string) (bool, error)
}

// Service encapsulates customer business rules: email uniqueness on create
// and update, and the delete guard against dangling orders.
type Service struct {
	customers Repository
	orders    OrderChecker
}

// NewService creates a customer Service with the required dependencies.
func NewService(customers Repository, orders OrderChecker) *Service {
	return &Service{
		customers: customers,
		orders:    orders,
	}
}

// CreateParams holds the input for creating a customer.
type CreateParams struct {
	Name    string
	Email   string
	Phone   *string
	Address *string
	Status  Status
}

// Create inserts a new customer. It returns ErrEmailExists when the email is
// already in use. An empty status defaults to active.
func (s *Service) Create(ctx context.Context, p CreateParams) (*Customer, error) {
	if err := s.checkEmailFree(ctx, p.Email, ""); err != nil {
		return nil, err
	}

	status := p.Status
	if status == "" {
		status = StatusActive
	}

	c := &Customer{
		Name:    p.Name,
		Email:   p.Email,
		Phone:   p.Phone,
		Address: p.Address,
		Status:  status,
	}
	if err := s.customers.Insert(ctx, c); err != nil {
		return nil, errors.Wrap(err, "insert customer")
	}
	return c, nil
}

// Get returns a single customer by ID.
func (s *Service) Get(ctx context.Context, id string) (*Customer, error) {
	c, err := s.customers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "find customer %q", id)
	}
	return c, nil
}

// List returns all customers.
func (s *Service) List(ctx context.Context) ([]Customer, error) {
	out, err := s.customers.FindAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list customers")
	}
	return out, nil
}

// UpdateParams holds a partial customer update. Nil fields are left unchanged.
type UpdateParams struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
	Status  *Status
}

// Update applies a partial update to the customer with the given ID. When the
// email changes, uniqueness is re-checked against all other customers; setting
// the email to its current value succeeds.
func (s *Service) Update(ctx context.Context, id string, p UpdateParams) (*Customer, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Email != nil {
		if err := s.checkEmailFree(ctx, *p.Email, c.ID); err != nil {
			return nil, err
		}
		c.Email = *p.Email
	}
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Phone != nil {
		c.Phone = p.Phone
	}
	if p.Address != nil {
		c.Address = p.Address
	}
	if p.Status != nil {
		c.Status = *p.Status
	}

	if err := s.customers.Update(ctx, c); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "update customer %q", id)
	}
	return c, nil
}

// Delete removes the customer with the given ID. It returns ErrHasOrders when
// any order still references the customer, and ErrNotFound when the customer
// does not exist. The order check runs first, matching the API contract.
func (s *Service) Delete(ctx context.Context, id string) error {
	referenced, err := s.orders.ExistsForCustomer(ctx, id)
	if err != nil {
		return errors.Wrapf(err, "check orders for customer %q", id)
	}
	if referenced {
		return ErrHasOrders
	}

	if err := s.customers.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return errors.Wrapf(err, "delete customer %q", id)
	}
	return nil
}

// checkEmailFree returns ErrEmailExists when a customer other than selfID
// already uses the email.
func (s *Service) checkEmailFree(ctx context.Context, email, selfID string) error {
	other, err := s.customers.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return errors.Wrapf(err, "find customer by email %q", email)
	}
	if other.ID != selfID {
		return ErrEmailExists
	}
	return nil
}

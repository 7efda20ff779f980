package customer

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// Status enumerates customer lifecycle states.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Valid reports whether s is a known customer status.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Sentinel errors for customer operations.
var (
	// ErrNotFound is returned when a requested customer does not exist.
	ErrNotFound = errors.New("customer not found")
	// ErrEmailExists is returned when another customer already uses the email.
	// The comparison is an exact string match.
	ErrEmailExists = errors.New("email already exists")
	// ErrHasOrders is returned when a customer cannot be deleted because
	// orders still reference it.
	ErrHasOrders = errors.New("cannot delete customer with existing orders")
)

// Customer represents a customer record. Phone and Address are optional and
// nil when unset. The ID is assigned by the store on insert.
type Customer struct {
	ID        string
	Name      string
	Email     string
	Phone     *string
	Address   *string
	Status    Status
	CreatedAt time.Time
}

// Repository defines persistence operations for customers.
//
// Insert assigns the store identity to c.ID. FindByEmail performs an exact
// match and returns ErrNotFound when no customer uses the email. Update and
// Delete return ErrNotFound when the target record does not exist.
type Repository interface {
	Insert(ctx context.Context, c *Customer) error
	FindByID(ctx context.Context, id string) (*Customer, error)
	FindByEmail(ctx context.Context, email string) (*Customer, error)
	FindAll(ctx context.Context) ([]Customer, error)
	Update(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}

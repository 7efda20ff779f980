package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/customer-orders-api/internal/domain/customer"
)

const (
	insertCustomerSQL = `INSERT INTO customers (id, name, email, phone, address, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	getCustomerByIDSQL = `SELECT id, name, email, phone, address, status, created_at
		FROM customers WHERE id = $1`

	getCustomerByEmailSQL = `SELECT id, name, email, phone, address, status, created_at
		FROM customers WHERE email = $1`

	listCustomersSQL = `SELECT id, name, email, phone, address, status, created_at
		FROM customers ORDER BY created_at, id`

	updateCustomerSQL = `UPDATE customers
		SET name = $2, email = $3, phone = $4, address = $5, status = $6
		WHERE id = $1`

	deleteCustomerSQL = `DELETE FROM customers WHERE id = $1`

	customerExistsSQL = `SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1)`
)

var _ customer.Repository = (*CustomerRepository)(nil)

// CustomerRepository implements customer.Repository backed by PostgreSQL.
type CustomerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository returns a CustomerRepository that uses the given pool.
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

// Insert persists a new customer, assigning a fresh id.
func (r *CustomerRepository) Insert(ctx context.Context, c *customer.Customer) error {
	c.ID = uuid.New().String()
	c.CreatedAt = time.Now().UTC()

	_, err := r.pool.Exec(ctx, insertCustomerSQL,
		c.ID, c.Name, c.Email, c.Phone, c.Address, string(c.Status), c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting customer %q: %w", c.Email, err)
	}
	return nil
}

// FindByID returns a single customer by its identifier.
func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*customer.Customer, error) {
	return r.findOne(ctx, getCustomerByIDSQL, id)
}

// FindByEmail returns the customer using the given email (exact match).
func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	return r.findOne(ctx, getCustomerByEmailSQL, email)
}

// FindAll returns all customers ordered by creation time.
func (r *CustomerRepository) FindAll(ctx context.Context) ([]customer.Customer, error) {
	rows, err := r.pool.Query(ctx, listCustomersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}
	return pgx.CollectRows(rows, scanCustomer)
}

// Update overwrites the stored record for c.ID.
func (r *CustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	tag, err := r.pool.Exec(ctx, updateCustomerSQL,
		c.ID, c.Name, c.Email, c.Phone, c.Address, string(c.Status),
	)
	if err != nil {
		return fmt.Errorf("updating customer %q: %w", c.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return customer.ErrNotFound
	}
	return nil
}

// Delete removes the customer with the given id.
func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteCustomerSQL, id)
	if err != nil {
		return fmt.Errorf("deleting customer %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return customer.ErrNotFound
	}
	return nil
}

// Exists reports whether a customer with the given id exists.
func (r *CustomerRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, customerExistsSQL, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking customer %q: %w", id, err)
	}
	return exists, nil
}

func (r *CustomerRepository) findOne(ctx context.Context, sql, arg string) (*customer.Customer, error) {
	rows, err := r.pool.Query(ctx, sql, arg)
	if err != nil {
		return nil, fmt.Errorf("querying customer: %w", err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanCustomer)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, customer.ErrNotFound
		}
		return nil, fmt.Errorf("querying customer: %w", err)
	}
	return &c, nil
}

func scanCustomer(row pgx.CollectableRow) (customer.Customer, error) {
	var (
		c      customer.Customer
		status string
	)
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &status, &c.CreatedAt)
	c.Status = customer.Status(status)
	return c, err
}

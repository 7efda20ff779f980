package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/xenking/customer-orders-api/internal/domain/order"
)

const (
	insertOrderSQL = `INSERT INTO orders
		(id, customer_id, status, items, discount_type, discount_value, subtotal, total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	getOrderByIDSQL = `SELECT id, customer_id, status, items, discount_type, discount_value, subtotal, total, created_at
		FROM orders WHERE id = $1`

	listOrdersSQL = `SELECT id, customer_id, status, items, discount_type, discount_value, subtotal, total, created_at
		FROM orders`

	updateOrderSQL = `UPDATE orders
		SET status = $2, items = $3, discount_type = $4, discount_value = $5, subtotal = $6, total = $7
		WHERE id = $1`

	deleteOrderSQL = `DELETE FROM orders WHERE id = $1`

	orderExistsForCustomerSQL = `SELECT EXISTS (SELECT 1 FROM orders WHERE customer_id = $1)`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. Line
// items are serialized to JSON for storage in the JSONB column.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Insert persists a new order, assigning a fresh id.
func (r *OrderRepository) Insert(ctx context.Context, o *order.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshaling order items: %w", err)
	}

	o.ID = uuid.New().String()
	o.CreatedAt = time.Now().UTC()

	_, err = r.pool.Exec(ctx, insertOrderSQL,
		o.ID, o.CustomerID, string(o.Status), itemsJSON,
		string(o.DiscountType), o.DiscountValue, o.Subtotal, o.Total, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting order %q: %w", o.ID, err)
	}
	return nil
}

// FindByID returns a single order by its identifier.
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("querying order %q: %w", id, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("querying order %q: %w", id, err)
	}
	return &o, nil
}

// Find returns orders matching the filter, oldest first. Filter fields are
// exact matches combined with AND.
func (r *OrderRepository) Find(ctx context.Context, f order.Filter) ([]order.Order, error) {
	sql := listOrdersSQL
	var (
		conds []string
		args  []any
	)
	if f.CustomerID != "" {
		args = append(args, f.CustomerID)
		conds = append(conds, "customer_id = $"+strconv.Itoa(len(args)))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		conds = append(conds, "status = $"+strconv.Itoa(len(args)))
	}
	for i, c := range conds {
		if i == 0 {
			sql += " WHERE " + c
		} else {
			sql += " AND " + c
		}
	}
	sql += " ORDER BY created_at, id"

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// Update overwrites the stored record for o.ID.
func (r *OrderRepository) Update(ctx context.Context, o *order.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshaling order items: %w", err)
	}

	tag, err := r.pool.Exec(ctx, updateOrderSQL,
		o.ID, string(o.Status), itemsJSON,
		string(o.DiscountType), o.DiscountValue, o.Subtotal, o.Total,
	)
	if err != nil {
		return fmt.Errorf("updating order %q: %w", o.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// Delete removes the order with the given id.
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteOrderSQL, id)
	if err != nil {
		return fmt.Errorf("deleting order %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// ExistsForCustomer reports whether any order references the given customer.
func (r *OrderRepository) ExistsForCustomer(ctx context.Context, customerID string) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, orderExistsForCustomerSQL, customerID).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking orders for customer %q: %w", customerID, err)
	}
	return exists, nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o             order.Order
		status        string
		itemsJSON     []byte
		discountType  string
		discountValue decimal.Decimal
		subtotal      decimal.Decimal
		total         decimal.Decimal
	)
	err := row.Scan(
		&o.ID, &o.CustomerID, &status, &itemsJSON,
		&discountType, &discountValue, &subtotal, &total, &o.CreatedAt,
	)
	if err != nil {
		return order.Order{}, err
	}

	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return order.Order{}, fmt.Errorf("unmarshaling order items: %w", err)
	}
	o.Status = order.Status(status)
	o.DiscountType = order.DiscountType(discountType)
	o.DiscountValue = discountValue
	o.Subtotal = subtotal
	o.Total = total
	return o, nil
}

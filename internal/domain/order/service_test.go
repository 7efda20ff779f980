package order

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock implementations ---

type mockOrderRepo struct {
	byID      map[string]*Order
	nextID    string
	insertErr error
	updated   *Order
	deleted   []string
	lastFind  Filter
	findOut   []Order
}

func newOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{byID: make(map[string]*Order), nextID: "o1"}
}

func (m *mockOrderRepo) Insert(_ context.Context, o *Order) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	o.ID = m.nextID
	m.byID[o.ID] = o
	return nil
}

func (m *mockOrderRepo) FindByID(_ context.Context, id string) (*Order, error) {
	o, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *mockOrderRepo) Find(_ context.Context, f Filter) ([]Order, error) {
	m.lastFind = f
	return m.findOut, nil
}

func (m *mockOrderRepo) Update(_ context.Context, o *Order) error {
	if _, ok := m.byID[o.ID]; !ok {
		return ErrNotFound
	}
	m.byID[o.ID] = o
	m.updated = o
	return nil
}

func (m *mockOrderRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return ErrNotFound
	}
	delete(m.byID, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockOrderRepo) ExistsForCustomer(_ context.Context, customerID string) (bool, error) {
	for _, o := range m.byID {
		if o.CustomerID == customerID {
			return true, nil
		}
	}
	return false, nil
}

type mockCustomerChecker struct {
	existing map[string]bool
	err      error
}

func (m *mockCustomerChecker) Exists(_ context.Context, id string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.existing[id], nil
}

func knownCustomers(ids ...string) *mockCustomerChecker {
	existing := make(map[string]bool, len(ids))
	for _, id := range ids {
		existing[id] = true
	}
	return &mockCustomerChecker{existing: existing}
}

// --- Tests ---

func TestCreate_InvalidCustomer(t *testing.T) {
	svc := NewService(newOrderRepo(), knownCustomers())

	_, err := svc.Create(context.Background(), CreateParams{
		CustomerID: "missing",
		Items:      []OrderItem{item("A", "10", 1)},
	})
	require.ErrorIs(t, err, ErrInvalidCustomer)
}

func TestCreate_ComputesTotals(t *testing.T) {
	repo := newOrderRepo()
	svc := NewService(repo, knownCustomers("c1"))

	o, err := svc.Create(context.Background(), CreateParams{
		CustomerID:    "c1",
		Items:         []OrderItem{item("A", "10", 3)},
		DiscountType:  DiscountAmount,
		DiscountValue: decimal.NewFromInt(5),
	})
	require.NoError(t, err)

	assert.Equal(t, "o1", o.ID)
	assert.True(t, decimal.RequireFromString("30.00").Equal(o.Subtotal))
	assert.True(t, decimal.RequireFromString("25.00").Equal(o.Total))
	require.Contains(t, repo.byID, "o1")
}

func TestCreate_Defaults(t *testing.T) {
	svc := NewService(newOrderRepo(), knownCustomers("c1"))

	o, err := svc.Create(context.Background(), CreateParams{CustomerID: "c1"})
	require.NoError(t, err)

	assert.Equal(t, StatusDraft, o.Status)
	assert.Equal(t, DiscountAmount, o.DiscountType)
	assert.True(t, o.Subtotal.IsZero())
	assert.True(t, o.Total.IsZero())
}

func TestCreate_InsertError(t *testing.T) {
	repo := newOrderRepo()
	repo.insertErr = errors.New("db write failed")
	svc := NewService(repo, knownCustomers("c1"))

	_, err := svc.Create(context.Background(), CreateParams{CustomerID: "c1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert order")
}

func TestGet_NotFound(t *testing.T) {
	svc := NewService(newOrderRepo(), knownCustomers())

	_, err := svc.Get(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestList_PassesFilter(t *testing.T) {
	repo := newOrderRepo()
	repo.findOut = []Order{{ID: "o1"}}
	svc := NewService(repo, knownCustomers())

	out, err := svc.List(context.Background(), Filter{CustomerID: "c1", Status: StatusPaid})
	require.NoError(t, err)

	assert.Len(t, out, 1)
	assert.Equal(t, Filter{CustomerID: "c1", Status: StatusPaid}, repo.lastFind)
}

func TestUpdate_PartialRecomputes(t *testing.T) {
	repo := newOrderRepo()
	svc := NewService(repo, knownCustomers("c1"))

	created, err := svc.Create(context.Background(), CreateParams{
		CustomerID:    "c1",
		Items:         []OrderItem{item("A", "10", 3)},
		DiscountValue: decimal.NewFromInt(5),
	})
	require.NoError(t, err)

	// Change only the discount; totals must follow.
	newValue := decimal.NewFromInt(10)
	updated, err := svc.Update(context.Background(), created.ID, UpdateParams{
		DiscountValue: &newValue,
	})
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("30.00").Equal(updated.Subtotal))
	assert.True(t, decimal.RequireFromString("20.00").Equal(updated.Total))
	assert.Equal(t, StatusDraft, updated.Status, "unset fields stay unchanged")
}

func TestUpdate_ItemsReplaceWholesale(t *testing.T) {
	repo := newOrderRepo()
	svc := NewService(repo, knownCustomers("c1"))

	created, err := svc.Create(context.Background(), CreateParams{
		CustomerID: "c1",
		Items:      []OrderItem{item("A", "10", 3), item("B", "5", 1)},
	})
	require.NoError(t, err)

	replacement := []OrderItem{item("C", "2.50", 2)}
	updated, err := svc.Update(context.Background(), created.ID, UpdateParams{
		Items: &replacement,
	})
	require.NoError(t, err)

	require.Len(t, updated.Items, 1)
	assert.Equal(t, "C", updated.Items[0].ProductName)
	assert.True(t, decimal.RequireFromString("5.00").Equal(updated.Subtotal))
}

func TestUpdate_NotFound(t *testing.T) {
	svc := NewService(newOrderRepo(), knownCustomers())

	_, err := svc.Update(context.Background(), "missing", UpdateParams{})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	repo := newOrderRepo()
	svc := NewService(repo, knownCustomers("c1"))

	created, err := svc.Create(context.Background(), CreateParams{CustomerID: "c1"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	assert.Equal(t, []string{created.ID}, repo.deleted)

	err = svc.Delete(context.Background(), created.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

package customer

import (
	"context"
	"strconv"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock implementations ---

type mockCustomerRepo struct {
	byID      map[string]*Customer
	seq       int
	insertErr error
}

func newCustomerRepo() *mockCustomerRepo {
	return &mockCustomerRepo{byID: make(map[string]*Customer)}
}

func (m *mockCustomerRepo) Insert(_ context.Context, c *Customer) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.seq++
	c.ID = "c" + strconv.Itoa(m.seq)
	cp := *c
	m.byID[c.ID] = &cp
	return nil
}

func (m *mockCustomerRepo) FindByID(_ context.Context, id string) (*Customer, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *mockCustomerRepo) FindByEmail(_ context.Context, email string) (*Customer, error) {
	for _, c := range m.byID {
		if c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockCustomerRepo) FindAll(_ context.Context) ([]Customer, error) {
	out := make([]Customer, 0, len(m.byID))
	for _, c := range m.byID {
		out = append(out, *c)
	}
	return out, nil
}

func (m *mockCustomerRepo) Update(_ context.Context, c *Customer) error {
	if _, ok := m.byID[c.ID]; !ok {
		return ErrNotFound
	}
	cp := *c
	m.byID[c.ID] = &cp
	return nil
}

func (m *mockCustomerRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *mockCustomerRepo) Exists(_ context.Context, id string) (bool, error) {
	_, ok := m.byID[id]
	return ok, nil
}

type mockOrderChecker struct {
	referenced map[string]bool
	err        error
}

func (m *mockOrderChecker) ExistsForCustomer(_ context.Context, customerID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.referenced[customerID], nil
}

func noOrders() *mockOrderChecker {
	return &mockOrderChecker{}
}

// --- Tests ---

func TestCreate(t *testing.T) {
	repo := newCustomerRepo()
	svc := NewService(repo, noOrders())

	phone := "+1-555-0100"
	c, err := svc.Create(context.Background(), CreateParams{
		Name:  "Ada Lovelace",
		Email: "ada@example.com",
		Phone: &phone,
	})
	require.NoError(t, err)

	assert.Equal(t, "c1", c.ID)
	assert.Equal(t, StatusActive, c.Status, "status defaults to active")
	require.NotNil(t, c.Phone)
	assert.Equal(t, phone, *c.Phone)
	assert.Nil(t, c.Address)
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo := newCustomerRepo()
	svc := NewService(repo, noOrders())

	_, err := svc.Create(context.Background(), CreateParams{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateParams{Name: "Imposter", Email: "ada@example.com"})
	require.ErrorIs(t, err, ErrEmailExists)
}

func TestCreate_EmailMatchIsExact(t *testing.T) {
	repo := newCustomerRepo()
	svc := NewService(repo, noOrders())

	_, err := svc.Create(context.Background(), CreateParams{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	// Differently-cased email is a different email.
	_, err = svc.Create(context.Background(), CreateParams{Name: "Ada2", Email: "Ada@example.com"})
	require.NoError(t, err)
}

func TestGet_NotFound(t *testing.T) {
	svc := NewService(newCustomerRepo(), noOrders())

	_, err := svc.Get(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdate_Partial(t *testing.T) {
	repo := newCustomerRepo()
	svc := NewService(repo, noOrders())

	created, err := svc.Create(context.Background(), CreateParams{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	name := "Ada Lovelace"
	status := StatusInactive
	updated, err := svc.Update(context.Background(), created.ID, UpdateParams{
		Name:   &name,
		Status: &status,
	})
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", updated.Name)
	assert.Equal(t, StatusInactive, updated.Status)
	assert.Equal(t, "ada@example.com", updated.Email, "unset fields stay unchanged")
}

func TestUpdate_EmailCollision(t *testing.T) {
	repo := newCustomerRepo()
	svc := NewService(repo, noOrders())

	_, err := svc.Create(context.Background(), CreateParams{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	bob, err := svc.Create(context.Background(), CreateParams{Name: "Bob", Email: "bob@example.com"})
	require.NoError(t, err)

	taken := "ada@example.com"
	_, err = svc.Update(context.Background(), bob.ID, UpdateParams{Email: &taken})
	require.ErrorIs(t, err, ErrEmailExists)

	// Updating to the customer's own current email succeeds.
	own := "bob@example.com"
	_, err = svc.Update(context.Background(), bob.ID, UpdateParams{Email: &own})
	require.NoError(t, err)
}

func TestUpdate_NotFound(t *testing.T) {
	svc := NewService(newCustomerRepo(), noOrders())

	_, err := svc.Update(context.Background(), "missing", UpdateParams{})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	repo := newCustomerRepo()
	svc := NewService(repo, noOrders())

	created, err := svc.Create(context.Background(), CreateParams{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	err = svc.Delete(context.Background(), created.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_WithOrders(t *testing.T) {
	repo := newCustomerRepo()
	svc := NewService(repo, &mockOrderChecker{referenced: map[string]bool{"c1": true}})

	created, err := svc.Create(context.Background(), CreateParams{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	require.Equal(t, "c1", created.ID)

	err = svc.Delete(context.Background(), created.ID)
	require.ErrorIs(t, err, ErrHasOrders)

	// The record survives a refused delete.
	_, err = svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
}

func TestDelete_OrderCheckError(t *testing.T) {
	repo := newCustomerRepo()
	svc := NewService(repo, &mockOrderChecker{err: errors.New("store down")})

	_, err := svc.Create(context.Background(), CreateParams{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), "c1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "check orders")
}

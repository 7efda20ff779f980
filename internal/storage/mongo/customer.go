package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	driver "go.mongodb.org/mongo-driver/mongo"

	"github.com/xenking/customer-orders-api/internal/domain/customer"
)

var _ customer.Repository = (*CustomerRepository)(nil)

// CustomerRepository implements customer.Repository backed by MongoDB.
type CustomerRepository struct {
	coll *driver.Collection
}

// NewCustomerRepository returns a CustomerRepository using the "customers"
// collection of the given database.
func NewCustomerRepository(db *driver.Database) *CustomerRepository {
	return &CustomerRepository{coll: db.Collection("customers")}
}

type customerDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Phone     *string            `bson:"phone,omitempty"`
	Address   *string            `bson:"address,omitempty"`
	Status    string             `bson:"status"`
	CreatedAt time.Time          `bson:"created_at"`
}

// Insert persists a new customer; the assigned ObjectID is written back to
// c.ID as a hex string.
func (r *CustomerRepository) Insert(ctx context.Context, c *customer.Customer) error {
	c.CreatedAt = time.Now().UTC()

	res, err := r.coll.InsertOne(ctx, customerToDoc(c))
	if err != nil {
		return fmt.Errorf("inserting customer %q: %w", c.Email, err)
	}
	c.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

// FindByID returns a single customer by its hex id. Ids that are not valid
// ObjectIDs cannot match any document and report not found.
func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*customer.Customer, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, customer.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// FindByEmail returns the customer using the given email (exact match).
func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// FindAll returns all customers ordered by creation time.
func (r *CustomerRepository) FindAll(ctx context.Context) ([]customer.Customer, error) {
	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}

	var docs []customerDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding customers: %w", err)
	}

	out := make([]customer.Customer, len(docs))
	for i, d := range docs {
		out[i] = docToCustomer(d)
	}
	return out, nil
}

// Update overwrites the stored document for c.ID.
func (r *CustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	oid, err := primitive.ObjectIDFromHex(c.ID)
	if err != nil {
		return customer.ErrNotFound
	}

	update := bson.M{"$set": bson.M{
		"name":    c.Name,
		"email":   c.Email,
		"phone":   c.Phone,
		"address": c.Address,
		"status":  string(c.Status),
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("updating customer %q: %w", c.ID, err)
	}
	if res.MatchedCount == 0 {
		return customer.ErrNotFound
	}
	return nil
}

// Delete removes the customer with the given hex id.
func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return customer.ErrNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("deleting customer %q: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return customer.ErrNotFound
	}
	return nil
}

// Exists reports whether a customer with the given hex id exists.
func (r *CustomerRepository) Exists(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("checking customer %q: %w", id, err)
	}
	return n > 0, nil
}

func (r *CustomerRepository) findOne(ctx context.Context, filter bson.M) (*customer.Customer, error) {
	var doc customerDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, driver.ErrNoDocuments) {
			return nil, customer.ErrNotFound
		}
		return nil, fmt.Errorf("querying customer: %w", err)
	}
	c := docToCustomer(doc)
	return &c, nil
}

func customerToDoc(c *customer.Customer) customerDoc {
	return customerDoc{
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt,
	}
}

func docToCustomer(d customerDoc) customer.Customer {
	return customer.Customer{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		Phone:     d.Phone,
		Address:   d.Address,
		Status:    customer.Status(d.Status),
		CreatedAt: d.CreatedAt,
	}
}

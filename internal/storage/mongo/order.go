package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	driver "go.mongodb.org/mongo-driver/mongo"

	"github.com/xenking/customer-orders-api/internal/domain/order"
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by MongoDB. Line items
// are embedded documents; money is stored as float64 (values are always
// rounded to 2 decimal places before persisting).
type OrderRepository struct {
	coll *driver.Collection
}

// NewOrderRepository returns an OrderRepository using the "orders" collection
// of the given database.
func NewOrderRepository(db *driver.Database) *OrderRepository {
	return &OrderRepository{coll: db.Collection("orders")}
}

type orderItemDoc struct {
	ID          string  `bson:"id,omitempty"`
	ProductName string  `bson:"product_name"`
	UnitPrice   float64 `bson:"unit_price"`
	Quantity    int     `bson:"quantity"`
	LineTotal   float64 `bson:"line_total"`
}

type orderDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	CustomerID    string             `bson:"customer_id"`
	Status        string             `bson:"status"`
	Items         []orderItemDoc     `bson:"items"`
	DiscountType  string             `bson:"discount_type"`
	DiscountValue float64            `bson:"discount_value"`
	Subtotal      float64            `bson:"subtotal"`
	Total         float64            `bson:"total"`
	CreatedAt     time.Time          `bson:"created_at"`
}

// Insert persists a new order; the assigned ObjectID is written back to o.ID
// as a hex string.
func (r *OrderRepository) Insert(ctx context.Context, o *order.Order) error {
	o.CreatedAt = time.Now().UTC()

	res, err := r.coll.InsertOne(ctx, orderToDoc(o))
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}
	o.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

// FindByID returns a single order by its hex id.
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, order.ErrNotFound
	}

	var doc orderDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, driver.ErrNoDocuments) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("querying order %q: %w", id, err)
	}
	o := docToOrder(doc)
	return &o, nil
}

// Find returns orders matching the filter, oldest first.
func (r *OrderRepository) Find(ctx context.Context, f order.Filter) ([]order.Order, error) {
	filter := bson.M{}
	if f.CustomerID != "" {
		filter["customer_id"] = f.CustomerID
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}

	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}

	var docs []orderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding orders: %w", err)
	}

	out := make([]order.Order, len(docs))
	for i, d := range docs {
		out[i] = docToOrder(d)
	}
	return out, nil
}

// Update overwrites the stored document for o.ID.
func (r *OrderRepository) Update(ctx context.Context, o *order.Order) error {
	oid, err := primitive.ObjectIDFromHex(o.ID)
	if err != nil {
		return order.ErrNotFound
	}

	update := bson.M{"$set": bson.M{
		"status":         string(o.Status),
		"items":          itemsToDocs(o.Items),
		"discount_type":  string(o.DiscountType),
		"discount_value": o.DiscountValue.InexactFloat64(),
		"subtotal":       o.Subtotal.InexactFloat64(),
		"total":          o.Total.InexactFloat64(),
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("updating order %q: %w", o.ID, err)
	}
	if res.MatchedCount == 0 {
		return order.ErrNotFound
	}
	return nil
}

// Delete removes the order with the given hex id.
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return order.ErrNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("deleting order %q: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return order.ErrNotFound
	}
	return nil
}

// ExistsForCustomer reports whether any order references the given customer.
func (r *OrderRepository) ExistsForCustomer(ctx context.Context, customerID string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"customer_id": customerID})
	if err != nil {
		return false, fmt.Errorf("checking orders for customer %q: %w", customerID, err)
	}
	return n > 0, nil
}

func orderToDoc(o *order.Order) orderDoc {
	return orderDoc{
		CustomerID:    o.CustomerID,
		Status:        string(o.Status),
		Items:         itemsToDocs(o.Items),
		DiscountType:  string(o.DiscountType),
		DiscountValue: o.DiscountValue.InexactFloat64(),
		Subtotal:      o.Subtotal.InexactFloat64(),
		Total:         o.Total.InexactFloat64(),
		CreatedAt:     o.CreatedAt,
	}
}

func itemsToDocs(items []order.OrderItem) []orderItemDoc {
	docs := make([]orderItemDoc, len(items))
	for i, it := range items {
		docs[i] = orderItemDoc{
			ID:          it.ID,
			ProductName: it.ProductName,
			UnitPrice:   it.UnitPrice.InexactFloat64(),
			Quantity:    it.Quantity,
			LineTotal:   it.LineTotal.InexactFloat64(),
		}
	}
	return docs
}

func docToOrder(d orderDoc) order.Order {
	items := make([]order.OrderItem, len(d.Items))
	for i, it := range d.Items {
		items[i] = order.OrderItem{
			ID:          it.ID,
			ProductName: it.ProductName,
			UnitPrice:   decimal.NewFromFloat(it.UnitPrice),
			Quantity:    it.Quantity,
			LineTotal:   decimal.NewFromFloat(it.LineTotal),
		}
	}
	return order.Order{
		ID:            d.ID.Hex(),
		CustomerID:    d.CustomerID,
		Status:        order.Status(d.Status),
		Items:         items,
		DiscountType:  order.DiscountType(d.DiscountType),
		DiscountValue: decimal.NewFromFloat(d.DiscountValue),
		Subtotal:      decimal.NewFromFloat(d.Subtotal),
		Total:         decimal.NewFromFloat(d.Total),
		CreatedAt:     d.CreatedAt,
	}
}

// Command seed-db loads a small demo dataset (customers and orders) through
// the domain services. Safe to re-run: customers that already exist are
// reused, not duplicated.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/customer-orders-api/internal/domain/customer"
	"github.com/xenking/customer-orders-api/internal/domain/order"
	"github.com/xenking/customer-orders-api/internal/storage"
)

func main() {
	var cfg storage.Config

	flag.StringVar(&cfg.Driver, "driver", "postgres", "storage driver: postgres or mongo")
	flag.StringVar(&cfg.DatabaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&cfg.MongoURL, "mongo-url", "", "MongoDB connection URL (or MONGO_URL env)")
	flag.StringVar(&cfg.MongoDatabase, "mongo-database", "orders", "MongoDB database name")
	flag.Parse()

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.MongoURL == "" {
		cfg.MongoURL = os.Getenv("MONGO_URL")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, cfg storage.Config) error {
	slog.Info("connecting to store", slog.String("driver", cfg.Driver))

	store, err := storage.Open(ctx, cfg)
	if err != nil {
		return errors.Wrap(err, "open store")
	}
	defer store.Close()

	customerSvc := customer.NewService(store.Customers, store.Orders)
	orderSvc := order.NewService(store.Orders, store.Customers)

	ids, err := seedCustomers(ctx, customerSvc, store.Customers)
	if err != nil {
		return errors.Wrap(err, "seed customers")
	}

	if err := seedOrders(ctx, orderSvc, ids); err != nil {
		return errors.Wrap(err, "seed orders")
	}
	return nil
}

func str(s string) *string { return &s }

func seedCustomers(ctx context.Context, svc *customer.Service, repo customer.Repository) (map[string]string, error) {
	demo := []customer.CreateParams{
		{
			Name:    "Ada Lovelace",
			Email:   "ada@example.com",
			Phone:   str("+1-555-0101"),
			Address: str("12 Analytical Way, London"),
		},
		{
			Name:    "Grace Hopper",
			Email:   "grace@example.com",
			Phone:   str("+1-555-0102"),
			Address: str("7 Compiler Court, Arlington"),
		},
		{
			Name:   "Edsger Dijkstra",
			Email:  "edsger@example.com",
			Status: customer.StatusInactive,
		},
	}

	// Email -> id of the created (or already existing) customer.
	ids := make(map[string]string, len(demo))
	for _, p := range demo {
		c, err := svc.Create(ctx, p)
		if errors.Is(err, customer.ErrEmailExists) {
			existing, findErr := repo.FindByEmail(ctx, p.Email)
			if findErr != nil {
				return nil, errors.Wrapf(findErr, "find existing customer %s", p.Email)
			}
			slog.Info("customer exists", slog.String("email", p.Email), slog.String("id", existing.ID))
			ids[p.Email] = existing.ID
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "create customer %s", p.Email)
		}

		slog.Info("created customer", slog.String("email", c.Email), slog.String("id", c.ID))
		ids[c.Email] = c.ID
	}
	return ids, nil
}

func seedOrders(ctx context.Context, svc *order.Service, ids map[string]string) error {
	demo := []order.CreateParams{
		{
			CustomerID: ids["ada@example.com"],
			Status:     order.StatusPaid,
			Items: []order.OrderItem{
				{ProductName: "Mechanical Keyboard", UnitPrice: decimal.RequireFromString("89.99"), Quantity: 1},
				{ProductName: "USB-C Cable", UnitPrice: decimal.RequireFromString("9.50"), Quantity: 3},
			},
			DiscountType:  order.DiscountAmount,
			DiscountValue: decimal.RequireFromString("10.00"),
		},
		{
			CustomerID: ids["grace@example.com"],
			Items: []order.OrderItem{
				{ProductName: "Monitor Stand", UnitPrice: decimal.RequireFromString("34.00"), Quantity: 2},
			},
			DiscountType:  order.DiscountPercent,
			DiscountValue: decimal.RequireFromString("15"),
		},
	}

	for _, p := range demo {
		o, err := svc.Create(ctx, p)
		if err != nil {
			return errors.Wrapf(err, "create order for customer %s", p.CustomerID)
		}

		slog.Info("created order",
			slog.String("id", o.ID),
			slog.String("customer_id", o.CustomerID),
			slog.String("total", o.Total.String()),
		)
	}
	return nil
}

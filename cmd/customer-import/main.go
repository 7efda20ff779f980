// Command customer-import loads customers from gzip-compressed JSONL dump
// files into the store. Each line is one customer record. Emails are unique:
// duplicates within the run and records already present in the store are
// skipped, not overwritten.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/customer-orders-api/internal/domain/customer"
	"github.com/xenking/customer-orders-api/internal/storage"
)

const (
	bloomCapacity = 10_000_000
	bloomFPR      = 0.001
	progressEvery = 100_000
)

type customerJSON struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Status  string  `json:"status"`
}

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

	files := flag.Args()
	if len(files) == 0 {
		slog.Error("no input files: pass one or more customers .jsonl.gz files")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, cfg, files); err != nil {
		slog.Error("customer import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("customer import completed successfully")
}

func run(ctx context.Context, cfg storage.Config, files []string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			return errors.Wrapf(err, "check file %s", f)
		}
	}

	// Pass 1: scan all files concurrently to validate them and report the
	// approximate distinct email count per file before touching the store.
	slog.Info("pass 1: scanning dump files", slog.Int("files", len(files)))

	if err := scanFiles(ctx, files); err != nil {
		return errors.Wrap(err, "scan dump files")
	}

	slog.Info("connecting to store", slog.String("driver", cfg.Driver))

	store, err := storage.Open(ctx, cfg)
	if err != nil {
		return errors.Wrap(err, "open store")
	}
	defer store.Close()

	svc := customer.NewService(store.Customers, store.Orders)

	// Pass 2: import files in the given order.
	imported, skipped, err := importFiles(ctx, svc, store.Customers, files)
	if err != nil {
		return errors.Wrap(err, "import customers")
	}

	slog.Info("import finished",
		slog.Int("imported", imported),
		slog.Int("skipped", skipped),
	)
	return nil
}

// scanFiles builds one bloom filter per file, concurrently, and logs the
// approximate number of distinct emails each file contributes.
func scanFiles(ctx context.Context, files []string) error {
	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(scanFile(ctx, i, f))
	}
	return g.Wait()
}

func scanFile(ctx context.Context, idx int, path string) func() error {
	return func() error {
		filter := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
		var lines, malformed uint64

		if err := streamGzLines(ctx, path, func(line []byte) {
			lines++
			if lines%progressEvery == 0 {
				slog.Info("pass 1 progress",
					slog.Int("file", idx+1),
					slog.Uint64("lines", lines),
				)
			}

			var rec customerJSON
			if err := json.Unmarshal(line, &rec); err != nil || rec.Email == "" {
				malformed++
				return
			}
			filter.AddString(rec.Email)
		}); err != nil {
			return errors.Wrapf(err, "scan file %d", idx+1)
		}

		slog.Info("pass 1 complete",
			slog.Int("file", idx+1),
			slog.Uint64("lines", lines),
			slog.Uint64("malformed", malformed),
			slog.Uint64("distinct_emails", uint64(filter.ApproximatedSize())),
		)
		return nil
	}
}

// importFiles streams each file in order and creates the customers through
// the service. A bloom filter of already-imported emails keeps intra-run
// duplicate detection cheap without holding every email in memory; positives
// are confirmed against the store before skipping.
func importFiles(ctx context.Context, svc *customer.Service, repo customer.Repository, files []string) (imported, skipped int, err error) {
	seen := bloom.NewWithEstimates(bloomCapacity, bloomFPR)

	for idx, path := range files {
		var lines uint64

		err := streamGzLines(ctx, path, func(line []byte) {
			lines++
			if lines%progressEvery == 0 {
				slog.Info("pass 2 progress",
					slog.Int("file", idx+1),
					slog.Uint64("lines", lines),
					slog.Int("imported", imported),
				)
			}

			var rec customerJSON
			if err := json.Unmarshal(line, &rec); err != nil {
				skipped++
				return
			}
			if rec.Name == "" || rec.Email == "" {
				skipped++
				return
			}
			if rec.Status != "" && !customer.Status(rec.Status).Valid() {
				skipped++
				return
			}

			if seen.TestString(rec.Email) {
				// Likely imported earlier this run; the store has the exact
				// answer and rules out a bloom false positive.
				if _, err := repo.FindByEmail(ctx, rec.Email); err == nil {
					skipped++
					return
				}
			}

			_, err := svc.Create(ctx, customer.CreateParams{
				Name:    rec.Name,
				Email:   rec.Email,
				Phone:   rec.Phone,
				Address: rec.Address,
				Status:  customer.Status(rec.Status),
			})
			switch {
			case err == nil:
				seen.AddString(rec.Email)
				imported++
			case errors.Is(err, customer.ErrEmailExists):
				skipped++
			default:
				slog.Warn("skipping record",
					slog.String("email", rec.Email),
					slog.String("error", err.Error()),
				)
				skipped++
			}
		})
		if err != nil {
			return imported, skipped, errors.Wrapf(err, "import file %d", idx+1)
		}

		slog.Info("file imported",
			slog.Int("file", idx+1),
			slog.Uint64("lines", lines),
		)
	}
	return imported, skipped, nil
}

// streamGzLines opens a gzip-compressed file and calls fn for each line.
func streamGzLines(ctx context.Context, path string, fn func(line []byte)) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(scanner.Bytes())
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}
	return nil
}

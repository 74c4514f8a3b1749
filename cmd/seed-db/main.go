// Command seed-db fills a PostgreSQL database with fake products and
// customers for local development.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/xenking/order-capture/internal/domain/customer"
	"github.com/xenking/order-capture/internal/fake"
	"github.com/xenking/order-capture/internal/storage/postgres"
)

func main() {
	var (
		databaseURL string
		products    int
		customers   int
		seed        uint64
	)
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.IntVar(&products, "products", 10, "number of fake products to create")
	flag.IntVar(&customers, "customers", 3, "number of fake customers to create")
	flag.Uint64Var(&seed, "seed", 0, "faker seed; 0 picks a random one")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, products, customers, gofakeit.New(seed)); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL string, products, customers int, f *gofakeit.Faker) error {
	slog.Info("connecting to database")
	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")
	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	productRepo := postgres.NewProductRepository(pool, nil)
	for range products {
		p := fake.NewProduct(f)
		id, err := productRepo.Create(ctx, p)
		if err != nil {
			return errors.Wrap(err, "create product")
		}
		slog.Info("created product",
			slog.String("id", id),
			slog.String("name", p.Name),
			slog.String("price", p.Price.String()),
			slog.Bool("in_stock", p.InStock),
		)
	}

	customerRepo := postgres.NewCustomerRepository(pool)
	for range customers {
		c, err := customer.New(uuid.NewString(), f.Name(), f.Email(), fake.Address(f))
		if err != nil {
			return errors.Wrap(err, "build customer")
		}
		if err := customerRepo.Create(ctx, c); err != nil {
			return errors.Wrap(err, "create customer")
		}
		slog.Info("created customer", slog.String("id", c.ID()), slog.String("name", c.Name()))
	}
	return nil
}

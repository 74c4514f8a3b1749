// Command catalog-import loads products from gzip-compressed JSON-lines files
// into the PostgreSQL catalog.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"

	"github.com/xenking/order-capture/internal/storage/postgres"
)

func main() {
	var (
		databaseURL string
		expected    uint
	)
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.UintVar(&expected, "expected", 1_000_000, "expected number of distinct products, sizes the bloom filter")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	files := flag.Args()
	if len(files) == 0 {
		slog.Error("usage: catalog-import [flags] file.jsonl.gz...")
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, files, expected); err != nil {
		slog.Error("catalog import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, databaseURL string, files []string, expected uint) error {
	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	imp := newImporter(postgres.NewProductRepository(pool, nil), expected)
	if err := imp.prime(ctx); err != nil {
		return err
	}
	stats, err := imp.importFiles(ctx, files)
	if err != nil {
		return err
	}
	slog.Info("catalog import completed",
		slog.Int64("lines", stats.lines.Load()),
		slog.Int64("written", stats.written.Load()),
		slog.Int64("unchanged", stats.unchanged.Load()),
	)
	return nil
}

package main

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/google/uuid"
	"github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/order-capture/internal/domain/money"
	"github.com/xenking/order-capture/internal/domain/product"
)

const bloomFPR = 0.001

// catalogNamespace derives stable product ids from name and category, so
// re-importing a file updates rows instead of duplicating them.
var catalogNamespace = uuid.MustParse("6f1c8b4e-9a35-4e0b-8a57-2d7b1f0c9e21")

type catalog interface {
	List(ctx context.Context) ([]product.Product, error)
	GetByID(ctx context.Context, id string) (*product.Product, error)
	Upsert(ctx context.Context, p product.Product) error
}

type importStats struct {
	lines     atomic.Int64
	written   atomic.Int64
	unchanged atomic.Int64
}

// importer writes products whose content changed. The bloom filter holds ids
// known to exist; a miss proves the product is new and skips the lookup.
type importer struct {
	repo catalog

	mu    sync.Mutex
	known *bloom.BloomFilter
}

func newImporter(repo catalog, expected uint) *importer {
	return &importer{
		repo:  repo,
		known: bloom.NewWithEstimates(max(expected, 1), bloomFPR),
	}
}

func productID(name, category string) string {
	key := strings.ToLower(strings.TrimSpace(name)) + "\x00" + strings.ToLower(strings.TrimSpace(category))
	return uuid.NewSHA1(catalogNamespace, []byte(key)).String()
}

// prime loads the ids of the current catalog into the filter.
func (imp *importer) prime(ctx context.Context) error {
	existing, err := imp.repo.List(ctx)
	if err != nil {
		return errors.Wrap(err, "list catalog")
	}
	imp.mu.Lock()
	defer imp.mu.Unlock()
	for _, p := range existing {
		imp.known.AddString(p.ID)
	}
	slog.Info("catalog loaded", slog.Int("products", len(existing)))
	return nil
}

func (imp *importer) importFiles(ctx context.Context, files []string) (*importStats, error) {
	stats := &importStats{}
	g, ctx := errgroup.WithContext(ctx)
	for _, path := range files {
		g.Go(func() error {
			return imp.importFile(ctx, path, stats)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

func (imp *importer) importFile(ctx context.Context, path string, stats *importStats) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	line := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line++
		raw := scanner.Bytes()
		if len(strings.TrimSpace(string(raw))) == 0 {
			continue
		}
		stats.lines.Add(1)

		p, err := parseProduct(raw)
		if err != nil {
			return errors.Wrapf(err, "%s:%d", path, line)
		}
		written, err := imp.store(ctx, p)
		if err != nil {
			return errors.Wrapf(err, "%s:%d", path, line)
		}
		if written {
			stats.written.Add(1)
		} else {
			stats.unchanged.Add(1)
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}
	slog.Info("file imported", slog.String("path", path), slog.Int("lines", line))
	return nil
}

func (imp *importer) store(ctx context.Context, p product.Product) (bool, error) {
	imp.mu.Lock()
	maybeKnown := imp.known.TestAndAddString(p.ID)
	imp.mu.Unlock()

	if maybeKnown {
		current, err := imp.repo.GetByID(ctx, p.ID)
		switch {
		case errors.Is(err, product.ErrNotFound):
		case err != nil:
			return false, errors.Wrap(err, "lookup")
		case sameContent(*current, p):
			return false, nil
		}
	}
	if err := imp.repo.Upsert(ctx, p); err != nil {
		return false, err
	}
	return true, nil
}

func sameContent(a, b product.Product) bool {
	return a.Name == b.Name &&
		a.Description == b.Description &&
		a.Price.Equal(b.Price) &&
		a.InStock == b.InStock &&
		a.Category == b.Category
}

// parseProduct decodes one JSON line and validates it like the API does.
func parseProduct(raw []byte) (product.Product, error) {
	var (
		name, description, category, price string
		inStock                            = true
	)
	err := jx.DecodeBytes(raw).Obj(func(d *jx.Decoder, key string) (err error) {
		switch key {
		case "name":
			name, err = d.Str()
		case "description":
			description, err = d.Str()
		case "category":
			category, err = d.Str()
		case "inStock":
			inStock, err = d.Bool()
		case "price":
			if d.Next() == jx.String {
				price, err = d.Str()
			} else {
				var n jx.Num
				n, err = d.Num()
				price = n.String()
			}
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return product.Product{}, errors.Wrap(err, "decode")
	}

	m, err := money.NewFromString(price)
	if err != nil {
		return product.Product{}, errors.Wrap(err, "price")
	}
	p, err := product.New(name, description, m, inStock, category)
	if err != nil {
		return product.Product{}, err
	}
	p.ID = productID(p.Name, p.Category)
	return p, nil
}

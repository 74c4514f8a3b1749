package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/klauspost/pgzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/order-capture/internal/domain/domainerr"
	"github.com/xenking/order-capture/internal/domain/product"
	"github.com/xenking/order-capture/internal/storage/memory"
)

type countingRepo struct {
	*memory.ProductRepository
	lookups atomic.Int32
}

func (r *countingRepo) GetByID(ctx context.Context, id string) (*product.Product, error) {
	r.lookups.Add(1)
	return r.ProductRepository.GetByID(ctx, id)
}

func writeGzip(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.jsonl.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := pgzip.NewWriter(f)
	_, err = gz.Write([]byte(strings.Join(lines, "\n")))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())
	return path
}

func TestParseProduct(t *testing.T) {
	p, err := parseProduct([]byte(`{"name":" Waffle ","price":6.5,"category":"Dessert","extra":[1,2]}`))
	require.NoError(t, err)
	assert.Equal(t, "Waffle", p.Name)
	assert.Equal(t, "6.50", p.Price.String())
	assert.True(t, p.InStock)
	assert.Equal(t, productID("waffle", "dessert"), p.ID)

	_, err = parseProduct([]byte(`{"name":"Waffle","price":"-1","category":"Dessert"}`))
	require.ErrorIs(t, err, domainerr.ErrInvalidValue)

	_, err = parseProduct([]byte(`{"name":`))
	require.Error(t, err)
}

func TestImportFiles(t *testing.T) {
	ctx := context.Background()
	repo := &countingRepo{ProductRepository: memory.NewProductRepository(nil)}

	first := writeGzip(t,
		`{"name":"Waffle","price":"6.50","category":"Dessert"}`,
		``,
		`{"name":"Latte","price":4,"category":"Coffee","inStock":false}`,
	)
	second := writeGzip(t,
		`{"name":"Brownie","price":"5.00","category":"Dessert"}`,
	)

	imp := newImporter(repo, 100)
	require.NoError(t, imp.prime(ctx))
	stats, err := imp.importFiles(ctx, []string{first, second})
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.lines.Load())
	assert.Equal(t, int64(3), stats.written.Load())
	assert.Zero(t, repo.lookups.Load(), "new ids skip the lookup")

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	// A second run over the same data writes nothing.
	imp = newImporter(repo, 100)
	require.NoError(t, imp.prime(ctx))
	stats, err = imp.importFiles(ctx, []string{first})
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.written.Load())
	assert.Equal(t, int64(2), stats.unchanged.Load())

	// A changed price is written back under the same id.
	changed := writeGzip(t, `{"name":"waffle","price":"7.00","category":"dessert"}`)
	stats, err = imp.importFiles(ctx, []string{changed})
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.written.Load())

	got, err := repo.ProductRepository.GetByID(ctx, productID("Waffle", "Dessert"))
	require.NoError(t, err)
	assert.Equal(t, "7.00", got.Price.String())
	assert.Equal(t, "waffle", got.Name)
}

func TestImportFiles_BadLine(t *testing.T) {
	repo := memory.NewProductRepository(nil)
	path := writeGzip(t, `{"name":"Waffle","price":"6.50","category":"Dessert"}`, `{"price":"1"}`)

	_, err := newImporter(repo, 10).importFiles(context.Background(), []string{path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), ":2")
}

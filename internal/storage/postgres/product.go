package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/xenking/order-capture/internal/domain/money"
	"github.com/xenking/order-capture/internal/domain/product"
)

var _ product.Repository = (*ProductRepository)(nil)

const productColumns = `id, name, description, price, in_stock, category`

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool  *pgxpool.Pool
	newID func() string
}

// NewProductRepository returns a ProductRepository that uses the given pool.
// A nil newID selects random UUIDs.
func NewProductRepository(pool *pgxpool.Pool, newID func() string) *ProductRepository {
	if newID == nil {
		newID = uuid.NewString
	}
	return &ProductRepository{pool: pool, newID: newID}
}

// List returns the catalog in insertion order.
func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY seq`)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	products, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, errors.Wrap(err, "scan products")
	}
	return products, nil
}

// GetByID returns a single product or product.ErrNotFound.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*product.Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get product %q", id)
	}
	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get product %q", id)
	}
	return &p, nil
}

// GetByIDs returns the products that exist among ids in a single query.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []string) ([]product.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ANY($1) ORDER BY seq`, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get products")
	}
	products, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, errors.Wrap(err, "scan products")
	}
	return products, nil
}

// Create inserts p under a new identifier.
func (r *ProductRepository) Create(ctx context.Context, p product.Product) (string, error) {
	id := r.newID()
	if err := insertProduct(ctx, r.pool, id, p); err != nil {
		return "", err
	}
	return id, nil
}

// Upsert stores p under its own identifier, replacing an existing row.
func (r *ProductRepository) Upsert(ctx context.Context, p product.Product) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			in_stock = EXCLUDED.in_stock,
			category = EXCLUDED.category`,
		p.ID, p.Name, p.Description, p.Price.Amount(), p.InStock, p.Category)
	if err != nil {
		return errors.Wrapf(err, "upsert product %q", p.ID)
	}
	return nil
}

// Delete removes the product from the catalog. Placed orders keep their
// snapshot.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return errors.Wrapf(err, "delete product %q", id)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

func insertProduct(ctx context.Context, pool *pgxpool.Pool, id string, p product.Product) error {
	_, err := pool.Exec(ctx,
		`INSERT INTO products (`+productColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		id, p.Name, p.Description, p.Price.Amount(), p.InStock, p.Category)
	if err != nil {
		return errors.Wrapf(err, "create product %q", p.Name)
	}
	return nil
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var (
		p     product.Product
		price decimal.Decimal
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &price, &p.InStock, &p.Category); err != nil {
		return product.Product{}, err
	}
	m, err := money.New(price)
	if err != nil {
		return product.Product{}, errors.Wrapf(err, "product %q price", p.ID)
	}
	p.Price = m
	return p, nil
}

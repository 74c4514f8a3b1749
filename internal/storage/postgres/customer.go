package postgres

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/xenking/order-capture/internal/domain/customer"
	"github.com/xenking/order-capture/internal/domain/money"
	"github.com/xenking/order-capture/internal/domain/order"
	"github.com/xenking/order-capture/internal/domain/product"
)

const uniqueViolation = "23505"

var _ customer.Repository = (*CustomerRepository)(nil)

// CustomerRepository implements customer.Repository backed by PostgreSQL.
// Orders and their lines are written once and never updated.
type CustomerRepository struct {
	pool *pgxpool.Pool
	opts []customer.Option
}

// NewCustomerRepository returns a CustomerRepository that uses the given
// pool. opts are applied to every restored customer.
func NewCustomerRepository(pool *pgxpool.Pool, opts ...customer.Option) *CustomerRepository {
	return &CustomerRepository{pool: pool, opts: opts}
}

// Create inserts a customer without orders.
func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	a := c.Address()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO customers (id, name, email, street, city, postal_code, country)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID(), c.Name(), c.Email(), a.Street, a.City, a.PostalCode, a.Country)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return errors.Wrap(customer.ErrAlreadyExists, c.ID())
		}
		return errors.Wrapf(err, "create customer %q", c.ID())
	}
	return nil
}

// GetByID loads the customer and its full order history.
func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*customer.Customer, error) {
	var (
		name, email string
		a           order.Address
	)
	err := r.pool.QueryRow(ctx, `
		SELECT name, email, street, city, postal_code, country
		FROM customers WHERE id = $1`, id,
	).Scan(&name, &email, &a.Street, &a.City, &a.PostalCode, &a.Country)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, customer.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get customer %q", id)
	}

	orders, err := r.orders(ctx, id)
	if err != nil {
		return nil, err
	}
	return customer.Restore(id, name, email, a, orders, r.opts...), nil
}

type orderRow struct {
	id           string
	deliveryDate time.Time
	giftWrap     bool
	address      order.Address
	placedAt     time.Time
	lines        []order.Line
}

func (r *CustomerRepository) orders(ctx context.Context, customerID string) ([]*order.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, delivery_date, gift_wrap, street, city, postal_code, country, placed_at
		FROM orders WHERE customer_id = $1 ORDER BY seq`, customerID)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	headers, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*orderRow, error) {
		o := &orderRow{}
		err := row.Scan(&o.id, &o.deliveryDate, &o.giftWrap,
			&o.address.Street, &o.address.City, &o.address.PostalCode, &o.address.Country,
			&o.placedAt)
		return o, err
	})
	if err != nil {
		return nil, errors.Wrap(err, "scan orders")
	}
	if len(headers) == 0 {
		return nil, nil
	}

	byID := make(map[string]*orderRow, len(headers))
	ids := make([]string, len(headers))
	for i, h := range headers {
		byID[h.id] = h
		ids[i] = h.id
	}

	lineRows, err := r.pool.Query(ctx, `
		SELECT order_id, product_id, product_name, product_description, product_category,
		       unit_price, quantity, line_total
		FROM order_lines WHERE order_id = ANY($1) ORDER BY order_id, position`, ids)
	if err != nil {
		return nil, errors.Wrap(err, "list order lines")
	}
	defer lineRows.Close()
	for lineRows.Next() {
		var (
			orderID string
			p       product.Product
			price   decimal.Decimal
			total   decimal.Decimal
			qty     int
		)
		if err := lineRows.Scan(&orderID, &p.ID, &p.Name, &p.Description, &p.Category, &price, &qty, &total); err != nil {
			return nil, errors.Wrap(err, "scan order line")
		}
		if p.Price, err = money.New(price); err != nil {
			return nil, errors.Wrapf(err, "order %q line price", orderID)
		}
		// Snapshots only exist for products that were in stock at placement.
		p.InStock = true
		lineTotal, err := money.New(total)
		if err != nil {
			return nil, errors.Wrapf(err, "order %q line total", orderID)
		}
		line, err := order.RestoreLine(p, qty, lineTotal)
		if err != nil {
			return nil, errors.Wrapf(err, "order %q line", orderID)
		}
		h := byID[orderID]
		h.lines = append(h.lines, line)
	}
	if err := lineRows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate order lines")
	}

	out := make([]*order.Order, 0, len(headers))
	for _, h := range headers {
		o, err := order.Restore(h.id, h.lines, order.RestoreDeliveryDate(h.deliveryDate), h.giftWrap, h.address, h.placedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

// AppendOrder inserts o and its lines in a single transaction.
func (r *CustomerRepository) AppendOrder(ctx context.Context, customerID string, o *order.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var exists bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1)`, customerID,
	).Scan(&exists); err != nil {
		return errors.Wrap(err, "check customer")
	}
	if !exists {
		return customer.ErrNotFound
	}

	a := o.ShippingAddress()
	if _, err := tx.Exec(ctx, `
		INSERT INTO orders (id, customer_id, delivery_date, gift_wrap, street, city, postal_code, country, placed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		o.ID(), customerID, o.DeliveryDate().Time(), o.GiftWrap(),
		a.Street, a.City, a.PostalCode, a.Country, o.PlacedAt(),
	); err != nil {
		return errors.Wrapf(err, "insert order %q", o.ID())
	}

	batch := &pgx.Batch{}
	for i, l := range o.Lines() {
		p := l.Product()
		batch.Queue(`
			INSERT INTO order_lines (order_id, position, product_id, product_name, product_description,
			                         product_category, unit_price, quantity, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			o.ID(), i, p.ID, p.Name, p.Description, p.Category,
			l.UnitPrice().Amount(), l.Quantity(), l.LineTotal().Amount())
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return errors.Wrapf(err, "insert order %q lines", o.ID())
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "commit")
	}
	return nil
}

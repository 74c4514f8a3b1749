// Package customer holds the Customer aggregate root, the only place where
// orders are created and appended to a customer's history.
package customer

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/xenking/order-capture/internal/domain/domainerr"
	"github.com/xenking/order-capture/internal/domain/order"
)

var (
	// ErrNotFound is returned when a requested customer does not exist.
	ErrNotFound = errors.New("customer not found")
	// ErrAlreadyExists is returned by Repository.Create for a duplicate id.
	ErrAlreadyExists = errors.New("customer already exists")
)

// Clock returns the current time.
type Clock func() time.Time

// IDSource returns a new unique identifier.
type IDSource func() string

// Option configures a Customer.
type Option func(*Customer)

// WithClock sets the clock used to timestamp and validate new orders.
func WithClock(clock Clock) Option {
	return func(c *Customer) { c.clock = clock }
}

// WithIDSource sets the source of new order identifiers.
func WithIDSource(ids IDSource) Option {
	return func(c *Customer) { c.nextID = ids }
}

// Customer owns a default shipping address and the append-only history of
// orders it placed.
//
// A Customer is not safe for concurrent use; Service serializes PlaceOrder
// calls per customer.
type Customer struct {
	id      string
	name    string
	email   string
	address order.Address
	orders  []*order.Order

	clock  Clock
	nextID IDSource
}

// New validates and returns a customer without orders.
func New(id, name, email string, address order.Address, opts ...Option) (*Customer, error) {
	if id == "" {
		return nil, domainerr.InvalidValue("id", "customer id is required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, domainerr.InvalidValue("name", "customer name is required")
	}
	if err := address.Validate(); err != nil {
		return nil, err
	}
	return Restore(id, strings.TrimSpace(name), email, address, nil, opts...), nil
}

// Restore rebuilds a persisted customer together with its order history.
func Restore(id, name, email string, address order.Address, orders []*order.Order, opts ...Option) *Customer {
	c := &Customer{
		id:      id,
		name:    name,
		email:   email,
		address: address,
		orders:  append([]*order.Order(nil), orders...),
		clock:   time.Now,
		nextID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID returns the customer identifier.
func (c *Customer) ID() string { return c.id }

// Name returns the customer's name.
func (c *Customer) Name() string { return c.name }

// Email returns the customer's email.
func (c *Customer) Email() string { return c.email }

// Address returns the default shipping address.
func (c *Customer) Address() order.Address { return c.address }

// Orders returns the placed orders, oldest first. The slice is a copy; the
// orders themselves are immutable.
func (c *Customer) Orders() []*order.Order {
	out := make([]*order.Order, len(c.orders))
	copy(out, c.orders)
	return out
}

// OrderCount returns the number of placed orders.
func (c *Customer) OrderCount() int { return len(c.orders) }

// PlaceOrder snapshots cart into a new order and appends it to the history.
// On error the history is left untouched.
func (c *Customer) PlaceOrder(
	cart *order.Cart,
	deliveryDate order.DeliveryDate,
	giftWrap bool,
	shippingAddress order.Address,
) (*order.Order, error) {
	now := c.clock()
	if err := order.CheckPlaceable(cart, deliveryDate, shippingAddress, now); err != nil {
		return nil, err
	}
	o, err := order.New(c.nextID(), cart, deliveryDate, giftWrap, shippingAddress, now)
	if err != nil {
		return nil, err
	}
	c.orders = append(c.orders, o)
	return o, nil
}

// Repository defines persistence operations for customers.
type Repository interface {
	Create(ctx context.Context, c *Customer) error
	// GetByID returns ErrNotFound when no customer has the given id.
	GetByID(ctx context.Context, id string) (*Customer, error)
	// AppendOrder durably appends o to the customer's history.
	AppendOrder(ctx context.Context, customerID string, o *order.Order) error
}

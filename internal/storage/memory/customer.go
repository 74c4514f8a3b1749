package memory

import (
	"context"
	"sync"

	"github.com/go-faster/errors"

	"github.com/xenking/order-capture/internal/domain/customer"
	"github.com/xenking/order-capture/internal/domain/order"
)

var _ customer.Repository = (*CustomerRepository)(nil)

type customerRecord struct {
	id      string
	name    string
	email   string
	address order.Address
	orders  []*order.Order
}

// CustomerRepository keeps customers in memory. Every GetByID returns a fresh
// aggregate so callers never share mutable state.
type CustomerRepository struct {
	mu      sync.RWMutex
	records map[string]*customerRecord
	opts    []customer.Option
}

// NewCustomerRepository creates an empty repository. opts are applied to
// every restored customer.
func NewCustomerRepository(opts ...customer.Option) *CustomerRepository {
	return &CustomerRepository{
		records: make(map[string]*customerRecord),
		opts:    opts,
	}
}

// Create stores c together with any orders it already holds.
func (r *CustomerRepository) Create(_ context.Context, c *customer.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[c.ID()]; ok {
		return errors.Wrap(customer.ErrAlreadyExists, c.ID())
	}
	r.records[c.ID()] = &customerRecord{
		id:      c.ID(),
		name:    c.Name(),
		email:   c.Email(),
		address: c.Address(),
		orders:  c.Orders(),
	}
	return nil
}

// GetByID restores the customer or returns customer.ErrNotFound.
func (r *CustomerRepository) GetByID(_ context.Context, id string) (*customer.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, customer.ErrNotFound
	}
	return customer.Restore(rec.id, rec.name, rec.email, rec.address, rec.orders, r.opts...), nil
}

// AppendOrder appends o to the stored history.
func (r *CustomerRepository) AppendOrder(_ context.Context, customerID string, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[customerID]
	if !ok {
		return customer.ErrNotFound
	}
	rec.orders = append(rec.orders, o)
	return nil
}

// Len returns the number of stored customers.
func (r *CustomerRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

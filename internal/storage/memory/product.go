// Package memory provides in-process repositories used when no database is
// configured and in tests.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/xenking/order-capture/internal/domain/product"
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository keeps the catalog in memory in insertion order.
type ProductRepository struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]product.Product
	newID func() string
}

// NewProductRepository creates an empty catalog. A nil newID selects random
// UUIDs.
func NewProductRepository(newID func() string) *ProductRepository {
	if newID == nil {
		newID = uuid.NewString
	}
	return &ProductRepository{
		byID:  make(map[string]product.Product),
		newID: newID,
	}
}

// Seed stores products as is, assigning identifiers only where missing.
func (r *ProductRepository) Seed(products ...product.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range products {
		if p.ID == "" {
			p.ID = r.newID()
		}
		r.put(p)
	}
}

func (r *ProductRepository) put(p product.Product) {
	if _, ok := r.byID[p.ID]; !ok {
		r.order = append(r.order, p.ID)
	}
	r.byID[p.ID] = p
}

// List returns all products in insertion order.
func (r *ProductRepository) List(_ context.Context) ([]product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]product.Product, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out, nil
}

// GetByID returns a copy of the product or product.ErrNotFound.
func (r *ProductRepository) GetByID(_ context.Context, id string) (*product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return &p, nil
}

// GetByIDs returns the products that exist among ids. Missing ids are
// skipped.
func (r *ProductRepository) GetByIDs(_ context.Context, ids []string) ([]product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]product.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// Create stores p under a new identifier.
func (r *ProductRepository) Create(_ context.Context, p product.Product) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.newID()
	r.put(p)
	return p.ID, nil
}

// Upsert stores p under its own identifier, replacing an existing product.
func (r *ProductRepository) Upsert(_ context.Context, p product.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(p)
	return nil
}

// Delete removes the product.
func (r *ProductRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return product.ErrNotFound
	}
	delete(r.byID, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

package product

import (
	"context"
	"strings"

	"github.com/go-faster/errors"

	"github.com/xenking/order-capture/internal/domain/domainerr"
	"github.com/xenking/order-capture/internal/domain/money"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item available for purchase. The catalog owns
// products; the ordering domain only keeps copies of them.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       money.Money
	InStock     bool
	Category    string
}

// New validates the catalog fields of a product. The ID is left empty and is
// assigned by the Repository on Create.
func New(name, description string, price money.Money, inStock bool, category string) (Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Product{}, domainerr.InvalidValue("name", "product name is required")
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return Product{}, domainerr.InvalidValue("category", "product category is required")
	}
	return Product{
		Name:        name,
		Description: description,
		Price:       price,
		InStock:     inStock,
		Category:    category,
	}, nil
}

// Repository defines the catalog operations.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]Product, error)
	// Create stores p under a freshly assigned identifier and returns it.
	Create(ctx context.Context, p Product) (string, error)
	// Delete removes the product. Returns ErrNotFound when it does not exist.
	Delete(ctx context.Context, id string) error
}

package order

import (
	"math"

	"github.com/xenking/order-capture/internal/domain/domainerr"
	"github.com/xenking/order-capture/internal/domain/money"
	"github.com/xenking/order-capture/internal/domain/product"
)

// CartItem is a product together with the quantity requested.
type CartItem struct {
	product  product.Product
	quantity int
}

// NewCartItem returns an item for p. The quantity must be positive and the
// product must carry its catalog identifier.
func NewCartItem(p product.Product, quantity int) (CartItem, error) {
	if p.ID == "" {
		return CartItem{}, domainerr.InvalidValue("product_id", "product id is required")
	}
	if quantity <= 0 {
		return CartItem{}, domainerr.InvalidValue("quantity", "quantity must be greater than 0")
	}
	return CartItem{product: p, quantity: quantity}, nil
}

// Product returns the product copy held by the item.
func (i CartItem) Product() product.Product {
	return i.product
}

// Quantity returns the requested quantity.
func (i CartItem) Quantity() int {
	return i.quantity
}

// IncreaseQuantity returns a copy of i with by units added.
func (i CartItem) IncreaseQuantity(by int) (CartItem, error) {
	if by <= 0 {
		return CartItem{}, domainerr.InvalidValue("quantity", "quantity increase must be greater than 0")
	}
	if by > math.MaxInt-i.quantity {
		return CartItem{}, domainerr.InvalidValue("quantity", "quantity is too large")
	}
	i.quantity += by
	return i, nil
}

// LineTotal returns price * quantity. Items built by NewCartItem always
// have a positive quantity; the zero CartItem totals zero.
func (i CartItem) LineTotal() money.Money {
	total, err := i.product.Price.Multiply(i.quantity)
	if err != nil {
		return money.Zero
	}
	return total
}

// Cart stages items before an order is placed. It holds at most one line per
// product and keeps lines in the order their product was first added.
//
// A Cart is owned by a single checkout session and is not safe for
// concurrent use.
type Cart struct {
	lines []CartItem
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

// AddItem adds item to the cart. When a line for the same product ID already
// exists, item's quantity is added to that line instead of creating a new one.
func (c *Cart) AddItem(item CartItem) error {
	if item.quantity <= 0 || item.product.ID == "" {
		return domainerr.InvalidValue("item", "cart item was not created with NewCartItem")
	}
	for idx, line := range c.lines {
		if line.product.ID != item.product.ID {
			continue
		}
		merged, err := line.IncreaseQuantity(item.quantity)
		if err != nil {
			return err
		}
		c.lines[idx] = merged
		return nil
	}
	c.lines = append(c.lines, item)
	return nil
}

// Lines returns a copy of the current lines in insertion order.
func (c *Cart) Lines() []CartItem {
	out := make([]CartItem, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}
